// README: Profile service folds saved trips into the stored profile.
package profile

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Zburns31/AtlasTravelAssistant/internal/domain"
)

// Service serializes profile updates: RecordTrip is a load-fold-save
// sequence, and concurrent folds would drop trips without the lock.
type Service struct {
	mu     sync.Mutex
	store  *Store
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store *Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

func (s *Service) Load() (UserProfile, error) {
	return s.store.Load()
}

// RecordTrip updates the profile with what a finished itinerary reveals
// about the user, then persists it.
func (s *Service) RecordTrip(it domain.Itinerary) (UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.Load()
	if err != nil {
		return UserProfile{}, fmt.Errorf("load profile: %w", err)
	}

	p.TripCount++
	p.UpdatedAt = s.now()
	p.PastDestinations = appendUnique(p.PastDestinations, it.Destination.Name)
	if it.Preferences.Pace.Valid() {
		p.PreferredPace = it.Preferences.Pace
	}
	for _, interest := range it.Preferences.Interests {
		p.FavouriteDestinationTypes = appendUnique(p.FavouriteDestinationTypes, interest)
	}
	for _, day := range it.Days {
		for _, act := range day.Activities {
			if act.Category.Valid() && !containsCategory(p.FavouriteCategories, act.Category) {
				p.FavouriteCategories = append(p.FavouriteCategories, act.Category)
			}
		}
	}
	if it.Preferences.BudgetUSD != nil {
		budget := averageBudget(p, *it.Preferences.BudgetUSD)
		p.TypicalBudgetUSD = &budget
	}

	if err := s.store.Save(p); err != nil {
		return UserProfile{}, fmt.Errorf("save profile: %w", err)
	}
	s.logger.Info("profile updated",
		zap.String("destination", it.Destination.Name),
		zap.Int("trip_count", p.TripCount))
	return p, nil
}

// averageBudget keeps a running mean over recorded trips. TripCount has
// already been bumped for the current trip when this runs.
func averageBudget(p UserProfile, latest float64) float64 {
	if p.TypicalBudgetUSD == nil || p.TripCount <= 1 {
		return latest
	}
	prior := float64(p.TripCount - 1)
	return (*p.TypicalBudgetUSD*prior + latest) / float64(p.TripCount)
}

func appendUnique(xs []string, x string) []string {
	if x == "" {
		return xs
	}
	for _, v := range xs {
		if v == x {
			return xs
		}
	}
	return append(xs, x)
}

func containsCategory(xs []domain.ActivityCategory, x domain.ActivityCategory) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
