package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"github.com/Zburns31/AtlasTravelAssistant/internal/domain"
	"github.com/Zburns31/AtlasTravelAssistant/internal/llm"
)

// TransitEstimate is the travel-time answer for one origin/destination
// pair. An entry carrying only Err reports an upstream failure in-band.
type TransitEstimate struct {
	Origin          string             `json:"origin,omitempty"`
	Destination     string             `json:"destination,omitempty"`
	Mode            domain.TransitMode `json:"mode,omitempty"`
	DurationMinutes float64            `json:"duration_minutes,omitempty"`
	Distance        string             `json:"distance,omitempty"`
	Note            string             `json:"note,omitempty"`
	Err             string             `json:"error,omitempty"`
}

type transitArgs struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Mode        string `json:"mode"`
}

// TransitEstimator answers travel-time questions between two places,
// used when sequencing activities within an itinerary day.
type TransitEstimator struct {
	routes *maps.Client
}

func NewTransitEstimator(apiKey string) (*TransitEstimator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return &TransitEstimator{}, nil
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("transit: create maps client: %w", err)
	}
	return &TransitEstimator{routes: client}, nil
}

func (e *TransitEstimator) Tool() Tool {
	return Tool{
		Definition: llm.ToolDefinition{
			Name:        "estimate_travel_time",
			Description: "Estimate travel time and distance between two places, for sequencing activities within a day.",
			Parameters: llm.Schema{
				Type: "object",
				Properties: map[string]llm.Property{
					"origin":      {Type: "string", Description: "Starting place, e.g. 'Fushimi Inari, Kyoto'."},
					"destination": {Type: "string", Description: "Ending place, e.g. 'Nishiki Market, Kyoto'."},
					"mode":        {Type: "string", Description: "Travel mode.", Enum: []string{"walk", "bus", "train", "taxi"}},
				},
				Required: []string{"origin", "destination"},
			},
		},
		Handler: e.run,
	}
}

func (e *TransitEstimator) run(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var args transitArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return json.Marshal(TransitEstimate{Err: fmt.Sprintf("invalid arguments: %v", err)})
	}
	args.Origin = strings.TrimSpace(args.Origin)
	args.Destination = strings.TrimSpace(args.Destination)
	if args.Origin == "" || args.Destination == "" {
		return json.Marshal(TransitEstimate{Err: "origin and destination are required"})
	}
	mode := domain.TransitMode(args.Mode)
	if args.Mode == "" {
		mode = domain.TransitWalk
	}

	if e.routes == nil {
		return json.Marshal(TransitEstimate{
			Origin:          args.Origin,
			Destination:     args.Destination,
			Mode:            mode,
			DurationMinutes: 20,
			Note:            "Routing integration pending; placeholder estimate.",
		})
	}

	routes, _, err := e.routes.Directions(ctx, &maps.DirectionsRequest{
		Origin:      args.Origin,
		Destination: args.Destination,
		Mode:        directionsMode(mode),
	})
	if err != nil {
		return json.Marshal(TransitEstimate{
			Origin:      args.Origin,
			Destination: args.Destination,
			Err:         fmt.Sprintf("directions request failed: %v", err),
		})
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return json.Marshal(TransitEstimate{
			Origin:      args.Origin,
			Destination: args.Destination,
			Err:         "no route found",
		})
	}

	leg := routes[0].Legs[0]
	return json.Marshal(TransitEstimate{
		Origin:          args.Origin,
		Destination:     args.Destination,
		Mode:            mode,
		DurationMinutes: leg.Duration.Minutes(),
		Distance:        leg.Distance.HumanReadable,
	})
}

func directionsMode(m domain.TransitMode) maps.Mode {
	switch m {
	case domain.TransitWalk:
		return maps.TravelModeWalking
	case domain.TransitBus, domain.TransitTrain:
		return maps.TravelModeTransit
	default:
		return maps.TravelModeDriving
	}
}
