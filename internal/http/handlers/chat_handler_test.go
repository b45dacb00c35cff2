package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zburns31/AtlasTravelAssistant/internal/agent"
	"github.com/Zburns31/AtlasTravelAssistant/internal/domain"
	"github.com/Zburns31/AtlasTravelAssistant/internal/llm"
	"github.com/Zburns31/AtlasTravelAssistant/internal/modules/profile"
)

type stubRunner struct {
	reply   llm.Message
	err     error
	gotMsg  string
	gotPast []llm.Message
}

func (s *stubRunner) Run(ctx context.Context, userMessage string, past []llm.Message) (llm.Message, error) {
	s.gotMsg = userMessage
	s.gotPast = past
	return s.reply, s.err
}

func chatRouter(runner ChatRunner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewChatHandler(runner, nil, nil)
	r.POST("/api/chat", h.Chat)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChat_OK(t *testing.T) {
	runner := &stubRunner{reply: llm.Message{Role: llm.RoleAssistant, Content: "Here is your Kyoto plan."}}
	w := doJSON(t, chatRouter(runner), http.MethodPost, "/api/chat",
		map[string]string{"session_id": "abc-123", "message": "Plan 5 days in Kyoto"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp chatResp
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Reply != "Here is your Kyoto plan." || resp.Partial {
		t.Errorf("resp = %+v", resp)
	}
	if runner.gotMsg != "Plan 5 days in Kyoto" {
		t.Errorf("runner got %q", runner.gotMsg)
	}
}

func TestChat_BadRequests(t *testing.T) {
	cases := []struct {
		name string
		body any
	}{
		{"empty message", map[string]string{"session_id": "abc", "message": "  "}},
		{"bad session id", map[string]string{"session_id": "no spaces!", "message": "hi"}},
		{"not json", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			runner := &stubRunner{reply: llm.Message{Content: "x"}}
			w := doJSON(t, chatRouter(runner), http.MethodPost, "/api/chat", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestChat_RoundCapReturnsPartial(t *testing.T) {
	runner := &stubRunner{
		reply: llm.Message{Role: llm.RoleAssistant, Content: "Partial itinerary so far."},
		err:   agent.ErrTooManyRounds,
	}
	w := doJSON(t, chatRouter(runner), http.MethodPost, "/api/chat",
		map[string]string{"session_id": "abc", "message": "loop"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp chatResp
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Partial || resp.Reply != "Partial itinerary so far." {
		t.Errorf("resp = %+v", resp)
	}
}

func TestChat_UpstreamFailure(t *testing.T) {
	runner := &stubRunner{err: errors.New("provider exploded")}
	w := doJSON(t, chatRouter(runner), http.MethodPost, "/api/chat",
		map[string]string{"session_id": "abc", "message": "hi"})
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}

func TestChat_Timeout(t *testing.T) {
	runner := &stubRunner{err: context.DeadlineExceeded}
	w := doJSON(t, chatRouter(runner), http.MethodPost, "/api/chat",
		map[string]string{"session_id": "abc", "message": "hi"})
	if w.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", w.Code)
	}
}

func profileRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store, err := profile.NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	svc := profile.NewService(store, nil)
	r := gin.New()
	h := NewProfileHandler(svc)
	r.GET("/api/profile", h.Get)
	r.POST("/api/profile/trips", h.RecordTrip)
	return r
}

func TestProfile_GetDefaults(t *testing.T) {
	w := doJSON(t, profileRouter(t), http.MethodGet, "/api/profile", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var p profile.UserProfile
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.TripCount != 0 {
		t.Errorf("TripCount = %d, want 0", p.TripCount)
	}
}

func TestProfile_RecordTrip(t *testing.T) {
	it, err := domain.NewItinerary(
		domain.Destination{Name: "Lisbon", Country: "Portugal"},
		time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC),
		domain.DefaultPreferences(),
	)
	if err != nil {
		t.Fatal(err)
	}

	r := profileRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/profile/trips", it)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var p profile.UserProfile
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.TripCount != 1 || len(p.PastDestinations) != 1 {
		t.Errorf("profile = %+v", p)
	}
}

func TestProfile_RecordTripRejectsBadDates(t *testing.T) {
	// Hand-built payload with end before start bypasses the
	// constructor, so the handler's Validate call must catch it.
	body := map[string]any{
		"destination": map[string]string{"name": "Lisbon", "country": "Portugal"},
		"start_date":  "2025-09-05T00:00:00Z",
		"end_date":    "2025-09-01T00:00:00Z",
		"preferences": domain.DefaultPreferences(),
	}
	w := doJSON(t, profileRouter(t), http.MethodPost, "/api/profile/trips", body)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422, body = %s", w.Code, w.Body.String())
	}
}
