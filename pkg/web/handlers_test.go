package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/formsense/go-formcoach/pkg/coach"
	"github.com/formsense/go-formcoach/pkg/hub"
	"github.com/formsense/go-formcoach/pkg/llm"
	"github.com/formsense/go-formcoach/pkg/session"
)

func newTestServer() *Server {
	arbiter := coach.NewArbiter(llm.NewMock(), coach.Config{})
	manager := session.NewManager(arbiter, nil, nil, nil)
	return NewServer(":0", manager, hub.New("dashboard"), nil, nil)
}

func doJSON(t *testing.T, s *Server, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("%s %s: decode body: %v", method, path, err)
	}
	resp.Body.Close()
	return resp, payload
}

func TestHealthz(t *testing.T) {
	s := newTestServer()
	resp, payload := doJSON(t, s, http.MethodGet, "/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if payload["status"] != "ok" {
		t.Errorf("payload = %v", payload)
	}
}

func TestStatusWithoutSession(t *testing.T) {
	s := newTestServer()
	resp, payload := doJSON(t, s, http.MethodGet, "/api/status", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if payload["running"] != false {
		t.Errorf("running = %v, want false", payload["running"])
	}
}

func TestStartSession(t *testing.T) {
	s := newTestServer()

	resp, payload := doJSON(t, s, http.MethodPost, "/api/session", `{"sets": 2, "reps": 5}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %v", resp.StatusCode, payload)
	}
	if payload["session_id"] == "" {
		t.Error("missing session_id")
	}

	// Only one workout at a time.
	resp, _ = doJSON(t, s, http.MethodPost, "/api/session", `{}`)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("second start status = %d, want 409", resp.StatusCode)
	}

	resp, payload = doJSON(t, s, http.MethodGet, "/api/status", "")
	if resp.StatusCode != http.StatusOK || payload["running"] != true {
		t.Errorf("status after start = %d %v", resp.StatusCode, payload)
	}
}

func TestStartSessionRejectsUnknownMode(t *testing.T) {
	s := newTestServer()
	resp, _ := doJSON(t, s, http.MethodPost, "/api/session", `{"mode": "yoga"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestStopSession(t *testing.T) {
	s := newTestServer()

	resp, _ := doJSON(t, s, http.MethodPost, "/api/session/stop", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("stop without session = %d, want 404", resp.StatusCode)
	}

	doJSON(t, s, http.MethodPost, "/api/session", `{}`)
	resp, payload := doJSON(t, s, http.MethodPost, "/api/session/stop", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if _, ok := payload["total_reps"]; !ok {
		t.Errorf("payload = %v, want total_reps", payload)
	}

	if _, payload = doJSON(t, s, http.MethodGet, "/api/status", ""); payload["running"] != false {
		t.Error("session still running after stop")
	}
}

func TestResetSession(t *testing.T) {
	s := newTestServer()

	doJSON(t, s, http.MethodPost, "/api/session", `{"reps": 7}`)
	_, first := doJSON(t, s, http.MethodGet, "/api/status", "")

	resp, payload := doJSON(t, s, http.MethodPost, "/api/session/reset", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %v", resp.StatusCode, payload)
	}

	firstID := first["status"].(map[string]any)["session_id"]
	if payload["session_id"] == firstID {
		t.Error("reset must produce a fresh session id")
	}
}

func TestSetMode(t *testing.T) {
	s := newTestServer()

	resp, _ := doJSON(t, s, http.MethodPost, "/api/session/mode", `{"mode": "test_posture"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("mode without session = %d, want 404", resp.StatusCode)
	}

	doJSON(t, s, http.MethodPost, "/api/session", `{}`)

	resp, _ = doJSON(t, s, http.MethodPost, "/api/session/mode", `{"mode": "handstand"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid mode = %d, want 400", resp.StatusCode)
	}

	resp, payload := doJSON(t, s, http.MethodPost, "/api/session/mode", `{"mode": "test_posture"}`)
	if resp.StatusCode != http.StatusOK || payload["mode"] != "test_posture" {
		t.Errorf("set mode = %d %v", resp.StatusCode, payload)
	}
}

func TestStats(t *testing.T) {
	s := newTestServer()
	resp, payload := doJSON(t, s, http.MethodGet, "/api/stats", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if _, ok := payload["dashboard_clients"]; !ok {
		t.Errorf("payload = %v, want dashboard_clients", payload)
	}
}
