package testsupport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Upstream is a fake prediction service. Each request is recorded and answered
// with the current scripted status and body.
type Upstream struct {
	Server *httptest.Server

	mu       sync.Mutex
	status   int
	body     string
	requests []RecordedRequest
}

// RecordedRequest captures what the fake service received.
type RecordedRequest struct {
	Method      string
	Path        string
	ContentType string
	RequestID   string
	Body        map[string]any
}

// NewUpstream starts a fake service answering 200 with body. It is closed when
// the test ends.
func NewUpstream(t *testing.T, body string) *Upstream {
	t.Helper()

	u := &Upstream{status: http.StatusOK, body: body}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.Server.Close)
	return u
}

// URL returns the predict endpoint of the fake service.
func (u *Upstream) URL() string {
	return u.Server.URL + "/predict"
}

// Respond changes the scripted answer.
func (u *Upstream) Respond(status int, body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.status = status
	u.body = body
}

// Requests returns a copy of the recorded requests.
func (u *Upstream) Requests() []RecordedRequest {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]RecordedRequest(nil), u.requests...)
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	rec := RecordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		RequestID:   r.Header.Get("X-Request-Id"),
	}
	if data, err := io.ReadAll(r.Body); err == nil && len(data) > 0 {
		_ = json.Unmarshal(data, &rec.Body)
	}

	u.mu.Lock()
	u.requests = append(u.requests, rec)
	status, body := u.status, u.body
	u.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
