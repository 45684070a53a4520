package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-fertform/internal/metrics"
	"github.com/goliatone/go-fertform/pkg/controller"
	"github.com/goliatone/go-fertform/pkg/predict"
	"github.com/goliatone/go-fertform/pkg/render"
	"github.com/goliatone/go-fertform/pkg/testsupport"
)

const ureaBody = `{"fertilizer":"Urea","fertilizer_type":"Nitrogen Fertilizer"}`

type harness struct {
	upstream *testsupport.Upstream
	metrics  *metrics.Recorder
	handler  http.Handler
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	upstream := testsupport.NewUpstream(t, ureaBody)
	client, err := predict.New(upstream.URL(), predict.WithTimeout(2*time.Second))
	require.NoError(t, err)

	rec := metrics.New()
	srv, err := New(Options{Predictor: client, Metrics: rec})
	require.NoError(t, err)
	return &harness{upstream: upstream, metrics: rec, handler: srv.Handler()}
}

func (h *harness) post(t *testing.T, form url.Values, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func (h *harness) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func sampleForm() url.Values {
	return url.Values{
		"crop":        {"Rice"},
		"region":      {"Punjab"},
		"month":       {"July"},
		"N":           {"50"},
		"P":           {"30"},
		"K":           {"20"},
		"temperature": {"25.5"},
		"humidity":    {"60"},
		"ph":          {"6.5"},
		"moisture":    {"40"},
		"action":      {"predict"},
	}
}

func TestNew_RequiresPredictor(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
}

func TestGetForm_RendersInitialPage(t *testing.T) {
	h := newHarness(t)

	rec := h.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	body := rec.Body.String()
	assert.Contains(t, body, `id="fertilizerForm"`)
	assert.Contains(t, body, `id="N-value"`)
	assert.Contains(t, body, `id="resultSection" class="results" hidden`)
	assert.Empty(t, h.upstream.Requests())
}

func TestPostForm_SuccessRendersRecommendation(t *testing.T) {
	h := newHarness(t)

	rec := h.post(t, sampleForm(), map[string]string{"X-Request-Id": "req-abc"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-abc", rec.Header().Get("X-Request-Id"))

	body := rec.Body.String()
	assert.Contains(t, body, `<h2 id="fertilizerName">Urea</h2>`)
	assert.Contains(t, body, `<dd id="fertilizerCategory">Nitrogen Fertilizer</dd>`)
	assert.Contains(t, body, `<dd id="resultCrop">Rice</dd>`)
	assert.Contains(t, body, `<dd id="resultRegion">Punjab</dd>`)
	assert.Contains(t, body, "46% nitrogen content")
	assert.Contains(t, body, `value="predict">Get Recommendation</button>`)
	assert.NotContains(t, body, `id="resultSection" class="results" hidden`)

	requests := h.upstream.Requests()
	require.Len(t, requests, 1)
	got := requests[0]
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/predict", got.Path)
	assert.Equal(t, "req-abc", got.RequestID)
	assert.Equal(t, "Rice", got.Body["crop"])
	assert.Equal(t, 50.0, got.Body["N"])
	assert.Equal(t, 25.5, got.Body["temperature"])
}

func TestPostForm_ServerRejectionShowsMessage(t *testing.T) {
	h := newHarness(t)
	h.upstream.Respond(http.StatusBadRequest, `{"error":"Invalid crop"}`)

	rec := h.post(t, sampleForm(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `<strong>Error:</strong> Invalid crop</div>`)
	assert.Contains(t, body, controller.RemediationHint)
	assert.NotContains(t, body, `id="fertilizerName"`)
}

func TestPostForm_TransportFailureShowsConnectivityMessage(t *testing.T) {
	h := newHarness(t)
	h.upstream.Respond(http.StatusInternalServerError, "<html>boom</html>")

	rec := h.post(t, sampleForm(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), controller.ConnectivityMessage)
}

func TestPostForm_SaveShowsBannerWithoutCallingUpstream(t *testing.T) {
	h := newHarness(t)

	form := sampleForm()
	form.Set("action", "save")
	form.Set("fertilizer", "Urea")
	form.Set("fertilizer_type", "Nitrogen Fertilizer")
	form.Set("result_crop", "Rice")

	rec := h.post(t, form, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, controller.SavedMessage)
	assert.Contains(t, body, `class="banner alert alert-success"`)
	assert.Contains(t, body, `<h2 id="fertilizerName">Urea</h2>`)
	assert.Contains(t, body, `<dd id="resultRegion">Punjab</dd>`)
	assert.Empty(t, h.upstream.Requests())
}

func TestPostForm_SaveWithoutRecommendationRejected(t *testing.T) {
	h := newHarness(t)

	form := sampleForm()
	form.Set("action", "save")
	form.Set("fertilizer", "  ")

	rec := h.post(t, form, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, rec.Body.String(), controller.SavedMessage)
	assert.Empty(t, h.upstream.Requests())
}

func TestPostForm_NullEchoesFallBackToFormValues(t *testing.T) {
	h := newHarness(t)
	h.upstream.Respond(http.StatusOK, `{"fertilizer":"Urea","crop":null,"region":null,"month":null}`)

	rec := h.post(t, sampleForm(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `<h2 id="fertilizerName">Urea</h2>`)
	assert.Contains(t, body, `<dd id="fertilizerCategory">Nitrogen Fertilizer</dd>`)
	assert.Contains(t, body, `<dd id="resultCrop">Rice</dd>`)
	assert.Contains(t, body, `<dd id="resultRegion">Punjab</dd>`)
	assert.Contains(t, body, `<dd id="resultMonth">July</dd>`)
	assert.NotContains(t, body, controller.ConnectivityMessage)
}

func TestPostForm_JSONClients(t *testing.T) {
	h := newHarness(t)

	rec := h.post(t, sampleForm(), map[string]string{"Accept": "application/json"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got render.Results
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Visible)
	assert.Equal(t, "Urea", got.Fertilizer)
	assert.Equal(t, "Rice", got.Crop)
	assert.Empty(t, got.Error)
}

func TestPostForm_UnknownAction(t *testing.T) {
	h := newHarness(t)

	form := sampleForm()
	form.Set("action", "delete")
	rec := h.post(t, form, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, h.upstream.Requests())
}

func TestHealthzAndMetrics(t *testing.T) {
	h := newHarness(t)

	rec := h.get("/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	h.post(t, sampleForm(), nil)

	rec = h.get("/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `fertform_submissions_total{outcome="success"} 1`)
	assert.Contains(t, body, `fertform_http_requests_total{method="POST",route="/",status="200"} 1`)
}

func TestAssets(t *testing.T) {
	h := newHarness(t)

	rec := h.get(StylesheetURL)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	assert.Contains(t, rec.Body.String(), ".results")

	assert.Contains(t, h.get("/").Body.String(), `<link rel="stylesheet" href="/assets/fertform.css">`)
}

func TestAddr(t *testing.T) {
	assert.Equal(t, ":8080", Addr(""))
	assert.Equal(t, ":9000", Addr("9000"))
	assert.Equal(t, ":9000", Addr(":9000"))
	assert.Equal(t, "127.0.0.1:9000", Addr("127.0.0.1:9000"))
}

func TestRun_StopsOnCancel(t *testing.T) {
	srv, err := New(Options{Predictor: &testsupport.StubPredictor{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
