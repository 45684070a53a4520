package predict

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sony/gobreaker"

	"github.com/goliatone/go-fertform/pkg/model"
)

func sampleRequest() model.PredictionRequest {
	return model.PredictionRequest{
		Crop:        "Wheat",
		Region:      "North",
		Month:       "July",
		N:           50,
		P:           30,
		K:           20,
		Temperature: 25.5,
		Humidity:    60,
		PH:          6.5,
		Moisture:    40,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(srv.URL+"/predict", opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestPredict_PostsJSONWithNumbers(t *testing.T) {
	var (
		gotMethod string
		gotType   string
		gotID     string
		gotBody   map[string]any
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		gotID = r.Header.Get("X-Request-Id")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		writeJSON(w, http.StatusOK, `{"fertilizer":"Urea","fertilizer_type":"Nitrogen Fertilizer"}`)
	}, WithRequestID(func() string { return "req-1" }))

	resp, err := client.Predict(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Fatalf("method = %s", gotMethod)
	}
	if gotType != "application/json" {
		t.Fatalf("content type = %q", gotType)
	}
	if gotID != "req-1" {
		t.Fatalf("request id = %q", gotID)
	}
	for _, key := range []string{"N", "P", "K", "temperature", "humidity", "ph", "moisture"} {
		if _, ok := gotBody[key].(float64); !ok {
			t.Fatalf("body field %s = %T, want number", key, gotBody[key])
		}
	}
	if gotBody["temperature"] != 25.5 {
		t.Fatalf("temperature = %v", gotBody["temperature"])
	}

	want := model.PredictionResponse{Fertilizer: "Urea", FertilizerType: "Nitrogen Fertilizer"}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestPredict_ForwardsContextRequestID(t *testing.T) {
	var gotID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-Id")
		writeJSON(w, http.StatusOK, `{"fertilizer":"Urea","fertilizer_type":"Nitrogen Fertilizer"}`)
	}, WithRequestID(func() string { return "generated" }))

	ctx := ContextWithRequestID(context.Background(), "inbound-7")
	if _, err := client.Predict(ctx, sampleRequest()); err != nil {
		t.Fatalf("predict: %v", err)
	}
	if gotID != "inbound-7" {
		t.Fatalf("request id = %q, want inbound-7", gotID)
	}
}

func TestPredict_NullEchoesDecodeAsOmitted(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"fertilizer":"Urea","fertilizer_type":null,"crop":null,"region":null,"month":null}`)
	})

	resp, err := client.Predict(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if diff := cmp.Diff(model.PredictionResponse{Fertilizer: "Urea"}, resp); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestPredict_ServerRejected(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		message string
	}{
		{name: "with message", body: `{"error":"Invalid soil pH"}`, message: "Invalid soil pH"},
		{name: "without message", body: `{"detail":"nope"}`, message: ""},
		{name: "non-string message", body: `{"error":42}`, message: ""},
		{name: "whitespace message kept", body: `{"error":"  "}`, message: "  "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusBadRequest, tc.body)
			})

			_, err := client.Predict(context.Background(), sampleRequest())
			if !errors.Is(err, ErrServerRejected) {
				t.Fatalf("expected ErrServerRejected, got %v", err)
			}
			var rejected *ServerRejectedError
			if !errors.As(err, &rejected) {
				t.Fatalf("expected *ServerRejectedError, got %T", err)
			}
			if rejected.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d", rejected.StatusCode)
			}
			if rejected.Message != tc.message {
				t.Fatalf("message = %q, want %q", rejected.Message, tc.message)
			}
		})
	}
}

func TestPredict_TransportFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "error body not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = io.WriteString(w, "<html>boom</html>")
			},
		},
		{
			name: "success body not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, "ok")
			},
		},
		{
			name: "success body violates contract",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, `{"fertilizer_type":"Nitrogen"}`)
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, tc.handler)
			_, err := client.Predict(context.Background(), sampleRequest())
			if !errors.Is(err, ErrTransport) {
				t.Fatalf("expected ErrTransport, got %v", err)
			}
			if errors.Is(err, ErrServerRejected) {
				t.Fatalf("transport failure must not match ErrServerRejected")
			}
		})
	}
}

func TestPredict_UnreachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL + "/predict"
	srv.Close()

	client, err := New(endpoint, WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Predict(context.Background(), sampleRequest())
	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected *TransportError, got %v", err)
	}
	if transport.Op != "send" {
		t.Fatalf("op = %q, want send", transport.Op)
	}
}

func TestPredict_NonFiniteRequestNeverSent(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusOK, `{"fertilizer":"Urea","fertilizer_type":"x"}`)
	})

	req := sampleRequest()
	req.PH = math.NaN()
	_, err := client.Predict(context.Background(), req)
	if !errors.Is(err, ErrTransport) || !errors.Is(err, model.ErrMalformedRequest) {
		t.Fatalf("expected transport+malformed error, got %v", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("malformed request reached the server")
	}
}

func TestPredict_BreakerOpensOnTransportFailuresOnly(t *testing.T) {
	var hits atomic.Int32
	status := atomic.Int32{}
	status.Store(http.StatusBadRequest)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if status.Load() == http.StatusBadRequest {
			writeJSON(w, http.StatusBadRequest, `{"error":"Invalid crop"}`)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "bad gateway")
	}, WithBreaker(NewBreaker(BreakerSettings{MaxFailures: 2, OpenTimeout: time.Minute})))

	for i := 0; i < 3; i++ {
		if _, err := client.Predict(context.Background(), sampleRequest()); !errors.Is(err, ErrServerRejected) {
			t.Fatalf("call %d: expected rejection, got %v", i, err)
		}
	}

	status.Store(http.StatusBadGateway)
	for i := 0; i < 2; i++ {
		if _, err := client.Predict(context.Background(), sampleRequest()); !errors.Is(err, ErrTransport) {
			t.Fatalf("expected transport failure, got %v", err)
		}
	}

	before := hits.Load()
	_, err := client.Predict(context.Background(), sampleRequest())
	if !errors.Is(err, gobreaker.ErrOpenState) || !errors.Is(err, ErrTransport) {
		t.Fatalf("expected open breaker transport error, got %v", err)
	}
	if hits.Load() != before {
		t.Fatalf("open breaker still reached the server")
	}
}

func TestNew_RejectsNonHTTPEndpoint(t *testing.T) {
	if _, err := New("ftp://example.com/predict"); err == nil {
		t.Fatalf("expected error for non-http endpoint")
	}
	client, err := New("")
	if err != nil {
		t.Fatalf("default endpoint: %v", err)
	}
	if client.Endpoint() != DefaultEndpoint {
		t.Fatalf("endpoint = %q", client.Endpoint())
	}
}
