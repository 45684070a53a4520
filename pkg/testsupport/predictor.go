package testsupport

import (
	"context"
	"sync"

	"github.com/goliatone/go-fertform/pkg/model"
)

// StubPredictor returns a scripted response or error and records every request
// it receives. It satisfies predict.Predictor.
type StubPredictor struct {
	mu       sync.Mutex
	Response model.PredictionResponse
	Err      error
	// Hook, when set, runs before the scripted outcome is returned.
	Hook     func(ctx context.Context, req model.PredictionRequest)
	requests []model.PredictionRequest
}

// Predict records req and returns the scripted outcome.
func (s *StubPredictor) Predict(ctx context.Context, req model.PredictionRequest) (model.PredictionResponse, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	hook := s.Hook
	resp, err := s.Response, s.Err
	s.mu.Unlock()

	if hook != nil {
		hook(ctx, req)
	}
	if err != nil {
		return model.PredictionResponse{}, err
	}
	return resp, nil
}

// Requests returns a copy of the recorded requests.
func (s *StubPredictor) Requests() []model.PredictionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.PredictionRequest(nil), s.requests...)
}
