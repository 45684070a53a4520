package main

import (
	"context"
	"fmt"

	"github.com/goliatone/go-fertform"
	"github.com/goliatone/go-fertform/internal/config"
	"github.com/goliatone/go-fertform/pkg/contract"
	"github.com/goliatone/go-fertform/pkg/predict"
)

// newPredictor builds the HTTP client described by c.
func newPredictor(ctx context.Context, c config.Config) (*predict.Client, error) {
	var ct *contract.Contract
	if c.ContractValidation {
		loaded, err := fertform.LoadContract(ctx, c.Contract)
		if err != nil {
			return nil, fmt.Errorf("configure predictor: %w", err)
		}
		ct = loaded
	}
	opts := []predict.Option{
		predict.WithTimeout(c.Timeout),
		predict.WithLogger(logger.Named("predict")),
		predict.WithContract(ct),
	}
	if c.Breaker.Enabled {
		opts = append(opts, predict.WithBreaker(predict.NewBreaker(predict.BreakerSettings{
			MaxFailures: c.Breaker.MaxFailures,
			OpenTimeout: c.Breaker.OpenTimeout,
			Interval:    c.Breaker.Interval,
		})))
	}
	client, err := predict.New(c.Endpoint, opts...)
	if err != nil {
		return nil, fmt.Errorf("configure predictor: %w", err)
	}
	return client, nil
}
