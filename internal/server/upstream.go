package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// WaitOptions bounds WaitForUpstream.
type WaitOptions struct {
	MaxElapsed time.Duration
	MaxRetries uint64
	Client     *http.Client
	Logger     *zap.Logger
}

// WaitForUpstream polls endpoint with exponential backoff until it answers
// any HTTP response. A 405 from a POST-only endpoint counts as reachable.
func WaitForUpstream(ctx context.Context, endpoint string, opts WaitOptions) error {
	if opts.MaxElapsed <= 0 {
		opts.MaxElapsed = 10 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 5
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 2 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = opts.MaxElapsed

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := opts.Client.Do(req)
		if err != nil {
			opts.Logger.Warn("upstream not ready", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, opts.MaxRetries), ctx))
	if err != nil {
		return fmt.Errorf("server: upstream %s unreachable after %d attempts: %w", endpoint, attempt, err)
	}
	opts.Logger.Info("upstream ready", zap.String("endpoint", endpoint), zap.Int("attempts", attempt))
	return nil
}
