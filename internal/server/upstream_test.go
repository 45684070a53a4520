package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-fertform/pkg/testsupport"
)

func TestWaitForUpstream_Reachable(t *testing.T) {
	upstream := testsupport.NewUpstream(t, `{}`)
	upstream.Respond(http.StatusMethodNotAllowed, `{}`)

	err := WaitForUpstream(context.Background(), upstream.URL(), WaitOptions{MaxElapsed: time.Second})
	require.NoError(t, err)
	assert.Len(t, upstream.Requests(), 1)
}

func TestWaitForUpstream_GivesUp(t *testing.T) {
	closed := httptest.NewServer(http.NotFoundHandler())
	endpoint := closed.URL + "/predict"
	closed.Close()

	err := WaitForUpstream(context.Background(), endpoint, WaitOptions{
		MaxElapsed: 200 * time.Millisecond,
		MaxRetries: 2,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")
}

func TestWaitForUpstream_HonorsContext(t *testing.T) {
	closed := httptest.NewServer(http.NotFoundHandler())
	endpoint := closed.URL + "/predict"
	closed.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WaitForUpstream(ctx, endpoint, WaitOptions{MaxElapsed: 5 * time.Second, MaxRetries: 10})
	require.Error(t, err)
}
