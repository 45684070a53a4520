//go:build integration

package server

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-fertform/internal/metrics"
	"github.com/goliatone/go-fertform/pkg/controller"
	"github.com/goliatone/go-fertform/pkg/predict"
	"github.com/goliatone/go-fertform/pkg/testsupport"
)

// TestBrowser_SubmitAndSave drives the rendered page in headless Chrome:
// submit the form, read the recommendation, save it and watch the banner
// hide itself.
func TestBrowser_SubmitAndSave(t *testing.T) {
	upstream := testsupport.NewUpstream(t, ureaBody)
	client, err := predict.New(upstream.URL())
	require.NoError(t, err)
	srv, err := New(Options{Predictor: client, Metrics: metrics.New(), BannerDelay: 500 * time.Millisecond})
	require.NoError(t, err)

	site := httptest.NewServer(srv.Handler())
	t.Cleanup(site.Close)

	controlURL, err := launcher.New().Headless(true).Launch()
	require.NoError(t, err)
	browser := rod.New().ControlURL(controlURL).MustConnect()
	t.Cleanup(browser.MustClose)

	page := browser.Timeout(30 * time.Second).MustPage(site.URL + "/")
	assert.Equal(t, "50", page.MustElement("#N-value").MustText())

	page.MustElement("#crop").MustSelect("Rice")
	wait := page.MustWaitNavigation()
	page.MustElement(`button[name="action"][value="predict"]`).MustClick()
	wait()

	assert.Equal(t, "Urea", page.MustElement("#fertilizerName").MustText())
	assert.Equal(t, "Rice", page.MustElement("#resultCrop").MustText())
	require.Len(t, upstream.Requests(), 1)

	wait = page.MustWaitNavigation()
	page.MustElement("#saveRecommendation").MustClick()
	wait()

	banner := page.MustElement(".banner")
	assert.Equal(t, controller.SavedMessage, banner.MustText())
	banner.MustWaitInvisible()
	assert.Len(t, upstream.Requests(), 1)
}
