package controller

import "time"

// Outcome classifies a finished submission.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeRejected Outcome = "rejected"
	OutcomeFailed   Outcome = "failed"
)

// Observer receives controller activity, typically for metrics.
type Observer interface {
	SubmitCompleted(outcome Outcome, elapsed time.Duration)
	BannerShown()
}

type nopObserver struct{}

func (nopObserver) SubmitCompleted(Outcome, time.Duration) {}
func (nopObserver) BannerShown()                           {}
