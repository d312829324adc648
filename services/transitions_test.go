package services

import (
	"testing"
	"time"

	"github.com/practicahub/internship-api/model"
	"github.com/practicahub/internship-api/utils/apperr"
)

var allOfferStatuses = []model.OfferStatus{
	model.OfferStatusDraft,
	model.OfferStatusPublished,
	model.OfferStatusClosed,
	model.OfferStatusCancelled,
}

var allApplicationStatuses = []model.ApplicationStatus{
	model.ApplicationStatusPending,
	model.ApplicationStatusReviewing,
	model.ApplicationStatusAccepted,
	model.ApplicationStatusRejected,
	model.ApplicationStatusWithdrawn,
}

// TestOfferTransitionTotality checks every (from, to) pair against the
// transition table: exactly the listed pairs are legal, everything else is
// rejected, never a silent no-op.
func TestOfferTransitionTotality(t *testing.T) {
	allowed := map[[2]model.OfferStatus]bool{
		{model.OfferStatusDraft, model.OfferStatusPublished}:     true,
		{model.OfferStatusPublished, model.OfferStatusClosed}:    true,
		{model.OfferStatusPublished, model.OfferStatusCancelled}: true,
		{model.OfferStatusClosed, model.OfferStatusPublished}:    true,
	}

	for _, from := range allOfferStatuses {
		for _, to := range allOfferStatuses {
			want := allowed[[2]model.OfferStatus{from, to}]
			if got := CanTransitionOffer(from, to); got != want {
				t.Errorf("CanTransitionOffer(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestCancelledOfferIsTerminal(t *testing.T) {
	for _, to := range allOfferStatuses {
		if CanTransitionOffer(model.OfferStatusCancelled, to) {
			t.Errorf("cancelled offer must not transition to %s", to)
		}
	}
}

// TestApplicationTransitionTotality is the application-workflow counterpart
func TestApplicationTransitionTotality(t *testing.T) {
	allowed := map[[2]model.ApplicationStatus]bool{
		{model.ApplicationStatusPending, model.ApplicationStatusReviewing}:   true,
		{model.ApplicationStatusPending, model.ApplicationStatusWithdrawn}:   true,
		{model.ApplicationStatusReviewing, model.ApplicationStatusAccepted}:  true,
		{model.ApplicationStatusReviewing, model.ApplicationStatusRejected}:  true,
		{model.ApplicationStatusReviewing, model.ApplicationStatusWithdrawn}: true,
	}

	for _, from := range allApplicationStatuses {
		for _, to := range allApplicationStatuses {
			want := allowed[[2]model.ApplicationStatus{from, to}]
			if got := CanTransitionApplication(from, to); got != want {
				t.Errorf("CanTransitionApplication(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestSelfTransitionsAreInvalid(t *testing.T) {
	for _, s := range allOfferStatuses {
		if CanTransitionOffer(s, s) {
			t.Errorf("offer self-transition %s -> %s must be invalid", s, s)
		}
	}
	for _, s := range allApplicationStatuses {
		if CanTransitionApplication(s, s) {
			t.Errorf("application self-transition %s -> %s must be invalid", s, s)
		}
	}
}

// Publish and Reopen both end at Published, so the gate has to know which
// event it is serving, not just the target status.
func TestCheckOfferTransitionIsEventKeyed(t *testing.T) {
	t.Run("publish requires draft", func(t *testing.T) {
		// a closed offer reaches Published only through reopen and its
		// capacity guard, never through publish
		err := checkOfferTransition(model.OfferStatusClosed, model.OfferStatusDraft, model.OfferStatusPublished)
		if !apperr.Is(err, apperr.CodeInvalidTransition) {
			t.Errorf("expected INVALID_TRANSITION publishing a closed offer, got %v", err)
		}
	})

	t.Run("reopen requires closed", func(t *testing.T) {
		// a draft offer reaches Published only through publish and its
		// date guards, never through reopen
		err := checkOfferTransition(model.OfferStatusDraft, model.OfferStatusClosed, model.OfferStatusPublished)
		if !apperr.Is(err, apperr.CodeInvalidTransition) {
			t.Errorf("expected INVALID_TRANSITION reopening a draft offer, got %v", err)
		}
	})

	t.Run("matching source passes", func(t *testing.T) {
		if err := checkOfferTransition(model.OfferStatusDraft, model.OfferStatusDraft, model.OfferStatusPublished); err != nil {
			t.Errorf("publish from draft should pass, got %v", err)
		}
		if err := checkOfferTransition(model.OfferStatusClosed, model.OfferStatusClosed, model.OfferStatusPublished); err != nil {
			t.Errorf("reopen from closed should pass, got %v", err)
		}
	})

	t.Run("table still applies when source matches", func(t *testing.T) {
		err := checkOfferTransition(model.OfferStatusCancelled, model.OfferStatusCancelled, model.OfferStatusPublished)
		if !apperr.Is(err, apperr.CodeInvalidTransition) {
			t.Errorf("expected INVALID_TRANSITION from cancelled, got %v", err)
		}
	})
}

// A full closed offer passes the publish date guards (its dates may still be
// valid) and a stale draft passes the reopen capacity guard, so neither guard
// alone can stop the wrong event. The gate must reject before guards run.
func TestWrongEventGuardsWouldNotCatch(t *testing.T) {
	now := time.Now()

	full := &model.Offer{
		Positions:       1,
		FilledPositions: 1,
		Status:          model.OfferStatusClosed,
		StartDate:       now.AddDate(0, 1, 0),
		EndDate:         now.AddDate(0, 4, 0),
	}
	if fields := validatePublishGuards(full, now); fields != nil {
		t.Fatalf("publish guards are capacity-blind, got %v", fields)
	}
	if err := checkOfferTransition(full.Status, model.OfferStatusDraft, model.OfferStatusPublished); err == nil {
		t.Error("gate must reject publish on a full closed offer")
	}

	stale := &model.Offer{
		Positions: 2,
		Status:    model.OfferStatusDraft,
		StartDate: now.AddDate(0, -4, 0),
		EndDate:   now.AddDate(0, -1, 0),
	}
	if stale.FilledPositions >= stale.Positions {
		t.Fatal("reopen capacity guard would not reject this draft")
	}
	if err := checkOfferTransition(stale.Status, model.OfferStatusClosed, model.OfferStatusPublished); err == nil {
		t.Error("gate must reject reopen on a draft offer")
	}
}

func TestTerminalApplicationStatuses(t *testing.T) {
	tests := []struct {
		status   model.ApplicationStatus
		terminal bool
	}{
		{model.ApplicationStatusPending, false},
		{model.ApplicationStatusReviewing, false},
		{model.ApplicationStatusAccepted, true},
		{model.ApplicationStatusRejected, true},
		{model.ApplicationStatusWithdrawn, true},
	}

	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.terminal {
			t.Errorf("%s.IsTerminal() = %v, want %v", tt.status, got, tt.terminal)
		}
	}
}
