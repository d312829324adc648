package services

import (
	"github.com/practicahub/internship-api/model"
	"github.com/practicahub/internship-api/utils/apperr"
)

// Transition tables for the two state machines. Any (state, event) pair not
// listed here is an INVALID_TRANSITION, never a silent no-op. Guards with
// external dependencies (capacity, dates) are checked by the services on top
// of these tables.

// offerTransitions maps current offer status to the statuses reachable from it.
// Cancelled is strictly terminal: a cancelled offer cannot be reopened.
var offerTransitions = map[model.OfferStatus][]model.OfferStatus{
	model.OfferStatusDraft:     {model.OfferStatusPublished},
	model.OfferStatusPublished: {model.OfferStatusClosed, model.OfferStatusCancelled},
	model.OfferStatusClosed:    {model.OfferStatusPublished},
	model.OfferStatusCancelled: {},
}

// applicationTransitions maps current application status to reachable statuses
var applicationTransitions = map[model.ApplicationStatus][]model.ApplicationStatus{
	model.ApplicationStatusPending:   {model.ApplicationStatusReviewing, model.ApplicationStatusWithdrawn},
	model.ApplicationStatusReviewing: {model.ApplicationStatusAccepted, model.ApplicationStatusRejected, model.ApplicationStatusWithdrawn},
	model.ApplicationStatusAccepted:  {},
	model.ApplicationStatusRejected:  {},
	model.ApplicationStatusWithdrawn: {},
}

// checkOfferTransition gates an offer event. Publish and Reopen both target
// Published, so the target alone cannot identify the event; the offer must
// currently be in the event's source status and the (from, to) pair must be
// in the table.
func checkOfferTransition(current, from, to model.OfferStatus) error {
	if current != from || !CanTransitionOffer(from, to) {
		return apperr.InvalidTransition(string(current), string(to))
	}
	return nil
}

// CanTransitionOffer reports whether an offer may move from one status to another
func CanTransitionOffer(from, to model.OfferStatus) bool {
	for _, allowed := range offerTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CanTransitionApplication reports whether an application may move from one status to another
func CanTransitionApplication(from, to model.ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
