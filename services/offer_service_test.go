package services

import (
	"testing"
	"time"

	"github.com/practicahub/internship-api/model"
)

func TestValidatePublishGuards(t *testing.T) {
	now := time.Now()

	base := func() *model.Offer {
		return &model.Offer{
			Positions: 3,
			StartDate: now.AddDate(0, 1, 0),
			EndDate:   now.AddDate(0, 4, 0),
		}
	}

	t.Run("valid offer has no guard failures", func(t *testing.T) {
		if fields := validatePublishGuards(base(), now); fields != nil {
			t.Fatalf("expected no failures, got %v", fields)
		}
	})

	t.Run("zero positions", func(t *testing.T) {
		offer := base()
		offer.Positions = 0
		fields := validatePublishGuards(offer, now)
		if _, ok := fields["positions"]; !ok {
			t.Errorf("expected positions failure, got %v", fields)
		}
	})

	t.Run("start after end", func(t *testing.T) {
		offer := base()
		offer.StartDate, offer.EndDate = offer.EndDate, offer.StartDate
		fields := validatePublishGuards(offer, now)
		if _, ok := fields["end_date"]; !ok {
			t.Errorf("expected end_date failure, got %v", fields)
		}
	})

	t.Run("end date in the past", func(t *testing.T) {
		offer := base()
		offer.StartDate = now.AddDate(0, -4, 0)
		offer.EndDate = now.AddDate(0, -1, 0)
		fields := validatePublishGuards(offer, now)
		if _, ok := fields["end_date"]; !ok {
			t.Errorf("expected end_date failure, got %v", fields)
		}
	})
}

func TestServicesDefaultLockTimeout(t *testing.T) {
	if got := NewOfferService(nil, nil, 0).lockTimeoutMS; got != 3000 {
		t.Errorf("expected 3000ms default, got %d", got)
	}
	if got := NewApplicationService(nil, nil, nil, -1).lockTimeoutMS; got != 3000 {
		t.Errorf("expected 3000ms default, got %d", got)
	}
	if got := NewOfferService(nil, nil, 500).lockTimeoutMS; got != 500 {
		t.Errorf("expected configured 500ms, got %d", got)
	}
}

func TestValidateOfferDates(t *testing.T) {
	now := time.Now()
	start := now.AddDate(0, 1, 0)
	end := now.AddDate(0, 4, 0)

	t.Run("valid", func(t *testing.T) {
		if fields := validateOfferDates(2, start, end, nil); fields != nil {
			t.Fatalf("expected no failures, got %v", fields)
		}
	})

	t.Run("equal start and end", func(t *testing.T) {
		fields := validateOfferDates(2, start, start, nil)
		if _, ok := fields["end_date"]; !ok {
			t.Errorf("expected end_date failure, got %v", fields)
		}
	})

	t.Run("deadline after end date", func(t *testing.T) {
		late := end.AddDate(0, 0, 1)
		fields := validateOfferDates(2, start, end, &late)
		if _, ok := fields["application_deadline"]; !ok {
			t.Errorf("expected application_deadline failure, got %v", fields)
		}
	})

	t.Run("deadline before end date is fine", func(t *testing.T) {
		early := start.AddDate(0, 0, -7)
		if fields := validateOfferDates(2, start, end, &early); fields != nil {
			t.Fatalf("expected no failures, got %v", fields)
		}
	})
}
