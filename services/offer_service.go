package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/practicahub/internship-api/database"
	"github.com/practicahub/internship-api/model"
	"github.com/practicahub/internship-api/utils/apperr"
	"github.com/practicahub/internship-api/utils/cache"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OfferService owns the offer lifecycle state machine. Every transition runs
// in a single transaction holding the offer row lock, so the status change
// and its cascading effects commit together or not at all.
type OfferService struct {
	db            *gorm.DB
	cache         *cache.RedisCache
	lockTimeoutMS int
}

// NewOfferService creates a new offer service. The cache is optional.
func NewOfferService(db *gorm.DB, redisCache *cache.RedisCache, lockTimeoutMS int) *OfferService {
	if lockTimeoutMS <= 0 {
		lockTimeoutMS = 3000
	}
	return &OfferService{
		db:            db,
		cache:         redisCache,
		lockTimeoutMS: lockTimeoutMS,
	}
}

// CreateOfferInput carries the client-settable offer fields. FilledPositions
// and Status are server-maintained and deliberately absent.
type CreateOfferInput struct {
	HospitalID          uuid.UUID
	Title               string
	Department          string
	Description         string
	Positions           int
	StartDate           time.Time
	EndDate             time.Time
	ApplicationDeadline *time.Time
}

// UpdateOfferInput carries optional draft-stage edits
type UpdateOfferInput struct {
	Title               string
	Department          string
	Description         string
	Positions           *int
	StartDate           *time.Time
	EndDate             *time.Time
	ApplicationDeadline *time.Time
}

// OfferFilter provides filters for listing offers
type OfferFilter struct {
	HospitalID string
	Status     string
	Page       int
	Limit      int
}

func validateOfferDates(positions int, start, end time.Time, deadline *time.Time) map[string]string {
	fields := map[string]string{}
	if positions < 1 {
		fields["positions"] = "positions must be at least 1"
	}
	if !start.Before(end) {
		fields["end_date"] = "end_date must be after start_date"
	}
	if deadline != nil && deadline.After(end) {
		fields["application_deadline"] = "application_deadline must not be after end_date"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// validatePublishGuards checks the publish-transition guards: at least one
// position, start before end, and end date still in the future.
func validatePublishGuards(offer *model.Offer, now time.Time) map[string]string {
	fields := map[string]string{}
	if offer.Positions < 1 {
		fields["positions"] = "positions must be at least 1"
	}
	if !offer.StartDate.Before(offer.EndDate) {
		fields["end_date"] = "end_date must be after start_date"
	}
	if !offer.EndDate.After(now) {
		fields["end_date"] = "end_date must be in the future"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// Create stores a new offer in Draft status
func (s *OfferService) Create(ctx context.Context, input CreateOfferInput) (*model.Offer, error) {
	if fields := validateOfferDates(input.Positions, input.StartDate, input.EndDate, input.ApplicationDeadline); fields != nil {
		return nil, apperr.Validation("invalid offer", fields)
	}

	offer := model.Offer{
		HospitalID:          input.HospitalID,
		Title:               input.Title,
		Department:          input.Department,
		Description:         input.Description,
		Positions:           input.Positions,
		Status:              model.OfferStatusDraft,
		StartDate:           input.StartDate,
		EndDate:             input.EndDate,
		ApplicationDeadline: input.ApplicationDeadline,
	}

	if err := s.db.WithContext(ctx).Create(&offer).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

// Get fetches an offer by ID, read-through cached
func (s *OfferService) Get(ctx context.Context, id uuid.UUID) (*model.Offer, error) {
	var offer model.Offer
	if s.cache != nil {
		if err := s.cache.GetJSON(ctx, offerCacheKey(id), &offer); err == nil {
			return &offer, nil
		}
	}

	if err := s.db.WithContext(ctx).First(&offer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("offer")
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, offerCacheKey(id), &offer, 30*time.Second); err != nil {
			log.Println("Warning: failed to cache offer:", err)
		}
	}
	return &offer, nil
}

// List returns offers matching the filter, newest first
func (s *OfferService) List(ctx context.Context, filter OfferFilter) ([]model.Offer, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Offer{})

	if filter.HospitalID != "" {
		query = query.Where("hospital_id = ?", filter.HospitalID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	var offers []model.Offer
	if err := query.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&offers).Error; err != nil {
		return nil, 0, err
	}
	return offers, total, nil
}

// Update edits a Draft offer. Editing a published, closed or cancelled offer
// is rejected; capacity and status never change through this path.
func (s *OfferService) Update(ctx context.Context, id uuid.UUID, input UpdateOfferInput) (*model.Offer, error) {
	var updated *model.Offer
	err := s.transact(ctx, func(tx *gorm.DB) error {
		offer, err := lockOffer(tx, id)
		if err != nil {
			return err
		}
		if offer.Status != model.OfferStatusDraft {
			return apperr.Newf(apperr.CodeInvalidTransition, "only draft offers can be edited, offer is %s", offer.Status)
		}

		if input.Title != "" {
			offer.Title = input.Title
		}
		if input.Department != "" {
			offer.Department = input.Department
		}
		if input.Description != "" {
			offer.Description = input.Description
		}
		if input.Positions != nil {
			offer.Positions = *input.Positions
		}
		if input.StartDate != nil {
			offer.StartDate = *input.StartDate
		}
		if input.EndDate != nil {
			offer.EndDate = *input.EndDate
		}
		if input.ApplicationDeadline != nil {
			offer.ApplicationDeadline = input.ApplicationDeadline
		}

		if fields := validateOfferDates(offer.Positions, offer.StartDate, offer.EndDate, offer.ApplicationDeadline); fields != nil {
			return apperr.Validation("invalid offer", fields)
		}

		if err := tx.Save(offer).Error; err != nil {
			return err
		}
		updated = offer
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return updated, nil
}

// Delete removes an offer. An offer with non-terminal applications is
// rejected rather than cascaded, to avoid silent data loss.
func (s *OfferService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.transact(ctx, func(tx *gorm.DB) error {
		offer, err := lockOffer(tx, id)
		if err != nil {
			return err
		}

		var active int64
		if err := tx.Model(&model.Application{}).
			Where("offer_id = ? AND status IN ?", id, []model.ApplicationStatus{
				model.ApplicationStatusPending,
				model.ApplicationStatusReviewing,
				model.ApplicationStatusAccepted,
			}).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return apperr.Newf(apperr.CodeInvalidTransition, "offer has %d active applications and cannot be deleted", active)
		}

		return tx.Delete(offer).Error
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// Publish transitions Draft -> Published after validating the publish guards
func (s *OfferService) Publish(ctx context.Context, id uuid.UUID) (*model.Offer, error) {
	return s.transition(ctx, id, model.OfferStatusDraft, model.OfferStatusPublished, func(tx *gorm.DB, offer *model.Offer) error {
		if fields := validatePublishGuards(offer, time.Now()); fields != nil {
			return apperr.Validation("offer cannot be published", fields)
		}
		return nil
	})
}

// Close transitions Published -> Closed
func (s *OfferService) Close(ctx context.Context, id uuid.UUID) (*model.Offer, error) {
	return s.transition(ctx, id, model.OfferStatusPublished, model.OfferStatusClosed, nil)
}

// Cancel transitions Published -> Cancelled and force-rejects every
// non-terminal application on the offer in the same transaction.
func (s *OfferService) Cancel(ctx context.Context, id uuid.UUID) (*model.Offer, error) {
	return s.transition(ctx, id, model.OfferStatusPublished, model.OfferStatusCancelled, func(tx *gorm.DB, offer *model.Offer) error {
		return tx.Model(&model.Application{}).
			Where("offer_id = ? AND status IN ?", offer.ID, []model.ApplicationStatus{
				model.ApplicationStatusPending,
				model.ApplicationStatusReviewing,
			}).
			Update("status", model.ApplicationStatusRejected).Error
	})
}

// Reopen transitions Closed -> Published, guarded by spare capacity. A full
// offer must not be advertised as accepting applications, so reopening one
// fails with CAPACITY_EXHAUSTED instead of silently succeeding.
func (s *OfferService) Reopen(ctx context.Context, id uuid.UUID) (*model.Offer, error) {
	return s.transition(ctx, id, model.OfferStatusClosed, model.OfferStatusPublished, func(tx *gorm.DB, offer *model.Offer) error {
		if offer.FilledPositions >= offer.Positions {
			return apperr.New(apperr.CodeCapacityExhausted, "offer is full and cannot be reopened")
		}
		return nil
	})
}

// transition locks the offer row, requires the event's source status, runs
// the per-transition guard/effect, and persists the new status. Each caller
// names the status it starts from: Publish and Reopen share the Published
// target but carry different guards, so dispatching on the target alone would
// let one event slip through the other's gate.
func (s *OfferService) transition(ctx context.Context, id uuid.UUID, from, to model.OfferStatus, guard func(tx *gorm.DB, offer *model.Offer) error) (*model.Offer, error) {
	var result *model.Offer
	err := s.transact(ctx, func(tx *gorm.DB) error {
		offer, err := lockOffer(tx, id)
		if err != nil {
			return err
		}
		if err := checkOfferTransition(offer.Status, from, to); err != nil {
			return err
		}
		if guard != nil {
			if err := guard(tx, offer); err != nil {
				return err
			}
		}

		offer.Status = to
		if err := tx.Model(offer).Update("status", to).Error; err != nil {
			return err
		}
		result = offer
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return result, nil
}

// transact runs fn in a transaction with a bounded lock timeout; lock and
// serialization contention surfaces as a retryable BUSY error.
func (s *OfferService) transact(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeoutMS)).Error; err != nil {
			return err
		}
		return fn(tx)
	})
	if err != nil && database.IsContention(err) {
		return apperr.Busy("offer is busy, retry shortly")
	}
	return err
}

func (s *OfferService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, offerCacheKey(id)); err != nil {
		log.Println("Warning: failed to invalidate offer cache:", err)
	}
}

func offerCacheKey(id uuid.UUID) string {
	return "offer:" + id.String()
}

// lockOffer takes FOR UPDATE on the offer row for the transaction's duration
func lockOffer(tx *gorm.DB, id uuid.UUID) (*model.Offer, error) {
	var offer model.Offer
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&offer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("offer")
		}
		return nil, err
	}
	return &offer, nil
}
