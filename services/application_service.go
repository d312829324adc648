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

// ApplicationService owns the application workflow state machine. Accept is
// the one transition with an external dependency: the capacity claim and the
// status update execute as a single transaction, so the two state machines
// can never drift apart.
type ApplicationService struct {
	db            *gorm.DB
	capacity      *CapacityTracker
	cache         *cache.RedisCache
	lockTimeoutMS int
}

// NewApplicationService creates a new application service. The cache is optional.
func NewApplicationService(db *gorm.DB, capacity *CapacityTracker, redisCache *cache.RedisCache, lockTimeoutMS int) *ApplicationService {
	if lockTimeoutMS <= 0 {
		lockTimeoutMS = 3000
	}
	return &ApplicationService{
		db:            db,
		capacity:      capacity,
		cache:         redisCache,
		lockTimeoutMS: lockTimeoutMS,
	}
}

// ApplicationFilter provides filters for listing applications
type ApplicationFilter struct {
	OfferID   string
	StudentID string
	Status    string
	Page      int
	Limit     int
}

// Apply creates a Pending application for a student on a published offer.
// The status and deadline checks and the insert run in one transaction
// holding a shared lock on the offer row, so a concurrent Close or Cancel
// cannot commit between the check and the insert and leave a live
// application on a non-published offer. Races between two submissions for
// the same (student, offer) pair are settled by the partial unique index:
// the loser receives DUPLICATE_APPLICATION.
func (s *ApplicationService) Apply(ctx context.Context, offerID, studentID uuid.UUID) (*model.Application, error) {
	var application model.Application
	err := s.transact(ctx, func(tx *gorm.DB) error {
		offer, err := lockOfferShare(tx, offerID)
		if err != nil {
			return err
		}

		if offer.Status != model.OfferStatusPublished {
			return apperr.Newf(apperr.CodeOfferNotPublished, "offer is %s and not accepting applications", offer.Status)
		}
		if offer.ApplicationDeadline != nil && time.Now().After(*offer.ApplicationDeadline) {
			return apperr.Validation("application deadline has passed", map[string]string{
				"application_deadline": "the deadline for this offer has passed",
			})
		}

		application = model.Application{
			OfferID:   offerID,
			StudentID: studentID,
			Status:    model.ApplicationStatusPending,
		}

		if err := tx.Create(&application).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return apperr.New(apperr.CodeDuplicateApplication, "an active application already exists for this student and offer")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// Get fetches an application by ID
func (s *ApplicationService) Get(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	var application model.Application
	if err := s.db.WithContext(ctx).First(&application, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("application")
		}
		return nil, err
	}
	return &application, nil
}

// List returns applications matching the filter, newest first
func (s *ApplicationService) List(ctx context.Context, filter ApplicationFilter) ([]model.Application, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Application{})

	if filter.OfferID != "" {
		query = query.Where("offer_id = ?", filter.OfferID)
	}
	if filter.StudentID != "" {
		query = query.Where("student_id = ?", filter.StudentID)
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

	var applications []model.Application
	if err := query.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&applications).Error; err != nil {
		return nil, 0, err
	}
	return applications, total, nil
}

// StartReview transitions Pending -> Reviewing
func (s *ApplicationService) StartReview(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	return s.transition(ctx, id, model.ApplicationStatusReviewing, nil)
}

// Reject transitions Reviewing -> Rejected
func (s *ApplicationService) Reject(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	return s.transition(ctx, id, model.ApplicationStatusRejected, nil)
}

// Withdraw transitions Pending/Reviewing -> Withdrawn. Only the owning
// student may withdraw.
func (s *ApplicationService) Withdraw(ctx context.Context, id, studentID uuid.UUID) (*model.Application, error) {
	return s.transition(ctx, id, model.ApplicationStatusWithdrawn, func(tx *gorm.DB, application *model.Application) error {
		if application.StudentID != studentID {
			return apperr.Validation("application belongs to another student", map[string]string{
				"student_id": "only the owning student can withdraw an application",
			})
		}
		return nil
	})
}

// Accept transitions Reviewing -> Accepted by claiming one capacity slot on
// the offer. Claim and status update commit atomically; when the claim fills
// the last position the offer auto-closes in the same transaction.
//
// The operation is keyed by application ID for retry safety: replaying an
// accept on an already-Accepted application returns the current state and
// does not claim capacity a second time.
func (s *ApplicationService) Accept(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	var result *model.Application
	err := s.transact(ctx, func(tx *gorm.DB) error {
		application, err := lockApplication(tx, id)
		if err != nil {
			return err
		}

		// idempotent replay of an acknowledged accept
		if application.Status == model.ApplicationStatusAccepted {
			result = application
			return nil
		}
		if !CanTransitionApplication(application.Status, model.ApplicationStatusAccepted) {
			return apperr.InvalidTransition(string(application.Status), string(model.ApplicationStatusAccepted))
		}

		full, err := s.capacity.TryClaim(tx, application.OfferID)
		if err != nil {
			return err
		}
		if full {
			// last position claimed: auto-close a still-published offer
			if err := tx.Model(&model.Offer{}).
				Where("id = ? AND status = ?", application.OfferID, model.OfferStatusPublished).
				Update("status", model.OfferStatusClosed).Error; err != nil {
				return err
			}
		}

		application.Status = model.ApplicationStatusAccepted
		if err := tx.Model(application).Update("status", model.ApplicationStatusAccepted).Error; err != nil {
			return err
		}
		result = application
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateOffer(ctx, result.OfferID)
	return result, nil
}

// Release withdraws an Accepted application by administrative override and
// returns its capacity slot. Not exposed to students.
func (s *ApplicationService) Release(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	var result *model.Application
	err := s.transact(ctx, func(tx *gorm.DB) error {
		application, err := lockApplication(tx, id)
		if err != nil {
			return err
		}
		if application.Status != model.ApplicationStatusAccepted {
			return apperr.InvalidTransition(string(application.Status), string(model.ApplicationStatusWithdrawn))
		}

		if err := s.capacity.Release(tx, application.OfferID); err != nil {
			return err
		}

		application.Status = model.ApplicationStatusWithdrawn
		if err := tx.Model(application).Update("status", model.ApplicationStatusWithdrawn).Error; err != nil {
			return err
		}
		result = application
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateOffer(ctx, result.OfferID)
	return result, nil
}

// transition locks the application row, checks the transition table, runs the
// optional guard, and persists the new status. Re-invoking a transition whose
// target equals the current state fails with INVALID_TRANSITION; only Accept
// tolerates replays.
func (s *ApplicationService) transition(ctx context.Context, id uuid.UUID, to model.ApplicationStatus, guard func(tx *gorm.DB, application *model.Application) error) (*model.Application, error) {
	var result *model.Application
	err := s.transact(ctx, func(tx *gorm.DB) error {
		application, err := lockApplication(tx, id)
		if err != nil {
			return err
		}
		if !CanTransitionApplication(application.Status, to) {
			return apperr.InvalidTransition(string(application.Status), string(to))
		}
		if guard != nil {
			if err := guard(tx, application); err != nil {
				return err
			}
		}

		application.Status = to
		if err := tx.Model(application).Update("status", to).Error; err != nil {
			return err
		}
		result = application
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ApplicationService) transact(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeoutMS)).Error; err != nil {
			return err
		}
		return fn(tx)
	})
	if err != nil && database.IsContention(err) {
		return apperr.Busy("application is busy, retry shortly")
	}
	return err
}

func (s *ApplicationService) invalidateOffer(ctx context.Context, offerID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, offerCacheKey(offerID)); err != nil {
		log.Println("Warning: failed to invalidate offer cache:", err)
	}
}

// lockOfferShare takes FOR SHARE on the offer row: submissions to the same
// offer proceed concurrently while a lifecycle transition's FOR UPDATE waits
func lockOfferShare(tx *gorm.DB, id uuid.UUID) (*model.Offer, error) {
	var offer model.Offer
	if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
		First(&offer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("offer")
		}
		return nil, err
	}
	return &offer, nil
}

// lockApplication takes FOR UPDATE on the application row
func lockApplication(tx *gorm.DB, id uuid.UUID) (*model.Application, error) {
	var application model.Application
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&application, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("application")
		}
		return nil, err
	}
	return &application, nil
}
