package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/practicahub/internship-api/model"
	"github.com/practicahub/internship-api/utils/apperr"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EvaluationService handles evaluation submission. A submission is a single
// atomic operation: validate scores, compute the overall score, check the
// internship reference, persist. Validation failure aborts before any write.
type EvaluationService struct {
	db *gorm.DB
}

// NewEvaluationService creates a new evaluation service
func NewEvaluationService(db *gorm.DB) *EvaluationService {
	return &EvaluationService{db: db}
}

// SubmitEvaluationInput carries a complete evaluation submission.
// OverallScore is absent: it is always derived server-side.
type SubmitEvaluationInput struct {
	InternshipID    uuid.UUID
	EvaluatorID     uuid.UUID
	Type            model.EvaluationType
	DomainScores    map[string]int
	Strengths       string
	Weaknesses      string
	Recommendations string
	Feedback        string
}

// validateEvaluationInput runs the pure checks: score completeness and range,
// mandatory feedback, known evaluation type. Returns the computed overall
// score on success.
func validateEvaluationInput(input SubmitEvaluationInput) (int, error) {
	if input.Type != model.EvaluationTypeMidterm && input.Type != model.EvaluationTypeFinal {
		return 0, apperr.Validation("invalid evaluation type", map[string]string{
			"type": "type must be midterm or final",
		})
	}

	overall, err := CalculateOverallScore(input.DomainScores)
	if err != nil {
		return 0, err
	}

	if strings.TrimSpace(input.Feedback) == "" {
		return 0, apperr.New(apperr.CodeMissingFeedback, "feedback is mandatory")
	}

	return overall, nil
}

// Submit validates and persists an evaluation in one atomic operation. The
// referenced internship must be an Accepted application; records are
// immutable once created.
func (s *EvaluationService) Submit(ctx context.Context, input SubmitEvaluationInput) (*model.EvaluationRecord, error) {
	overall, err := validateEvaluationInput(input)
	if err != nil {
		return nil, err
	}

	scoresJSON, err := json.Marshal(input.DomainScores)
	if err != nil {
		return nil, err
	}

	var record *model.EvaluationRecord
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var internship model.Application
		if err := tx.First(&internship, "id = ?", input.InternshipID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("internship")
			}
			return err
		}
		if internship.Status != model.ApplicationStatusAccepted {
			return apperr.Newf(apperr.CodeInternshipNotAccepted, "application is %s, evaluations require an accepted internship", internship.Status)
		}

		record = &model.EvaluationRecord{
			InternshipID:    input.InternshipID,
			EvaluatorID:     input.EvaluatorID,
			Type:            input.Type,
			DomainScores:    datatypes.JSON(scoresJSON),
			OverallScore:    overall,
			Strengths:       input.Strengths,
			Weaknesses:      input.Weaknesses,
			Recommendations: input.Recommendations,
			Feedback:        input.Feedback,
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Get fetches an evaluation record by ID
func (s *EvaluationService) Get(ctx context.Context, id uuid.UUID) (*model.EvaluationRecord, error) {
	var record model.EvaluationRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("evaluation")
		}
		return nil, err
	}
	return &record, nil
}

// ListByInternship returns all evaluations for an internship, oldest first
func (s *EvaluationService) ListByInternship(ctx context.Context, internshipID uuid.UUID) ([]model.EvaluationRecord, error) {
	var records []model.EvaluationRecord
	if err := s.db.WithContext(ctx).
		Where("internship_id = ?", internshipID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
