package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EvaluationType distinguishes mid-term from final evaluations
type EvaluationType string

const (
	EvaluationTypeMidterm EvaluationType = "midterm"
	EvaluationTypeFinal   EvaluationType = "final"
)

// EvaluationRecord is a scored, qualitative assessment of a student's
// performance during an internship (an accepted application). Records are
// created in a single atomic submission and are immutable afterwards; there
// is no draft state server-side.
type EvaluationRecord struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// InternshipID references the accepted Application being evaluated
	InternshipID uuid.UUID      `gorm:"type:uuid;not null;index" json:"internship_id"`
	EvaluatorID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"evaluator_id"`
	Type         EvaluationType `gorm:"type:varchar(20);not null" json:"type"`

	// DomainScores holds the four fixed competency domains; OverallScore is
	// derived from them with fixed weights and never supplied by the caller.
	DomainScores datatypes.JSON `gorm:"type:jsonb;not null" json:"domain_scores"`
	OverallScore int            `gorm:"not null;check:overall_score >= 0 AND overall_score <= 100" json:"overall_score"`

	Strengths       string `gorm:"type:text" json:"strengths,omitempty"`
	Weaknesses      string `gorm:"type:text" json:"weaknesses,omitempty"`
	Recommendations string `gorm:"type:text" json:"recommendations,omitempty"`
	Feedback        string `gorm:"type:text;not null" json:"feedback"`

	// Relationships
	Internship Application `gorm:"foreignKey:InternshipID" json:"-"`
}

// BeforeCreate assigns the evaluation ID
func (e *EvaluationRecord) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for EvaluationRecord
func (EvaluationRecord) TableName() string {
	return "evaluation_records"
}
