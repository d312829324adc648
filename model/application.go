package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationStatus is the review state of a student's application
type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusReviewing ApplicationStatus = "reviewing"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusWithdrawn ApplicationStatus = "withdrawn"
)

// IsTerminal reports whether no further workflow transitions are allowed.
// Accepted is terminal for the workflow but still feeds offer capacity.
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusAccepted || s == ApplicationStatusRejected || s == ApplicationStatusWithdrawn
}

// Application represents a student's request to fill one position on an Offer.
// A partial unique index on (student_id, offer_id) over non-terminal statuses
// enforces at most one active application per pair (see database/initializer.go).
type Application struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OfferID   uuid.UUID `gorm:"type:uuid;not null;index" json:"offer_id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`

	Status ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	// Relationships
	Offer Offer `gorm:"foreignKey:OfferID" json:"offer,omitempty"`
}

// BeforeCreate assigns the application ID
func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for Application
func (Application) TableName() string {
	return "applications"
}
