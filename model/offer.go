package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OfferStatus is the publication state of an internship offer
type OfferStatus string

const (
	OfferStatusDraft     OfferStatus = "draft"
	OfferStatusPublished OfferStatus = "published"
	OfferStatusClosed    OfferStatus = "closed"
	OfferStatusCancelled OfferStatus = "cancelled"
)

// Offer represents a published internship opportunity with a fixed number of positions
type Offer struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	HospitalID uuid.UUID      `gorm:"type:uuid;not null;index" json:"hospital_id"`

	Title       string `gorm:"not null" json:"title"`
	Department  string `gorm:"type:varchar(255)" json:"department"`
	Description string `gorm:"type:text" json:"description"`

	// Positions is the capacity ceiling; FilledPositions is maintained
	// server-side at the point of acceptance and never set by clients.
	Positions       int `gorm:"not null;check:positions >= 1" json:"positions"`
	FilledPositions int `gorm:"not null;default:0;check:filled_positions >= 0 AND filled_positions <= positions" json:"filled_positions"`

	Status OfferStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`

	StartDate           time.Time  `gorm:"not null" json:"start_date"`
	EndDate             time.Time  `gorm:"not null" json:"end_date"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`

	// Relationships
	Applications []Application `gorm:"foreignKey:OfferID;constraint:OnDelete:RESTRICT" json:"applications,omitempty"`
}

// BeforeCreate assigns the offer ID
func (o *Offer) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for Offer
func (Offer) TableName() string {
	return "offers"
}
