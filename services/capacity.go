package services

import (
	"github.com/google/uuid"
	"github.com/practicahub/internship-api/model"
	"github.com/practicahub/internship-api/utils/apperr"
	"gorm.io/gorm"
)

// CapacityTracker is the single source of truth for filled vs. total
// positions on an offer. Claims are conditional row updates, so two claims
// on the same offer serialize at the storage layer and claims on different
// offers never contend.
type CapacityTracker struct{}

// NewCapacityTracker creates a new capacity tracker
func NewCapacityTracker() *CapacityTracker {
	return &CapacityTracker{}
}

// TryClaim atomically reserves one position on the offer inside the caller's
// transaction. It fails with CAPACITY_EXHAUSTED when no positions remain.
// The returned flag is true when this claim filled the last position, which
// is the signal the offer lifecycle uses to auto-close.
func (t *CapacityTracker) TryClaim(tx *gorm.DB, offerID uuid.UUID) (full bool, err error) {
	res := tx.Model(&model.Offer{}).
		Where("id = ? AND filled_positions < positions", offerID).
		Update("filled_positions", gorm.Expr("filled_positions + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, apperr.New(apperr.CodeCapacityExhausted, "offer has no remaining positions")
	}

	var offer model.Offer
	if err := tx.Select("positions", "filled_positions").First(&offer, "id = ?", offerID).Error; err != nil {
		return false, err
	}
	return offer.FilledPositions == offer.Positions, nil
}

// Release returns one claimed position, floor 0. Used when an accepted
// application is withdrawn by administrative override.
func (t *CapacityTracker) Release(tx *gorm.DB, offerID uuid.UUID) error {
	return tx.Model(&model.Offer{}).
		Where("id = ? AND filled_positions > 0", offerID).
		Update("filled_positions", gorm.Expr("filled_positions - 1")).Error
}
