package offer

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/practicahub/internship-api/model"
	"github.com/practicahub/internship-api/services"
	"github.com/practicahub/internship-api/utils/response"
	"github.com/practicahub/internship-api/utils/validation"
)

// OfferHandler handles offer-related requests
type OfferHandler struct {
	service   *services.OfferService
	validator *validation.Validator
}

// NewOfferHandler creates a new offer handler
func NewOfferHandler(service *services.OfferService) *OfferHandler {
	return &OfferHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// CreateOfferRequest represents the request body for creating an offer
type CreateOfferRequest struct {
	HospitalID          string     `json:"hospital_id" validate:"required,uuid"`
	Title               string     `json:"title" validate:"required,min=3,max=255"`
	Department          string     `json:"department" validate:"omitempty,max=255"`
	Description         string     `json:"description" validate:"omitempty,max=5000"`
	Positions           int        `json:"positions" validate:"required,min=1"`
	StartDate           time.Time  `json:"start_date" validate:"required"`
	EndDate             time.Time  `json:"end_date" validate:"required"`
	ApplicationDeadline *time.Time `json:"application_deadline"`
}

// UpdateOfferRequest represents the request body for editing a draft offer
type UpdateOfferRequest struct {
	Title               string     `json:"title" validate:"omitempty,min=3,max=255"`
	Department          string     `json:"department" validate:"omitempty,max=255"`
	Description         string     `json:"description" validate:"omitempty,max=5000"`
	Positions           *int       `json:"positions" validate:"omitempty,min=1"`
	StartDate           *time.Time `json:"start_date"`
	EndDate             *time.Time `json:"end_date"`
	ApplicationDeadline *time.Time `json:"application_deadline"`
}

// ListOffers handles GET /api/v1/offers
func (h *OfferHandler) ListOffers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	filter := services.OfferFilter{
		HospitalID: c.Query("hospital_id", ""),
		Status:     c.Query("status", ""),
		Page:       page,
		Limit:      limit,
	}

	offers, total, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Paginated(c, offers, response.CalculatePagination(page, limit, total))
}

// GetOffer handles GET /api/v1/offers/:id
func (h *OfferHandler) GetOffer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid offer id")
	}

	offer, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, offer)
}

// CreateOffer handles POST /api/v1/offers
func (h *OfferHandler) CreateOffer(c *fiber.Ctx) error {
	var req CreateOfferRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	hospitalID, err := uuid.Parse(req.HospitalID)
	if err != nil {
		return response.BadRequest(c, "Invalid hospital_id")
	}

	offer, err := h.service.Create(c.UserContext(), services.CreateOfferInput{
		HospitalID:          hospitalID,
		Title:               validation.SanitizeString(req.Title),
		Department:          validation.SanitizeString(req.Department),
		Description:         validation.SanitizeString(req.Description),
		Positions:           req.Positions,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		ApplicationDeadline: req.ApplicationDeadline,
	})
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Created(c, offer)
}

// UpdateOffer handles PUT /api/v1/offers/:id
func (h *OfferHandler) UpdateOffer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid offer id")
	}

	var req UpdateOfferRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	offer, err := h.service.Update(c.UserContext(), id, services.UpdateOfferInput{
		Title:               validation.SanitizeString(req.Title),
		Department:          validation.SanitizeString(req.Department),
		Description:         validation.SanitizeString(req.Description),
		Positions:           req.Positions,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		ApplicationDeadline: req.ApplicationDeadline,
	})
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.SuccessWithMessage(c, "Offer updated successfully", offer)
}

// DeleteOffer handles DELETE /api/v1/offers/:id
func (h *OfferHandler) DeleteOffer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid offer id")
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return response.DomainError(c, err)
	}
	return response.SuccessWithMessage(c, "Offer deleted successfully", nil)
}

// PublishOffer handles POST /api/v1/offers/:id/publish
func (h *OfferHandler) PublishOffer(c *fiber.Ctx) error {
	return h.transition(c, h.service.Publish)
}

// CloseOffer handles POST /api/v1/offers/:id/close
func (h *OfferHandler) CloseOffer(c *fiber.Ctx) error {
	return h.transition(c, h.service.Close)
}

// CancelOffer handles POST /api/v1/offers/:id/cancel
func (h *OfferHandler) CancelOffer(c *fiber.Ctx) error {
	return h.transition(c, h.service.Cancel)
}

// ReopenOffer handles POST /api/v1/offers/:id/reopen
func (h *OfferHandler) ReopenOffer(c *fiber.Ctx) error {
	return h.transition(c, h.service.Reopen)
}

func (h *OfferHandler) transition(c *fiber.Ctx, fn func(ctx context.Context, id uuid.UUID) (*model.Offer, error)) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid offer id")
	}

	offer, err := fn(c.UserContext(), id)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, offer)
}
