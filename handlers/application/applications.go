package application

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/practicahub/internship-api/services"
	"github.com/practicahub/internship-api/utils/response"
	"github.com/practicahub/internship-api/utils/validation"
)

// ApplicationHandler handles application-related requests
type ApplicationHandler struct {
	service   *services.ApplicationService
	validator *validation.Validator
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(service *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// CreateApplicationRequest represents the request body for applying to an offer
type CreateApplicationRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
}

// WithdrawApplicationRequest identifies the withdrawing student
type WithdrawApplicationRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
}

// CreateApplication handles POST /api/v1/offers/:id/applications
func (h *ApplicationHandler) CreateApplication(c *fiber.Ctx) error {
	offerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid offer id")
	}

	var req CreateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		return response.BadRequest(c, "Invalid student_id")
	}

	application, err := h.service.Apply(c.UserContext(), offerID, studentID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Created(c, application)
}

// ListOfferApplications handles GET /api/v1/offers/:id/applications
func (h *ApplicationHandler) ListOfferApplications(c *fiber.Ctx) error {
	offerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid offer id")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	applications, total, err := h.service.List(c.UserContext(), services.ApplicationFilter{
		OfferID: offerID.String(),
		Status:  c.Query("status", ""),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Paginated(c, applications, response.CalculatePagination(page, limit, total))
}

// ListApplications handles GET /api/v1/applications
func (h *ApplicationHandler) ListApplications(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	applications, total, err := h.service.List(c.UserContext(), services.ApplicationFilter{
		StudentID: c.Query("student_id", ""),
		Status:    c.Query("status", ""),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Paginated(c, applications, response.CalculatePagination(page, limit, total))
}

// GetApplication handles GET /api/v1/applications/:id
func (h *ApplicationHandler) GetApplication(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid application id")
	}

	application, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, application)
}

// StartReview handles POST /api/v1/applications/:id/start-review
func (h *ApplicationHandler) StartReview(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid application id")
	}

	application, err := h.service.StartReview(c.UserContext(), id)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, application)
}

// Accept handles POST /api/v1/applications/:id/accept
func (h *ApplicationHandler) Accept(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid application id")
	}

	application, err := h.service.Accept(c.UserContext(), id)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, application)
}

// Reject handles POST /api/v1/applications/:id/reject
func (h *ApplicationHandler) Reject(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid application id")
	}

	application, err := h.service.Reject(c.UserContext(), id)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, application)
}

// Withdraw handles POST /api/v1/applications/:id/withdraw
func (h *ApplicationHandler) Withdraw(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid application id")
	}

	var req WithdrawApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		return response.BadRequest(c, "Invalid student_id")
	}

	application, err := h.service.Withdraw(c.UserContext(), id, studentID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, application)
}

// Release handles POST /api/v1/applications/:id/release. Administrative
// override that withdraws an accepted application and frees its slot.
func (h *ApplicationHandler) Release(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid application id")
	}

	application, err := h.service.Release(c.UserContext(), id)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, application)
}
