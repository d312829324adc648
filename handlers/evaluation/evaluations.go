package evaluation

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/practicahub/internship-api/model"
	"github.com/practicahub/internship-api/services"
	"github.com/practicahub/internship-api/utils/response"
	"github.com/practicahub/internship-api/utils/validation"
)

// EvaluationHandler handles evaluation-related requests
type EvaluationHandler struct {
	service   *services.EvaluationService
	validator *validation.Validator
}

// NewEvaluationHandler creates a new evaluation handler
func NewEvaluationHandler(service *services.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// SubmitEvaluationRequest represents the request body for submitting an
// evaluation. overall_score is not accepted from clients; the server derives
// it from the domain scores.
type SubmitEvaluationRequest struct {
	InternshipID    string         `json:"internship_id" validate:"required,uuid"`
	EvaluatorID     string         `json:"evaluator_id" validate:"required,uuid"`
	Type            string         `json:"type" validate:"required,oneof=midterm final"`
	DomainScores    map[string]int `json:"domain_scores" validate:"required"`
	Strengths       string         `json:"strengths" validate:"omitempty,max=5000"`
	Weaknesses      string         `json:"weaknesses" validate:"omitempty,max=5000"`
	Recommendations string         `json:"recommendations" validate:"omitempty,max=5000"`
	Feedback        string         `json:"feedback" validate:"required,max=10000"`
}

// SubmitEvaluation handles POST /api/v1/evaluations
func (h *EvaluationHandler) SubmitEvaluation(c *fiber.Ctx) error {
	var req SubmitEvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	internshipID, err := uuid.Parse(req.InternshipID)
	if err != nil {
		return response.BadRequest(c, "Invalid internship_id")
	}
	evaluatorID, err := uuid.Parse(req.EvaluatorID)
	if err != nil {
		return response.BadRequest(c, "Invalid evaluator_id")
	}

	record, err := h.service.Submit(c.UserContext(), services.SubmitEvaluationInput{
		InternshipID:    internshipID,
		EvaluatorID:     evaluatorID,
		Type:            model.EvaluationType(req.Type),
		DomainScores:    req.DomainScores,
		Strengths:       validation.SanitizeString(req.Strengths),
		Weaknesses:      validation.SanitizeString(req.Weaknesses),
		Recommendations: validation.SanitizeString(req.Recommendations),
		Feedback:        validation.SanitizeString(req.Feedback),
	})
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Created(c, record)
}

// GetEvaluation handles GET /api/v1/evaluations/:id
func (h *EvaluationHandler) GetEvaluation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid evaluation id")
	}

	record, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, record)
}

// ListEvaluations handles GET /api/v1/evaluations?internship_id=
func (h *EvaluationHandler) ListEvaluations(c *fiber.Ctx) error {
	internshipID, err := uuid.Parse(c.Query("internship_id"))
	if err != nil {
		return response.BadRequest(c, "internship_id query parameter is required")
	}

	records, err := h.service.ListByInternship(c.UserContext(), internshipID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, records)
}
