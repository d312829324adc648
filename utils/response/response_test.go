package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/practicahub/internship-api/utils/apperr"
	"github.com/practicahub/internship-api/utils/validation"
)

func performRequest(t *testing.T, handler fiber.Handler) (*http.Response, Response) {
	t.Helper()

	app := fiber.New()
	app.Get("/test", handler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	var body Response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	return resp, body
}

func TestValidationErrorUsesDomainTaxonomy(t *testing.T) {
	type request struct {
		StudentID string `validate:"required,uuid"`
	}
	validationErr := validation.NewValidator().ValidateStruct(request{})
	if validationErr == nil {
		t.Fatal("expected a validation error for the empty request")
	}

	resp, body := performRequest(t, func(c *fiber.Ctx) error {
		return ValidationError(c, validationErr)
	})

	// request-shape failures carry the same status and code as service-level
	// validation, so clients handle one taxonomy
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Code != string(apperr.CodeValidationFailed) {
		t.Errorf("expected VALIDATION_FAILED, got %+v", body.Error)
	}
	if body.Error.Fields["studentid"] == "" {
		t.Errorf("expected a per-field message, got %v", body.Error.Fields)
	}
}

func TestDomainErrorStatusMapping(t *testing.T) {
	tests := []struct {
		code   apperr.Code
		status int
	}{
		{apperr.CodeValidationFailed, fiber.StatusBadRequest},
		{apperr.CodeIncompleteScores, fiber.StatusBadRequest},
		{apperr.CodeScoreOutOfRange, fiber.StatusBadRequest},
		{apperr.CodeMissingFeedback, fiber.StatusBadRequest},
		{apperr.CodeOfferNotPublished, fiber.StatusForbidden},
		{apperr.CodeNotFound, fiber.StatusNotFound},
		{apperr.CodeInvalidTransition, fiber.StatusConflict},
		{apperr.CodeCapacityExhausted, fiber.StatusConflict},
		{apperr.CodeDuplicateApplication, fiber.StatusConflict},
		{apperr.CodeInternshipNotAccepted, fiber.StatusConflict},
		{apperr.CodeBusy, fiber.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			resp, body := performRequest(t, func(c *fiber.Ctx) error {
				return DomainError(c, apperr.New(tt.code, "test"))
			})
			if resp.StatusCode != tt.status {
				t.Errorf("expected %d, got %d", tt.status, resp.StatusCode)
			}
			if body.Error == nil || body.Error.Code != string(tt.code) {
				t.Errorf("expected code %s, got %+v", tt.code, body.Error)
			}
		})
	}
}

func TestDomainErrorHidesUntypedErrors(t *testing.T) {
	resp, body := performRequest(t, func(c *fiber.Ctx) error {
		return DomainError(c, json.Unmarshal([]byte("{"), &struct{}{}))
	})

	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("expected 500, got %d", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("expected INTERNAL_ERROR, got %+v", body.Error)
	}
	if body.Error != nil && body.Error.Details != "" {
		t.Errorf("untyped error details must not leak, got %q", body.Error.Details)
	}
}
