package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/practicahub/internship-api/model"
	"github.com/practicahub/internship-api/utils/apperr"
)

func validSubmission() SubmitEvaluationInput {
	return SubmitEvaluationInput{
		InternshipID: uuid.New(),
		EvaluatorID:  uuid.New(),
		Type:         model.EvaluationTypeFinal,
		DomainScores: map[string]int{
			DomainTechnicalSkills:  80,
			DomainPatientRelations: 70,
			DomainTeamwork:         90,
			DomainProfessionalism:  60,
		},
		Feedback: "Consistently thorough with patients and documentation.",
	}
}

func TestValidateEvaluationInput(t *testing.T) {
	overall, err := validateEvaluationInput(validSubmission())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if overall != 77 {
		t.Errorf("expected overall score 77, got %d", overall)
	}
}

func TestValidateEvaluationInputMissingFeedback(t *testing.T) {
	for _, feedback := range []string{"", "   ", "\n\t"} {
		input := validSubmission()
		input.Feedback = feedback

		_, err := validateEvaluationInput(input)
		if !apperr.Is(err, apperr.CodeMissingFeedback) {
			t.Errorf("expected MISSING_FEEDBACK for %q, got %v", feedback, err)
		}
	}
}

func TestValidateEvaluationInputIncompleteScores(t *testing.T) {
	input := validSubmission()
	delete(input.DomainScores, DomainTeamwork)

	_, err := validateEvaluationInput(input)
	if !apperr.Is(err, apperr.CodeIncompleteScores) {
		t.Errorf("expected INCOMPLETE_SCORES, got %v", err)
	}
}

func TestValidateEvaluationInputScoreOutOfRange(t *testing.T) {
	input := validSubmission()
	input.DomainScores[DomainProfessionalism] = 120

	_, err := validateEvaluationInput(input)
	if !apperr.Is(err, apperr.CodeScoreOutOfRange) {
		t.Errorf("expected SCORE_OUT_OF_RANGE, got %v", err)
	}
}

func TestValidateEvaluationInputBadType(t *testing.T) {
	input := validSubmission()
	input.Type = model.EvaluationType("weekly")

	_, err := validateEvaluationInput(input)
	if !apperr.Is(err, apperr.CodeValidationFailed) {
		t.Errorf("expected VALIDATION_FAILED, got %v", err)
	}
}

// score validation runs before the feedback check, so malformed scores win
// even when feedback is also missing
func TestValidateEvaluationInputScoreErrorsTakePrecedence(t *testing.T) {
	input := validSubmission()
	input.Feedback = ""
	delete(input.DomainScores, DomainTechnicalSkills)

	_, err := validateEvaluationInput(input)
	if !apperr.Is(err, apperr.CodeIncompleteScores) {
		t.Errorf("expected INCOMPLETE_SCORES, got %v", err)
	}
}
