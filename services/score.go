package services

import (
	"github.com/practicahub/internship-api/utils/apperr"
)

// The four competency domains every evaluation must score, with their fixed
// weights. The weights sum to 100 and are not client-settable.
const (
	DomainTechnicalSkills  = "technical_skills"
	DomainPatientRelations = "patient_relations"
	DomainTeamwork         = "teamwork"
	DomainProfessionalism  = "professionalism"
)

// ScoreWeights maps each competency domain to its weight (percent)
var ScoreWeights = map[string]int{
	DomainTechnicalSkills:  40,
	DomainPatientRelations: 25,
	DomainTeamwork:         20,
	DomainProfessionalism:  15,
}

// ScoreDomains lists the required domains in a stable order
var ScoreDomains = []string{
	DomainTechnicalSkills,
	DomainPatientRelations,
	DomainTeamwork,
	DomainProfessionalism,
}

// CalculateOverallScore computes the weighted overall score from the four
// domain scores. All four domains must be present and each score must lie in
// [0,100]; a missing domain is an input error, never silently defaulted.
// Rounding is round-half-up, done in integer arithmetic so the result is
// bit-for-bit deterministic.
func CalculateOverallScore(domainScores map[string]int) (int, error) {
	for _, domain := range ScoreDomains {
		score, ok := domainScores[domain]
		if !ok {
			return 0, apperr.Newf(apperr.CodeIncompleteScores, "missing score for domain %s", domain)
		}
		if score < 0 || score > 100 {
			return 0, apperr.Newf(apperr.CodeScoreOutOfRange, "score for %s must be between 0 and 100, got %d", domain, score)
		}
	}

	// extra keys are rejected so typos don't silently drop a real domain
	for domain := range domainScores {
		if _, ok := ScoreWeights[domain]; !ok {
			return 0, apperr.Newf(apperr.CodeIncompleteScores, "unknown score domain %s", domain)
		}
	}

	total := 0
	for domain, weight := range ScoreWeights {
		total += domainScores[domain] * weight
	}

	// total is in [0, 10000]; +50 before dividing rounds half up
	return (total + 50) / 100, nil
}
