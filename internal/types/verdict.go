package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Confidence is the verifier's confidence in its own verdict
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// FailSafeIssue is reported when verification could not be completed.
const FailSafeIssue = "verification process error — manual review required"

// VerificationVerdict is the structured outcome of an accuracy check.
type VerificationVerdict struct {
	IsValid       bool       `json:"isValid"`
	Confidence    Confidence `json:"confidence" validate:"required,oneof=high medium low"`
	Issues        StringList `json:"issues"`
	Warnings      StringList `json:"warnings"`
	Suggestions   StringList `json:"suggestions"`
	VerifiedFacts StringList `json:"verifiedFacts"`
}

// Validate checks the verdict fields
func (v *VerificationVerdict) Validate() error {
	validate := validator.New()
	return validate.Struct(v)
}

// Consistent reports whether the verdict obeys "issues present implies invalid" and its converse.
func (v *VerificationVerdict) Consistent() bool {
	return v.IsValid == (len(v.Issues) == 0)
}

// Clean reports whether the verdict passes with nothing to fix.
func (v *VerificationVerdict) Clean() bool {
	return v.IsValid && len(v.Issues) == 0
}

// FailSafeVerdict returns the conservative verdict used when verification is unavailable.
func FailSafeVerdict() VerificationVerdict {
	return VerificationVerdict{
		IsValid:       false,
		Confidence:    ConfidenceLow,
		Issues:        StringList{FailSafeIssue},
		Warnings:      StringList{},
		Suggestions:   StringList{},
		VerifiedFacts: StringList{},
	}
}

// ImprovementResult is a revised script produced from a verdict.
// Nil title or description means unchanged.
type ImprovementResult struct {
	ImprovedScript      string     `json:"improvedScript" validate:"required"`
	ImprovedTitle       *string    `json:"improvedTitle,omitempty"`
	ImprovedDescription *string    `json:"improvedDescription,omitempty"`
	Changes             StringList `json:"changes"`
}

// Validate checks the improvement result
func (r *ImprovementResult) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return err
	}
	if len(r.Changes) == 0 {
		return fmt.Errorf("improvement result lists no changes")
	}
	return nil
}
