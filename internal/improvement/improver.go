// Package improvement revises scripts using a verification verdict.
package improvement

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/shorts-studio/internal/llm"
	"github.com/jonathan/shorts-studio/internal/prompts"
	"github.com/jonathan/shorts-studio/internal/schemas"
	"github.com/jonathan/shorts-studio/internal/types"
)

// Temperature leaves room for rephrasing.
const Temperature = 0.7

// Improver rewrites scripts to resolve verifier findings.
type Improver struct {
	client llm.Client
}

// NewImprover creates an Improver backed by client.
func NewImprover(client llm.Client) *Improver {
	return &Improver{client: client}
}

// Improve revises originalScript so the verdict's issues are resolved while verified facts,
// tone and approximate length are kept. Failures are returned as *llm.ModelError.
func (i *Improver) Improve(ctx context.Context, keyword, originalScript, title string, verdict types.VerificationVerdict) (*types.ImprovementResult, error) {
	if strings.TrimSpace(originalScript) == "" {
		return nil, fmt.Errorf("original script is empty")
	}

	prompt, err := buildPrompt(keyword, originalScript, title, verdict)
	if err != nil {
		return nil, err
	}

	req := llm.Request{
		Op:          "improve",
		System:      prompts.MustGet(prompts.ImprovementFile, "system"),
		Prompt:      prompt,
		Tier:        llm.TierStandard,
		Temperature: Temperature,
	}

	var result types.ImprovementResult
	if err := llm.GenerateInto(ctx, i.client, req, schemas.Improvement, &result); err != nil {
		return nil, err
	}

	result.ImprovedScript = strings.TrimSpace(result.ImprovedScript)
	result.ImprovedTitle = changedText(result.ImprovedTitle, title)
	result.ImprovedDescription = changedText(result.ImprovedDescription, "")
	if err := result.Validate(); err != nil {
		return nil, &llm.ModelError{Op: req.Op, Message: "improvement result is incomplete", Cause: err}
	}
	if result.ImprovedScript == strings.TrimSpace(originalScript) {
		return nil, &llm.ModelError{Op: req.Op, Message: "improved script is unchanged"}
	}

	return &result, nil
}

func buildPrompt(keyword, script, title string, verdict types.VerificationVerdict) (string, error) {
	status := "failed"
	if verdict.IsValid {
		status = "passed"
	}
	return prompts.Render(prompts.ImprovementFile, "improve", map[string]string{
		"Keyword":       keyword,
		"Title":         title,
		"Script":        script,
		"Status":        status,
		"Confidence":    string(verdict.Confidence),
		"Issues":        joinOrNone(verdict.Issues),
		"Warnings":      joinOrNone(verdict.Warnings),
		"Suggestions":   joinOrNone(verdict.Suggestions),
		"VerifiedFacts": joinOrNone(verdict.VerifiedFacts),
	})
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, "; ")
}

// changedText drops blank values and values equal to the current one.
func changedText(value *string, current string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" || trimmed == strings.TrimSpace(current) {
		return nil
	}
	return &trimmed
}
