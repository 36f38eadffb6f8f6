// Package verification audits drafts for factual risk.
//
// The verifier is fail-closed: if the model cannot produce a usable verdict the
// outcome is reported as unavailable, and Verify turns that into a rejecting verdict.
package verification

import (
	"context"
	"log"
	"strings"

	"github.com/jonathan/shorts-studio/internal/llm"
	"github.com/jonathan/shorts-studio/internal/prompts"
	"github.com/jonathan/shorts-studio/internal/schemas"
	"github.com/jonathan/shorts-studio/internal/types"
)

// Temperature is kept low so verdicts stay conservative and repeatable.
const Temperature = 0.3

// SensitiveTerms mark finance, tax, legal, medical and investment topics.
var SensitiveTerms = []string{
	"신용카드", "카드", "포인트", "적립", "할인",
	"금리", "이자", "대출", "예금", "적금",
	"세금", "소득공제", "공제", "환급",
	"법률", "규정", "법", "조항",
	"의료", "건강", "질병", "치료",
	"투자", "주식", "부동산", "재테크",
}

// IsSensitive reports whether any of the texts mentions a sensitive term.
func IsSensitive(texts ...string) bool {
	for _, text := range texts {
		for _, term := range SensitiveTerms {
			if strings.Contains(text, term) {
				return true
			}
		}
	}
	return false
}

// Assessment is the tagged outcome of a verification attempt: either a verdict
// from the model or the reason none could be obtained.
type Assessment struct {
	Verdict     *types.VerificationVerdict
	Unavailable error
	Sensitive   bool
}

// Verified reports whether the model produced a verdict.
func (a Assessment) Verified() bool {
	return a.Verdict != nil && a.Unavailable == nil
}

// Effective returns the verdict to gate on; an unavailable assessment yields the fail-safe verdict.
func (a Assessment) Effective() types.VerificationVerdict {
	if a.Verified() {
		return *a.Verdict
	}
	return types.FailSafeVerdict()
}

// Verifier checks drafts with a text model.
type Verifier struct {
	client llm.Client
}

// NewVerifier creates a Verifier backed by client.
func NewVerifier(client llm.Client) *Verifier {
	return &Verifier{client: client}
}

// Assess runs one verification call and reports the outcome without converting failures.
func (v *Verifier) Assess(ctx context.Context, keyword, script, title string) Assessment {
	sensitive := IsSensitive(keyword, script, title)

	prompt, err := buildPrompt(keyword, script, title, sensitive)
	if err != nil {
		return Assessment{Unavailable: err, Sensitive: sensitive}
	}

	req := llm.Request{
		Op:          "verify",
		System:      prompts.MustGet(prompts.VerificationFile, "system"),
		Prompt:      prompt,
		Tier:        llm.TierStandard,
		Temperature: Temperature,
	}

	var verdict types.VerificationVerdict
	if err := llm.GenerateInto(ctx, v.client, req, schemas.Verdict, &verdict); err != nil {
		return Assessment{Unavailable: err, Sensitive: sensitive}
	}
	if err := verdict.Validate(); err != nil {
		return Assessment{Unavailable: &llm.ModelError{Op: req.Op, Message: "invalid verdict", Cause: err}, Sensitive: sensitive}
	}
	fillEmptyLists(&verdict)

	return Assessment{Verdict: &verdict, Sensitive: sensitive}
}

// Verify returns the model's verdict, or the fail-safe verdict if verification
// could not be completed. It never returns an error.
func (v *Verifier) Verify(ctx context.Context, keyword, script, title string) types.VerificationVerdict {
	assessment := v.Assess(ctx, keyword, script, title)
	if !assessment.Verified() {
		log.Printf("[verify] verification unavailable for %q, treating as invalid: %v", keyword, assessment.Unavailable)
	}
	return assessment.Effective()
}

func buildPrompt(keyword, script, title string, sensitive bool) (string, error) {
	level := prompts.MustGet(prompts.VerificationFile, "standard_level")
	emphasis := ""
	if sensitive {
		level = prompts.MustGet(prompts.VerificationFile, "sensitive_level")
		emphasis = prompts.MustGet(prompts.VerificationFile, "sensitive_emphasis")
	}

	return prompts.Render(prompts.VerificationFile, "verify", map[string]string{
		"Keyword":     keyword,
		"Title":       title,
		"Script":      script,
		"Sensitivity": level,
		"Emphasis":    emphasis,
	})
}

func fillEmptyLists(v *types.VerificationVerdict) {
	if v.Issues == nil {
		v.Issues = types.StringList{}
	}
	if v.Warnings == nil {
		v.Warnings = types.StringList{}
	}
	if v.Suggestions == nil {
		v.Suggestions = types.StringList{}
	}
	if v.VerifiedFacts == nil {
		v.VerifiedFacts = types.StringList{}
	}
}
