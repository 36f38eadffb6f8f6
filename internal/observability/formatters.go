// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/shorts-studio/internal/media"
	"github.com/jonathan/shorts-studio/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// previewRunes bounds script previews
	previewRunes = 120
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList writes a numbered list capped at limit entries.
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// PrintDraft outputs a generated draft.
func (p *Printer) PrintDraft(draft *types.ContentDraft) {
	if draft == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Keyword:  %s\n", draft.Keyword))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", draft.Title))
	for _, alt := range draft.TitleAlternatives {
		sb.WriteString(fmt.Sprintf("  alt:    %s\n", alt))
	}
	sb.WriteString(fmt.Sprintf("Hashtags: %s\n", types.JoinHashtags(draft.Hashtags)))
	sb.WriteString(fmt.Sprintf("Hook:     %s\n", draft.Hook))
	sb.WriteString(fmt.Sprintf("Script:   %s", truncate(draft.Script, previewRunes)))

	p.printBox("GENERATED DRAFT", sb.String())
}

// PrintVerdict outputs a verification verdict.
func (p *Printer) PrintVerdict(verdict *types.VerificationVerdict) {
	if verdict == nil {
		return
	}

	var sb strings.Builder
	status := "PASS"
	if !verdict.IsValid {
		status = "FAIL"
	}
	sb.WriteString(fmt.Sprintf("Status:     %s\n", status))
	sb.WriteString(fmt.Sprintf("Confidence: %s\n", verdict.Confidence))
	writeList(&sb, "Issues", verdict.Issues, maxItemsToShow)
	writeList(&sb, "Warnings", verdict.Warnings, maxItemsToShow)
	writeList(&sb, "Suggestions", verdict.Suggestions, maxItemsToShow)
	writeList(&sb, "Verified facts", verdict.VerifiedFacts, 3)

	p.printBox("VERIFICATION VERDICT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintImprovement outputs a revision result.
func (p *Printer) PrintImprovement(result *types.ImprovementResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	if result.ImprovedTitle != nil {
		sb.WriteString(fmt.Sprintf("Title:  %s\n", *result.ImprovedTitle))
	}
	if result.ImprovedDescription != nil {
		sb.WriteString(fmt.Sprintf("Desc:   %s\n", truncate(*result.ImprovedDescription, previewRunes)))
	}
	sb.WriteString(fmt.Sprintf("Script: %s\n", truncate(result.ImprovedScript, previewRunes)))
	writeList(&sb, "Changes", result.Changes, maxItemsToShow)

	p.printBox("IMPROVED SCRIPT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecord outputs a stored content record.
func (p *Printer) PrintRecord(rec *types.ContentRecord) {
	if rec == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:       %s  (%s, %s)\n", rec.ID, rec.Week, rec.TargetDate))
	sb.WriteString(fmt.Sprintf("Status:   %s\n", rec.Status))
	sb.WriteString(fmt.Sprintf("Keyword:  %s\n", rec.Keyword))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", rec.Title))
	sb.WriteString(fmt.Sprintf("Hashtags: %s\n", rec.Hashtags))
	sb.WriteString(fmt.Sprintf("Script:   %s", truncate(rec.Script, previewRunes)))
	if rec.ReferenceLinks != "" {
		sb.WriteString(fmt.Sprintf("\nLinks:    %s", rec.ReferenceLinks))
	}

	p.printBox("CONTENT RECORD", sb.String())
}

// PrintTopics outputs a generated topic list.
func (p *Printer) PrintTopics(category string, topics []types.Topic) {
	if len(topics) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Category: %s (%d topics)\n\n", category, len(topics)))
	for i, t := range topics {
		sb.WriteString(fmt.Sprintf("%2d. %s\n", i+1, t.Keyword))
		if t.Description != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", t.Description))
		}
	}

	p.printBox("TOPIC POOL", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintComposition outputs the rendered video summary.
func (p *Printer) PrintComposition(comp *media.Composition) {
	if comp == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Output:    %s\n", comp.Output.Path))
	sb.WriteString(fmt.Sprintf("Duration:  %.2fs\n", comp.Output.DurationSeconds))
	sb.WriteString(fmt.Sprintf("Subtitles: %t", comp.Subtitled))
	if plan := comp.Assembly; plan != nil {
		sb.WriteString(fmt.Sprintf("\nClips:     %d x %d repeats = %.1fs planned",
			len(plan.Durations), plan.RepeatCount, plan.PlannedDuration))
	}

	p.printBox("VIDEO", sb.String())
}
