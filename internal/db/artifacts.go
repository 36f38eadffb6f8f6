package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/shorts-studio/internal/types"
)

// decodeArtifact unmarshals content into out. Returns false when content is nil.
func decodeArtifact(content []byte, step string, out any) (bool, error) {
	if content == nil {
		return false, nil
	}
	if err := json.Unmarshal(content, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", step, err)
	}
	return true, nil
}

// GetVerdictByRunID loads the verification verdict stored for a run
func (db *DB) GetVerdictByRunID(ctx context.Context, runID uuid.UUID) (*types.VerificationVerdict, error) {
	content, err := db.GetArtifact(ctx, runID, StepVerdict)
	if err != nil {
		return nil, err
	}
	var verdict types.VerificationVerdict
	ok, err := decodeArtifact(content, StepVerdict, &verdict)
	if !ok {
		return nil, err
	}
	return &verdict, nil
}

// GetDraftByRunID loads the regenerated or weekly draft stored for a run
func (db *DB) GetDraftByRunID(ctx context.Context, runID uuid.UUID, step string) (*types.ContentDraft, error) {
	content, err := db.GetArtifact(ctx, runID, step)
	if err != nil {
		return nil, err
	}
	var draft types.ContentDraft
	ok, err := decodeArtifact(content, step, &draft)
	if !ok {
		return nil, err
	}
	return &draft, nil
}

// GetImprovementByRunID loads the improvement result stored for a run
func (db *DB) GetImprovementByRunID(ctx context.Context, runID uuid.UUID) (*types.ImprovementResult, error) {
	content, err := db.GetArtifact(ctx, runID, StepImprovement)
	if err != nil {
		return nil, err
	}
	var result types.ImprovementResult
	ok, err := decodeArtifact(content, StepImprovement, &result)
	if !ok {
		return nil, err
	}
	return &result, nil
}
