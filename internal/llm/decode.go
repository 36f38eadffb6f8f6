package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/shorts-studio/internal/schemas"
)

// GenerateInto runs req against client and decodes the response into out.
// Any failure, including the call itself, is reported as a *ModelError.
func GenerateInto(ctx context.Context, client Client, req Request, schemaName string, out any) error {
	raw, err := client.GenerateJSON(ctx, req)
	if err != nil {
		return &ModelError{Op: req.Op, Message: "model call failed", Cause: err}
	}
	return DecodeJSON(req.Op, raw, schemaName, out)
}

// DecodeJSON cleans a model response, checks it against the named embedded schema
// (skipped when schemaName is empty) and unmarshals it into out.
func DecodeJSON(op, raw, schemaName string, out any) error {
	cleaned := CleanJSONBlock(raw)
	if strings.TrimSpace(cleaned) == "" {
		return &ModelError{Op: op, Message: "empty response"}
	}

	if schemaName != "" {
		schema, err := schemas.Load(schemaName)
		if err != nil {
			return &ModelError{Op: op, Message: "schema unavailable", Cause: err}
		}
		if err := schemas.ValidateJSONString(schema, cleaned); err != nil {
			return &ModelError{Op: op, Message: "response does not match schema", Cause: err}
		}
	}

	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return &ModelError{Op: op, Message: "failed to parse response", Cause: err}
	}
	return nil
}
