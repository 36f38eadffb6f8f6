package llm

import "fmt"

// ModelError reports an empty, unparseable or structurally invalid model response,
// or a failed model call. It is never retried by the stage that raised it.
type ModelError struct {
	Op      string
	Message string
	Cause   error
}

func (e *ModelError) Error() string {
	prefix := "model error"
	if e.Op != "" {
		prefix = fmt.Sprintf("model error in %s", e.Op)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *ModelError) Unwrap() error {
	return e.Cause
}
