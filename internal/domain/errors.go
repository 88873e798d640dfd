package domain

import "fmt"

// InferenceError is the single failure kind surfaced to users: anything
// that goes wrong while invoking the model (unreadable artifact, schema
// mismatch, unexpected values).
type InferenceError struct {
	Op  string
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("prediction failed: %s: %v", e.Op, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }
