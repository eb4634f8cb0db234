package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel errors identifying the failure class of a run. Match with
// errors.Is; use errors.As with the typed errors below for details.
var (
	ErrPrecondition = errors.New("precondition failed")
	ErrStageFailed  = errors.New("stage failed")
	ErrPromotion    = errors.New("promotion failed")
)

// PreconditionError reports a problem detected before any stage ran.
type PreconditionError struct {
	Path string
	Err  error
}

func (e *PreconditionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %v", ErrPrecondition, e.Err)
	}
	return fmt.Sprintf("%v: %s: %v", ErrPrecondition, e.Path, e.Err)
}

func (e *PreconditionError) Unwrap() []error { return []error{ErrPrecondition, e.Err} }

// StageError reports a stage whose processor failed. Every directory
// produced before the failure is left in place.
type StageError struct {
	Stage    string
	ExitCode int
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrStageFailed, e.Stage, e.Err)
}

func (e *StageError) Unwrap() []error { return []error{ErrStageFailed, e.Err} }

// PromotionError reports a failure while moving the final stage's output
// into the output directory. StagingDir still holds whatever was not moved.
type PromotionError struct {
	StagingDir string
	Moved      int
	Err        error
}

func (e *PromotionError) Error() string {
	return fmt.Sprintf("%v: %v (processed files remain in %s)", ErrPromotion, e.Err, e.StagingDir)
}

func (e *PromotionError) Unwrap() []error { return []error{ErrPromotion, e.Err} }
