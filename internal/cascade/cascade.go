// Package cascade runs multi-file mutations as a sequence of steps with
// compensating actions.
//
// The ledger has no transactions: each step commits to its own file. When a
// later step fails, Run undoes the steps that already committed, newest
// first. Steps without an Undo cannot be compensated.
package cascade

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dealerledger/internal/common"
)

// Step is one committed mutation and the action that reverses it.
type Step struct {
	Name string
	Do   func(ctx context.Context) error
	Undo func(ctx context.Context) error
}

// Error reports a failed cascade.
type Error struct {
	Step        string
	Err         error
	Compensated bool
	UndoErrs    []error
}

func (e *Error) Error() string {
	if e.Compensated {
		return fmt.Sprintf("step %s failed, previous steps undone: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("step %s failed, compensation incomplete: %v", e.Step, errors.Join(append([]error{e.Err}, e.UndoErrs...)...))
}

// Unwrap exposes the step error and, when compensation did not succeed,
// common.ErrInconsistentState.
func (e *Error) Unwrap() []error {
	if e.Compensated {
		return []error{e.Err}
	}
	return append([]error{e.Err, common.ErrInconsistentState}, e.UndoErrs...)
}

// Run executes steps in order. On the first failure it calls Undo of every
// completed step in reverse order and returns an *Error.
func Run(ctx context.Context, steps ...Step) error {
	for i, step := range steps {
		err := step.Do(ctx)
		if err == nil {
			continue
		}

		failure := &Error{Step: step.Name, Err: err, Compensated: true}
		for j := i - 1; j >= 0; j-- {
			done := steps[j]
			if done.Undo == nil {
				failure.Compensated = false
				failure.UndoErrs = append(failure.UndoErrs, fmt.Errorf("step %s has no undo", done.Name))
				continue
			}
			if uerr := done.Undo(ctx); uerr != nil {
				failure.Compensated = false
				failure.UndoErrs = append(failure.UndoErrs, fmt.Errorf("undo %s: %w", done.Name, uerr))
			}
		}
		return failure
	}
	return nil
}
