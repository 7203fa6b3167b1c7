package cascade

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/dealerledger/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls []string
}

func (r *recorder) step(name string, doErr, undoErr error) Step {
	return Step{
		Name: name,
		Do: func(context.Context) error {
			r.calls = append(r.calls, "do "+name)
			return doErr
		},
		Undo: func(context.Context) error {
			r.calls = append(r.calls, "undo "+name)
			return undoErr
		},
	}
}

func TestRun_AllStepsSucceed(t *testing.T) {
	r := &recorder{}
	err := Run(context.Background(), r.step("a", nil, nil), r.step("b", nil, nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"do a", "do b"}, r.calls)
}

func TestRun_UndoesCompletedStepsInReverse(t *testing.T) {
	r := &recorder{}
	boom := errors.New("boom")

	err := Run(context.Background(),
		r.step("a", nil, nil),
		r.step("b", nil, nil),
		r.step("c", boom, nil),
	)

	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, common.ErrInconsistentState)
	assert.Equal(t, []string{"do a", "do b", "do c", "undo b", "undo a"}, r.calls)

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "c", cerr.Step)
	assert.True(t, cerr.Compensated)
}

func TestRun_FailedUndoReportsInconsistentState(t *testing.T) {
	r := &recorder{}
	boom := errors.New("boom")
	undoFailed := errors.New("undo failed")

	err := Run(context.Background(),
		r.step("a", nil, undoFailed),
		r.step("b", boom, nil),
	)

	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, err, common.ErrInconsistentState)
	require.ErrorIs(t, err, undoFailed)
}

func TestRun_MissingUndo(t *testing.T) {
	boom := errors.New("boom")
	err := Run(context.Background(),
		Step{Name: "a", Do: func(context.Context) error { return nil }},
		Step{Name: "b", Do: func(context.Context) error { return boom }},
	)
	require.ErrorIs(t, err, common.ErrInconsistentState)
}

func TestRun_FirstStepFailureNeedsNoUndo(t *testing.T) {
	r := &recorder{}
	boom := errors.New("boom")

	err := Run(context.Background(), r.step("a", boom, nil), r.step("b", nil, nil))
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"do a"}, r.calls)
}
