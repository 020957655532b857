package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uowCtxKey struct{}

type recordingUnitOfWork struct {
	beginErr   error
	committed  bool
	rolledBack bool
}

func (u *recordingUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if u.beginErr != nil {
		return nil, u.beginErr
	}
	return context.WithValue(ctx, uowCtxKey{}, true), nil
}

func (u *recordingUnitOfWork) Commit(ctx context.Context) error {
	u.committed = true
	return nil
}

func (u *recordingUnitOfWork) Rollback(ctx context.Context) error {
	u.rolledBack = true
	return nil
}

func TestWithUnitOfWork(t *testing.T) {
	t.Run("commits when the function succeeds", func(t *testing.T) {
		uow := &recordingUnitOfWork{}

		var sawTx bool
		err := WithUnitOfWork(context.Background(), uow, func(ctx context.Context) error {
			sawTx = ctx.Value(uowCtxKey{}) != nil
			return nil
		})

		require.NoError(t, err)
		assert.True(t, sawTx, "function runs with the transaction context")
		assert.True(t, uow.committed)
		assert.False(t, uow.rolledBack)
	})

	t.Run("rolls back and returns the function's error", func(t *testing.T) {
		uow := &recordingUnitOfWork{}
		boom := errors.New("boom")

		err := WithUnitOfWork(context.Background(), uow, func(ctx context.Context) error {
			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.True(t, uow.rolledBack)
		assert.False(t, uow.committed)
	})

	t.Run("a failed begin never runs the function", func(t *testing.T) {
		uow := &recordingUnitOfWork{beginErr: errors.New("no connection")}

		ran := false
		err := WithUnitOfWork(context.Background(), uow, func(ctx context.Context) error {
			ran = true
			return nil
		})

		assert.Error(t, err)
		assert.False(t, ran)
	})
}
