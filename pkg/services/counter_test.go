// pkg/services/counter_test.go
package service

import (
	"context"
	"errors"
	"testing"

	"agents-registry/pkg/models"
	"agents-registry/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounterStore struct {
	count uint64
	err   error
	calls int
}

func (f *fakeCounterStore) IncrementCounter(_ context.Context, _ string, _ models.CounterKind) (uint64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	f.count++
	return f.count, nil
}

func TestIncrement(t *testing.T) {
	store := &fakeCounterStore{count: 41}
	svc := NewCounterService(store, utils.NewLogger(utils.Config{}))

	count, err := svc.Increment(context.Background(), "some-id", models.CounterDownload)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), count)
	assert.Equal(t, 1, store.calls, "exactly one store increment per call")
}

func TestIncrement_InvalidKind(t *testing.T) {
	store := &fakeCounterStore{}
	svc := NewCounterService(store, utils.NewLogger(utils.Config{}))

	_, err := svc.Increment(context.Background(), "some-id", models.CounterKind("likes"))
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
	assert.Zero(t, store.calls, "invalid kinds never reach the store")
}

func TestIncrement_NotFoundPassesThrough(t *testing.T) {
	store := &fakeCounterStore{err: models.ErrNotFound}
	svc := NewCounterService(store, utils.NewLogger(utils.Config{}))

	_, err := svc.Increment(context.Background(), "missing-id", models.CounterView)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestIncrement_StoreFailure(t *testing.T) {
	store := &fakeCounterStore{err: errors.New("connection reset")}
	svc := NewCounterService(store, utils.NewLogger(utils.Config{}))

	_, err := svc.Increment(context.Background(), "some-id", models.CounterView)
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
}
