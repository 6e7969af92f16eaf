package background

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobScheduler_RegisterAndRun(t *testing.T) {
	js, err := NewJobScheduler()
	require.NoError(t, err)

	ran := make(chan struct{}, 1)
	require.NoError(t, js.AddJob(JobLowStockAlerts, time.Hour, func(ctx context.Context) error {
		ran <- struct{}{}
		return errors.New("logged, not fatal")
	}))
	assert.Error(t, js.AddJob(JobLowStockAlerts, time.Hour, func(context.Context) error { return nil }))
	assert.Error(t, js.AddJob("zero", 0, func(context.Context) error { return nil }))

	js.Start()
	defer func() { assert.NoError(t, js.Stop()) }()

	require.NoError(t, js.RunNow(JobLowStockAlerts))
	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run")
	}

	status := js.Status()
	require.Len(t, status, 1)
	assert.Equal(t, JobLowStockAlerts, status[0].Nombre)
}

func TestJobScheduler_UnknownAndRemoved(t *testing.T) {
	js, err := NewJobScheduler()
	require.NoError(t, err)

	assert.ErrorIs(t, js.RunNow("nope"), ErrUnknownJob)

	require.NoError(t, js.AddJob(JobRecipeRecalc, time.Minute, func(context.Context) error { return nil }))
	require.NoError(t, js.RemoveJob(JobRecipeRecalc))
	assert.Empty(t, js.Status())
	assert.NoError(t, js.RemoveJob(JobRecipeRecalc))
}
