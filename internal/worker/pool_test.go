package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyflow-backend/internal/models"
)

func TestPool_RunsEveryJob(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}
	var wg sync.WaitGroup
	wg.Add(10)

	p := NewPool(func(ctx context.Context, job *models.NoteJob) error {
		defer wg.Done()
		mu.Lock()
		seen[job.NoteID] = true
		mu.Unlock()
		return nil
	}, 3, 16)
	p.Start()
	defer p.Stop()

	for i := 0; i < 10; i++ {
		require.NoError(t, p.Submit(&models.NoteJob{NoteID: string(rune('a' + i))}))
	}

	waitOrFail(t, &wg)
	assert.Len(t, seen, 10)
}

func TestPool_SurvivesPanicsAndErrors(t *testing.T) {
	var calls atomic.Int32
	var wg sync.WaitGroup
	wg.Add(3)

	p := NewPool(func(ctx context.Context, job *models.NoteJob) error {
		defer wg.Done()
		calls.Add(1)
		switch job.NoteID {
		case "panic":
			panic("boom")
		case "error":
			return errors.New("bad note")
		}
		return nil
	}, 1, 4)
	p.Start()
	defer p.Stop()

	require.NoError(t, p.Submit(&models.NoteJob{NoteID: "panic"}))
	require.NoError(t, p.Submit(&models.NoteJob{NoteID: "error"}))
	require.NoError(t, p.Submit(&models.NoteJob{NoteID: "ok"}))

	waitOrFail(t, &wg)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPool_SubmitAfterStop(t *testing.T) {
	p := NewPool(func(ctx context.Context, job *models.NoteJob) error { return nil }, 1, 1)
	p.Start()
	p.Stop()
	p.Stop()

	assert.ErrorIs(t, p.Submit(&models.NoteJob{NoteID: "late"}), ErrPoolStopped)
}

func TestPool_QueueFull(t *testing.T) {
	p := NewPool(func(ctx context.Context, job *models.NoteJob) error { return nil }, 1, 1)

	require.NoError(t, p.Submit(&models.NoteJob{NoteID: "1"}))
	assert.ErrorIs(t, p.Submit(&models.NoteJob{NoteID: "2"}), ErrQueueFull)
}

func TestPool_StopCancelsRunningJobs(t *testing.T) {
	started := make(chan struct{})
	result := make(chan error, 1)

	p := NewPool(func(ctx context.Context, job *models.NoteJob) error {
		close(started)
		<-ctx.Done()
		result <- ctx.Err()
		return ctx.Err()
	}, 1, 1)
	p.Start()

	require.NoError(t, p.Submit(&models.NoteJob{NoteID: "slow"}))
	<-started
	p.Stop()

	assert.ErrorIs(t, <-result, context.Canceled)
}

func waitOrFail(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for jobs")
	}
}
