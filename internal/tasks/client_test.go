package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, client)

	// Verify tasks database was created
	_, err = os.Stat(filepath.Join(tmpDir, "test-tasks.db"))
	assert.NoError(t, err, "tasks database should be created")

	err = client.Close()
	assert.NoError(t, err)
}

func TestTasksDBPath(t *testing.T) {
	assert.Equal(t, "book-reviews-tasks.db", TasksDBPath("./book-reviews.db"))
	assert.Equal(t, filepath.Join("/data", "app-tasks.sqlite"), TasksDBPath("/data/app.sqlite"))
}

func TestClientStartStop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), cfg, nil)
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)

	// Give it time to start
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	success := client.Stop(stopCtx)
	assert.True(t, success, "stop should succeed gracefully")
}

func TestStopWithoutStart(t *testing.T) {
	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), DefaultConfig(), nil)
	require.NoError(t, err)
	defer client.Close()

	assert.True(t, client.Stop(context.Background()))
}

type confirmationRecorder struct {
	got chan ReviewConfirmation
	err error
}

func (r *confirmationRecorder) SendReviewConfirmation(ctx context.Context, c ReviewConfirmation) error {
	r.got <- c
	return r.err
}

func TestReviewConfirmationEnqueue(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), cfg, nil)
	require.NoError(t, err)
	defer client.Close()

	recorder := &confirmationRecorder{got: make(chan ReviewConfirmation, 1)}
	client.Register(NewReviewConfirmationQueue(recorder, 0))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	ids, err := client.Add(ReviewConfirmationTask{ReviewConfirmation{ReviewID: 3, BookID: 1, Rating: 5}}).Save()
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	select {
	case c := <-recorder.got:
		assert.Equal(t, ReviewConfirmation{ReviewID: 3, BookID: 1, Rating: 5}, c)
	case <-time.After(5 * time.Second):
		t.Fatal("task was not executed within timeout")
	}
}

func TestReviewConfirmationTaskConfig(t *testing.T) {
	cfg := ReviewConfirmationTask{}.Config()

	assert.Equal(t, "review_confirmation", cfg.Name)
	assert.Equal(t, 1, cfg.MaxAttempts, "confirmations must not be retried")
	assert.Equal(t, DefaultConfirmationTimeout, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}

func TestNewReviewConfirmationQueueTimeout(t *testing.T) {
	assert.Equal(t, 5*time.Second, NewReviewConfirmationQueue(nil, 5*time.Second).Config().Timeout)
	assert.Equal(t, DefaultConfirmationTimeout, NewReviewConfirmationQueue(nil, 0).Config().Timeout)
	assert.Equal(t, DefaultConfirmationTimeout, ReviewConfirmationTask{}.Config().Timeout,
		"configuring one queue must not change the task default")
}

// deadlineRecorder reports how much time the worker left for the send.
type deadlineRecorder struct {
	remaining chan time.Duration
}

func (r *deadlineRecorder) SendReviewConfirmation(ctx context.Context, c ReviewConfirmation) error {
	deadline, ok := ctx.Deadline()
	if !ok {
		r.remaining <- 0
		return nil
	}
	r.remaining <- time.Until(deadline)
	return nil
}

func TestReviewConfirmationUsesConfiguredTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 1
	cfg.TaskTimeout = 2 * time.Second

	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), cfg, nil)
	require.NoError(t, err)
	defer client.Close()

	recorder := &deadlineRecorder{remaining: make(chan time.Duration, 1)}
	client.Register(NewReviewConfirmationQueue(recorder, cfg.TaskTimeout))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	_, err = client.Add(ReviewConfirmationTask{ReviewConfirmation{ReviewID: 1, BookID: 1, Rating: 3}}).Save()
	require.NoError(t, err)

	select {
	case remaining := <-recorder.remaining:
		assert.Greater(t, remaining, time.Duration(0))
		assert.LessOrEqual(t, remaining, cfg.TaskTimeout)
	case <-time.After(5 * time.Second):
		t.Fatal("task was not executed within timeout")
	}
}

func TestReviewConfirmationFailureIsNotRetried(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), cfg, nil)
	require.NoError(t, err)
	defer client.Close()

	recorder := &confirmationRecorder{got: make(chan ReviewConfirmation, 2), err: errors.New("mailbox full")}
	client.Register(NewReviewConfirmationQueue(recorder, time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	ids, err := client.Add(ReviewConfirmationTask{ReviewConfirmation{ReviewID: 5, BookID: 1, Rating: 2}}).Save()
	require.NoError(t, err)
	require.Len(t, ids, 1)

	assert.Eventually(t, func() bool {
		status, err := client.Status(context.Background(), ids[0])
		return err == nil && status == backlite.TaskStatusFailure
	}, 5*time.Second, 20*time.Millisecond)

	assert.Len(t, recorder.got, 1, "a failed confirmation must be attempted exactly once")
}

func TestReviewConfirmationProcessor(t *testing.T) {
	t.Run("wraps sender errors", func(t *testing.T) {
		recorder := &confirmationRecorder{got: make(chan ReviewConfirmation, 1), err: errors.New("boom")}
		process := ReviewConfirmationProcessor(recorder)

		err := process(context.Background(), ReviewConfirmationTask{ReviewConfirmation{ReviewID: 8}})
		assert.ErrorContains(t, err, "confirm review 8")
	})

	t.Run("missing sender", func(t *testing.T) {
		process := ReviewConfirmationProcessor(nil)
		assert.Error(t, process(context.Background(), ReviewConfirmationTask{}))
	})
}

var _ backlite.Task = ReviewConfirmationTask{}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 30*time.Second, cfg.TaskTimeout)
	assert.Equal(t, 5*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
}
