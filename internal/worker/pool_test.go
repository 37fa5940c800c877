package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingJob struct {
	mu   sync.Mutex
	runs int
	done chan struct{}
}

func (j *recordingJob) Name() string { return "recording" }

func (j *recordingJob) Run(ctx context.Context) error {
	j.mu.Lock()
	j.runs++
	j.mu.Unlock()
	if j.done != nil {
		j.done <- struct{}{}
	}
	return nil
}

func (j *recordingJob) count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.runs
}

type blockingJob struct {
	release chan struct{}
}

func (j *blockingJob) Name() string { return "blocking" }

func (j *blockingJob) Run(ctx context.Context) error {
	<-j.release
	return nil
}

func TestPoolRunsSubmittedJobs(t *testing.T) {
	pool := NewPool(2, 8)
	pool.Start(context.Background())

	job := &recordingJob{done: make(chan struct{}, 3)}
	for i := 0; i < 3; i++ {
		pool.Submit(job)
	}
	for i := 0; i < 3; i++ {
		select {
		case <-job.done:
		case <-time.After(time.Second):
			t.Fatal("job did not run")
		}
	}
	pool.Stop()

	assert.Equal(t, 3, job.count())
}

func TestTrySubmitDropsWhenQueueFull(t *testing.T) {
	pool := NewPool(1, 1)

	// The pool is not started, so the single queue slot fills and stays
	// full.
	blocker := &blockingJob{release: make(chan struct{})}
	require.True(t, pool.TrySubmit(blocker))
	assert.False(t, pool.TrySubmit(&recordingJob{}))
	assert.Equal(t, 1, pool.QueueSize())
}

func TestStopAfterWorkIsClean(t *testing.T) {
	pool := NewPool(1, 8)
	pool.Start(context.Background())

	job := &recordingJob{done: make(chan struct{}, 1)}
	pool.Submit(job)
	select {
	case <-job.done:
	case <-time.After(time.Second):
		t.Fatal("job did not run")
	}

	pool.Stop()
}

func TestTrackDeviceJob(t *testing.T) {
	tracker := &fakeTracker{}
	job := &TrackDeviceJob{Devices: tracker, IP: "10.0.0.1", UserAgent: "curl/8.0"}

	assert.Equal(t, "track_device", job.Name())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, "10.0.0.1", tracker.ip)
	assert.Equal(t, "curl/8.0", tracker.userAgent)
}

type fakeTracker struct {
	ip        string
	userAgent string
}

func (f *fakeTracker) Track(ctx context.Context, ip, userAgent string) error {
	f.ip = ip
	f.userAgent = userAgent
	return nil
}
