package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"polingo/internal/logger"
)

// Recorder captures one microphone recording at a time. The device is
// held exclusively between Start and Stop and released on every exit
// path, including failed stops.
type Recorder interface {
	Start(ctx context.Context) error
	// Stop ends the capture and returns the recorded bytes and a
	// filename hint for upload.
	Stop() ([]byte, string, error)
}

// ExecRecorder shells out to an external capture tool (ffmpeg by
// default) writing into a temp file.
type ExecRecorder struct {
	mu      sync.Mutex
	command string
	cmd     *exec.Cmd
	path    string
	log     *logger.Logger
}

// NewExecRecorder creates a recorder using the given capture command.
func NewExecRecorder(command string) *ExecRecorder {
	if command == "" {
		command = "ffmpeg"
	}
	return &ExecRecorder{
		command: command,
		log:     logger.Default().WithPrefix("audio"),
	}
}

func (r *ExecRecorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd != nil {
		return fmt.Errorf("recording already in progress")
	}

	r.path = filepath.Join(os.TempDir(), fmt.Sprintf("polingo-%s.webm", uuid.NewString()))
	cmd := exec.CommandContext(ctx, r.command,
		"-hide_banner", "-loglevel", "error",
		"-f", "pulse", "-i", "default",
		"-y", r.path,
	)
	if err := cmd.Start(); err != nil {
		r.path = ""
		return fmt.Errorf("starting capture: %w", err)
	}

	r.cmd = cmd
	r.log.Debug("recording started: %s", r.path)
	return nil
}

func (r *ExecRecorder) Stop() ([]byte, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd == nil {
		return nil, "", fmt.Errorf("no recording in progress")
	}

	cmd := r.cmd
	path := r.path
	r.cmd = nil
	r.path = ""
	defer os.Remove(path)

	// Ask the tool to finalize the container, then wait for it to exit.
	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		cmd.Process.Kill()
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		cmd.Process.Kill()
		<-done
	}

	data, err := os.ReadFile(path)
	if err != nil {
		r.log.Error("failed to read recording: %v", err)
		return nil, "", fmt.Errorf("reading recording: %w", err)
	}

	r.log.Debug("recording stopped: %d bytes", len(data))
	return data, filepath.Base(path), nil
}

var _ Recorder = (*ExecRecorder)(nil)
