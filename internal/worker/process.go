// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package worker

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"sync"
	"time"

	"github.com/tarkovdev/purgectl/internal/log"
)

// DefaultWaitDelay is how long a cancelled worker process gets to exit after
// SIGINT before it is killed.
const DefaultWaitDelay = 5 * time.Second

// Process runs each worker as a child process: Path is executed with Args
// followed by the dataset name. The job snapshot is written to the child's
// stdin as JSON and the child answers with JSON line messages on stdout, as
// Serve does. Lines the child writes to stderr are relayed as warnings.
type Process struct {
	// Path defaults to the running executable.
	Path string
	// Args default to "worker".
	Args []string
	// Env is appended to the current environment.
	Env []string
	// WaitDelay defaults to DefaultWaitDelay.
	WaitDelay time.Duration
}

// Start implements Runner.
func (p *Process) Start(ctx context.Context, job Job) (<-chan Message, error) {
	path := p.Path
	if path == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to locate worker executable: %w", err)
		}
		path = exe
	}

	args := slices.Clone(p.Args)
	if len(args) == 0 {
		args = []string{"worker"}
	}
	args = append(args, job.Dataset)

	var stdin []byte
	if job.Snapshot != nil {
		var err error
		if stdin, err = json.Marshal(job.Snapshot); err != nil {
			return nil, fmt.Errorf("failed to encode %s snapshot: %w", job.Dataset, err)
		}
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Env = append(os.Environ(), p.Env...)
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = p.WaitDelay
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = DefaultWaitDelay
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}

	log.Debugf("worker process: %s %v", path, args)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start diff worker: %w", err)
	}

	ch := make(chan Message, defaultBuffer)
	go p.relay(ctx, cmd, stdout, stderr, ch)
	return ch, nil
}

// relay forwards the child's output to ch. The terminal message is held back
// until the child has exited so it is always the last one sent.
func (p *Process) relay(ctx context.Context, cmd *exec.Cmd, stdout, stderr io.Reader, ch chan<- Message) {
	defer close(ch)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				ch <- warnf("%s", line)
			}
		}
	}()

	var final *Message
	var decodeErr error
	dec := json.NewDecoder(stdout)
	for {
		var m Message
		if err := dec.Decode(&m); err != nil {
			if !errors.Is(err, io.EOF) {
				decodeErr = err
				_, _ = io.Copy(io.Discard, stdout)
			}
			break
		}
		if m.Terminal() {
			if final == nil {
				final = &m
			}
			continue
		}
		ch <- m
	}

	wg.Wait()
	waitErr := cmd.Wait()
	log.Debugf("worker process exited: pid=%d err=%v", cmd.Process.Pid, waitErr)

	switch {
	case final != nil:
		ch <- *final
	case ctx.Err() != nil:
		// Cancelled; the child reported its own termination.
	case decodeErr != nil:
		ch <- errorf("invalid diff worker output: %v", decodeErr)
	case waitErr != nil:
		ch <- errorf("diff worker failed: %v", waitErr)
	}
}
