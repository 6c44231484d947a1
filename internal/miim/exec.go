// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package miim

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// Result of a tool run. ExitCode is -1 if the tool was signaled.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// RunFunc runs argv to completion. It only returns an error if argv
// couldn't be started (ErrSpawn) or didn't finish before ctx was done
// (ErrTimeout); the exit status is left for the caller in Result.
type RunFunc func(ctx context.Context, argv []string) (*Result, error)

// waitDelay bounds the wait for output pipes after the tool exits or is
// killed.
const waitDelay = time.Second

// Exec is the default RunFunc.
func Exec(ctx context.Context, argv []string) (*Result, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrSpawn)
	}
	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	c.Stdout = &stdout
	c.Stderr = &stderr
	c.WaitDelay = waitDelay
	if err := c.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	err := c.Wait()
	r := &Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return r, fmt.Errorf("%w: %w", ErrTimeout, ctxErr)
	}
	if errors.Is(err, exec.ErrWaitDelay) {
		err = nil
	}
	if err != nil {
		var ee *exec.ExitError
		if !errors.As(err, &ee) {
			return r, fmt.Errorf("%w: %v", ErrSpawn, err)
		}
		if r.ExitCode = ee.ExitCode(); r.ExitCode == 0 {
			r.ExitCode = -1
		}
	}
	return r, nil
}
