// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extool provides the execution seam shared by the external-tool
// wrappers (rasterizer, magick).
package extool

import (
	"bytes"
	"os/exec"
	"strings"
)

// Executor abstracts command execution so tool wrappers can be tested
// without the real binaries.
type Executor interface {
	// LookPath reports where the binary lives on PATH.
	LookPath(file string) (string, error)

	// RunSilent executes the command, discarding all output.
	RunSilent(name string, args ...string) error

	// RunCapture executes the command and returns its captured stderr,
	// which carries the diagnostics on failure.
	RunCapture(name string, args ...string) (stderr []byte, err error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) RunCapture(name string, args ...string) ([]byte, error) {
	var buf bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stderr = &buf
	err := cmd.Run()
	return buf.Bytes(), err
}

// Default is the executor used outside of tests.
var Default Executor = &osExecutor{}

// Truncate trims b to at most n bytes for inclusion in error messages.
func Truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
