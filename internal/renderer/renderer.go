// Package renderer turns avatar images into lines of terminal output by
// delegating to an external image-to-terminal tool.
package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ErrUnavailable is returned when the external renderer cannot be found
var ErrUnavailable = errors.New("terminal image renderer unavailable")

// Renderer converts image bytes into printable terminal lines that fit in
// width x height character cells.
type Renderer interface {
	// Available reports whether rendering can work at all
	Available() bool

	Render(ctx context.Context, image []byte, width, height int) ([]string, error)
}

// cursorSequences are emitted by chafa around its output and would otherwise
// end up in the middle of the composed card.
var cursorSequences = strings.NewReplacer("\x1b[?25l", "", "\x1b[?25h", "")

// ChafaRenderer renders images with the chafa command line tool
type ChafaRenderer struct {
	binary   string
	timeout  time.Duration
	noColor  bool
	lookPath func(file string) (string, error)
}

// ChafaOption configures a ChafaRenderer
type ChafaOption func(*ChafaRenderer)

// WithoutColor makes chafa draw with symbols only and emit no color escapes
func WithoutColor() ChafaOption {
	return func(r *ChafaRenderer) {
		r.noColor = true
	}
}

func NewChafaRenderer(binary string, timeout time.Duration, opts ...ChafaOption) *ChafaRenderer {
	if binary == "" {
		binary = "chafa"
	}
	r := &ChafaRenderer{
		binary:   binary,
		timeout:  timeout,
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Available reports whether the renderer binary can be found
func (r *ChafaRenderer) Available() bool {
	_, err := r.lookPath(r.binary)
	return err == nil
}

// Render writes the image to a temporary file and runs chafa on it
func (r *ChafaRenderer) Render(ctx context.Context, image []byte, width, height int) ([]string, error) {
	path, err := r.lookPath(r.binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, r.binary, err)
	}

	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid render size %dx%d", width, height)
	}

	tmp, err := os.CreateTemp("", "gitch-avatar-*.img")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(image); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write avatar to temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	args := []string{fmt.Sprintf("--size=%dx%d", width, height), "--format=symbols"}
	if r.noColor {
		args = append(args, "--colors=none")
	}
	// the image path goes last
	args = append(args, tmp.Name())

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("renderer failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return splitLines(stdout.String()), nil
}

// splitLines strips cursor control sequences and splits output into lines
func splitLines(output string) []string {
	output = cursorSequences.Replace(output)
	output = strings.ReplaceAll(output, "\r\n", "\n")
	output = strings.TrimRight(output, "\n")
	if strings.TrimSpace(output) == "" {
		return nil
	}
	return strings.Split(output, "\n")
}
