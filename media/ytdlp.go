package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Range is a sub-range of a video in whole seconds.
type Range struct {
	Start int
	End   int
}

// Extractor retrieves remote videos.
type Extractor interface {
	Probe(ctx context.Context, url string) (int, error)
	Download(ctx context.Context, url, out string, r *Range) error
}

// runFunc executes a command and returns its stdout. Replaced in tests.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// YtDlp drives the yt-dlp binary.
type YtDlp struct {
	Path   string
	Format string

	run runFunc
}

// NewYtDlp returns an extractor using the given binary and format selector.
func NewYtDlp(path, format string) *YtDlp {
	return &YtDlp{Path: path, Format: format, run: execRun}
}

// Probe returns the duration of the video in seconds, rounded up, without downloading it.
func (y *YtDlp) Probe(ctx context.Context, url string) (int, error) {
	out, err := y.run(ctx, y.Path, "--no-playlist", "--no-warnings", "--skip-download", "--print", "duration", url)
	if err != nil {
		return 0, err
	}
	return parseDuration(out)
}

// Download fetches the best matching streams into out, limited to r when set.
func (y *YtDlp) Download(ctx context.Context, url, out string, r *Range) error {
	_, err := y.run(ctx, y.Path, downloadArgs(y.Format, url, out, r)...)
	return err
}

func downloadArgs(format, url, out string, r *Range) []string {
	args := []string{
		"--no-playlist",
		"--no-warnings",
		"--no-part",
		"-f", format,
		"--merge-output-format", "mp4",
		"-o", out,
	}
	if r != nil {
		args = append(args,
			"--download-sections", fmt.Sprintf("*%d-%d", r.Start, r.End),
			"--force-keyframes-at-cuts",
		)
	}
	return append(args, url)
}

func parseDuration(out []byte) (int, error) {
	s := strings.TrimSpace(string(out))
	// playlists or multi-line output: first line wins
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if s == "" || s == "NA" {
		return 0, errors.New("duration not available")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return int(math.Ceil(f)), nil
}

func execRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, lastLine(msg))
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
