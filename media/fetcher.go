package media

import (
	"clipbot/model"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Fetcher turns a submission source into a local file.
type Fetcher struct {
	names     Names
	extractor Extractor
	client    *http.Client
	logger    *slog.Logger
}

// NewFetcher creates the temp directory and returns a fetcher writing into it.
func NewFetcher(names Names, extractor Extractor, client *http.Client, logger *slog.Logger) (*Fetcher, error) {
	if err := os.MkdirAll(names.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir temp dir: %w", err)
	}
	if client == nil {
		client = NewDownloadClient(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		names:     names,
		extractor: extractor,
		client:    client,
		logger:    logger.With(slog.String("component", "media")),
	}, nil
}

// NewDownloadClient returns a client sharing base's transport but without a
// total timeout. Downloads are bounded by the request context instead, since
// Client.Timeout also covers reading the body.
func NewDownloadClient(base *http.Client) *http.Client {
	if base == nil {
		return &http.Client{}
	}
	return &http.Client{
		Transport:     base.Transport,
		CheckRedirect: base.CheckRedirect,
		Jar:           base.Jar,
	}
}

// ProbeDuration returns the total length of a remote video in seconds.
func (f *Fetcher) ProbeDuration(ctx context.Context, url string) (int, error) {
	d, err := f.extractor.Probe(ctx, url)
	if err != nil {
		return 0, &FetchError{Op: "probe", URL: url, Err: err}
	}
	return d, nil
}

// Fetch retrieves src into a freshly named file and returns its path. On
// failure nothing is left on disk.
func (f *Fetcher) Fetch(ctx context.Context, src model.Source) (string, error) {
	out := f.names.Next()
	var err error
	switch src.Kind {
	case model.SourceRemote:
		err = f.fetchRemote(ctx, src, out)
	case model.SourceUpload:
		err = f.fetchURL(ctx, src.URL, out)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedSource, src.Kind)
	}
	if err != nil {
		removeLeftovers(out)
		return "", &FetchError{Op: "download", URL: src.URL, Err: err}
	}
	f.logger.Debug("fetched media", slog.String("kind", string(src.Kind)), slog.String("path", out))
	return out, nil
}

// DownloadAttachment saves a hosted attachment verbatim.
func (f *Fetcher) DownloadAttachment(ctx context.Context, url string) (string, error) {
	return f.Fetch(ctx, model.Source{Kind: model.SourceUpload, URL: url})
}

func (f *Fetcher) fetchRemote(ctx context.Context, src model.Source, out string) error {
	var r *Range
	if src.Start != nil || src.End != nil {
		rr, err := f.resolveRange(ctx, src)
		if err != nil {
			return err
		}
		r = &rr
	}
	if err := f.extractor.Download(ctx, src.URL, out, r); err != nil {
		return err
	}
	if _, err := os.Stat(out); err != nil {
		return fmt.Errorf("extractor produced no file: %w", err)
	}
	return nil
}

// resolveRange fills a missing bound and clips the range to the source. A
// duration already probed during admission is reused. Without a known
// duration an explicit range is passed as is; yt-dlp cuts at the end of the
// source itself.
func (f *Fetcher) resolveRange(ctx context.Context, src model.Source) (Range, error) {
	r := Range{}
	if src.Start != nil {
		r.Start = *src.Start
	}
	total := -1
	if src.Duration > 0 {
		total = src.Duration
	}
	if src.End != nil {
		r.End = *src.End
	} else {
		if total < 0 {
			d, err := f.extractor.Probe(ctx, src.URL)
			if err != nil {
				return r, err
			}
			total = d
		}
		r.End = total
	}
	return ClipRange(r, total)
}

// ClipRange bounds r to [0, total]. A negative total means unknown.
func ClipRange(r Range, total int) (Range, error) {
	if r.Start < 0 {
		r.Start = 0
	}
	if total >= 0 && r.End > total {
		r.End = total
	}
	if r.End <= r.Start {
		return r, fmt.Errorf("empty range %d-%d", r.Start, r.End)
	}
	return r, nil
}

func (f *Fetcher) fetchURL(ctx context.Context, url, out string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	part := out + ".part"
	file, err := os.Create(part)
	if err != nil {
		return err
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		removeQuietly(part)
		return err
	}
	if err := file.Close(); err != nil {
		removeQuietly(part)
		return err
	}
	if err := os.Rename(part, out); err != nil {
		removeQuietly(part)
		return err
	}
	return nil
}

// Remove deletes a fetched file. Missing files are not an error.
func Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func removeQuietly(path string) {
	_ = Remove(path)
}

// removeLeftovers also drops intermediate files the extractor derived from out
// (format-suffixed streams, .part, .ytdl).
func removeLeftovers(out string) {
	removeQuietly(out)
	base := strings.TrimSuffix(out, filepath.Ext(out))
	matches, _ := filepath.Glob(base + ".*")
	for _, m := range matches {
		removeQuietly(m)
	}
}
