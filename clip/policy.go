package clip

import (
	"clipbot/model"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// Outcome of an admission check.
type Outcome int

const (
	// Accept lets the submission continue.
	Accept Outcome = iota
	// Silent drops the submission without telling the user.
	Silent
	// Reply drops the submission and tells the user why.
	Reply
)

// Verdict is the result of an admission check. Reason is the user-facing text
// for Reply and a log hint for Silent. Duration is set when CheckDuration
// probed the source.
type Verdict struct {
	Outcome  Outcome
	Reason   string
	Duration int
}

// Accepted reports whether the submission may continue.
func (v Verdict) Accepted() bool { return v.Outcome == Accept }

// User-facing rejection messages.
const (
	MsgNotAllowed   = "Sorry, I am not allowed to send files!"
	MsgNotMP4       = "Sorry, the file is not a mp4 file!"
	MsgNotYoutube   = "Sorry, only YouTube links are accepted!"
	MsgBadRange     = "Sorry, the end time must be after the start time!"
	MsgProbeFailed  = "Sorry, I could not read that video."
	msgTooLongFmt   = "Sorry, the clip is longer than %d seconds!"
	reasonChannel   = "wrong channel"
	reasonRangeLong = "range exceeds limit"
)

var youtubePattern = regexp.MustCompile(`(?i)^(https?://)?(www\.|m\.)?(youtube\.com|youtu\.be)/`)

// Prober reports the total length of a remote video in seconds.
type Prober interface {
	ProbeDuration(ctx context.Context, url string) (int, error)
}

// SubmissionRequest is what a submission command carries into the policy.
type SubmissionRequest struct {
	ChannelID string
	Source    model.Source
}

// Policy decides whether a submission is admitted.
type Policy struct {
	cfg    model.ClipBot
	prober Prober
	logger *slog.Logger
}

// NewPolicy returns a policy for the given settings.
func NewPolicy(cfg model.ClipBot, prober Prober, logger *slog.Logger) *Policy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Policy{cfg: cfg, prober: prober, logger: logger.With(slog.String("component", "policy"))}
}

// Check runs every rule that needs no network access.
func (p *Policy) Check(req SubmissionRequest) Verdict {
	if req.ChannelID != p.cfg.RequestChannelID {
		return Verdict{Outcome: Silent, Reason: reasonChannel}
	}

	switch req.Source.Kind {
	case model.SourceRemote:
		return p.checkRemote(req.Source)
	case model.SourceUpload:
		return p.checkUpload(req.Source)
	default:
		return Verdict{Outcome: Reply, Reason: MsgNotAllowed}
	}
}

func (p *Policy) checkRemote(src model.Source) Verdict {
	if !p.cfg.YoutubeAllowed {
		return Verdict{Outcome: Reply, Reason: MsgNotAllowed}
	}
	if !youtubePattern.MatchString(strings.TrimSpace(src.URL)) {
		return Verdict{Outcome: Reply, Reason: MsgNotYoutube}
	}
	if (src.Start != nil && *src.Start < 0) || (src.End != nil && *src.End < 0) {
		return Verdict{Outcome: Reply, Reason: MsgBadRange}
	}
	if src.HasRange() {
		if *src.End <= *src.Start {
			return Verdict{Outcome: Reply, Reason: MsgBadRange}
		}
		if *src.End-*src.Start > p.cfg.YoutubeTimeLimit {
			return Verdict{Outcome: Silent, Reason: reasonRangeLong}
		}
	}
	return Verdict{Outcome: Accept}
}

func (p *Policy) checkUpload(src model.Source) Verdict {
	if !p.cfg.FileAllowed {
		return Verdict{Outcome: Reply, Reason: MsgNotAllowed}
	}
	if !strings.HasSuffix(strings.ToLower(src.Filename), strings.ToLower(p.cfg.MediaExtension)) {
		return Verdict{Outcome: Reply, Reason: MsgNotMP4}
	}
	return Verdict{Outcome: Accept}
}

// NeedsProbe reports whether CheckDuration has to query the source.
func (p *Policy) NeedsProbe(src model.Source) bool {
	return src.Kind == model.SourceRemote && !src.HasRange()
}

// CheckDuration probes remote sources without a complete range and rejects
// them when the part that would be fetched exceeds the limit.
func (p *Policy) CheckDuration(ctx context.Context, src model.Source) Verdict {
	if !p.NeedsProbe(src) {
		return Verdict{Outcome: Accept}
	}

	total, err := p.prober.ProbeDuration(ctx, src.URL)
	if err != nil {
		p.logger.Warn("probe failed", slog.String("url", src.URL), slog.Any("err", err))
		return Verdict{Outcome: Reply, Reason: MsgProbeFailed}
	}

	start, end := 0, total
	if src.Start != nil {
		start = *src.Start
	}
	if src.End != nil && *src.End < total {
		end = *src.End
	}
	if end <= start {
		return Verdict{Outcome: Reply, Reason: MsgBadRange}
	}
	if end-start > p.cfg.YoutubeTimeLimit {
		return Verdict{Outcome: Reply, Reason: fmt.Sprintf(msgTooLongFmt, p.cfg.YoutubeTimeLimit)}
	}
	return Verdict{Outcome: Accept, Duration: total}
}
