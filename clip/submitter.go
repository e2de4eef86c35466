package clip

import (
	"clipbot/metrics"
	"clipbot/model"
	"context"
	"log/slog"
	"time"
)

// Status texts shown in the command's status message.
const (
	MsgProcessing = "Processing request..."
	MsgSubmitted  = "Your clip was sent for review!"
	MsgFetchFail  = "Sorry, I could not download that clip."
	MsgPostFail   = "Sorry, I could not post that clip."
)

// SourceFetcher produces a local file for a submission source.
type SourceFetcher interface {
	Prober
	Fetch(ctx context.Context, src model.Source) (string, error)
}

// Result is the settled state of a submission.
type Result struct {
	MessageID string
	Notice    string
	Err       error
}

// Submitter runs a submission through admission, fetch and publish.
type Submitter struct {
	policy    *Policy
	fetcher   SourceFetcher
	publisher *Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewSubmitter wires the submission steps together. m may be nil.
func NewSubmitter(policy *Policy, fetcher SourceFetcher, publisher *Publisher, m *metrics.Metrics, logger *slog.Logger) *Submitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Submitter{
		policy:    policy,
		fetcher:   fetcher,
		publisher: publisher,
		metrics:   m,
		logger:    logger.With(slog.String("component", "submitter")),
	}
}

// Admit runs the static admission rules. The command layer answers the user
// according to the verdict before calling Process.
func (s *Submitter) Admit(req SubmissionRequest) Verdict {
	v := s.policy.Check(req)
	switch v.Outcome {
	case Silent:
		s.metrics.Submission(string(req.Source.Kind), metrics.OutcomeIgnored)
	case Reply:
		s.metrics.Submission(string(req.Source.Kind), metrics.OutcomeRejected)
	}
	return v
}

// Process runs the remaining steps strictly in order. Every step's failure
// ends the submission; the local file never outlives Process.
func (s *Submitter) Process(ctx context.Context, sub model.Submission) Result {
	kind := string(sub.Source.Kind)
	logger := s.logger.With(slog.String("submission_id", sub.ID), slog.String("kind", kind), slog.String("user_id", sub.UserID))

	v := s.policy.CheckDuration(ctx, sub.Source)
	if !v.Accepted() {
		s.metrics.Submission(kind, metrics.OutcomeRejected)
		return Result{Notice: v.Reason}
	}
	if v.Duration > 0 {
		sub.Source.Duration = v.Duration
	}

	start := time.Now()
	path, err := s.fetcher.Fetch(ctx, sub.Source)
	s.metrics.ObserveFetch(kind, time.Since(start))
	if err != nil {
		logger.Error("fetch failed", slog.Any("err", err))
		s.metrics.Submission(kind, metrics.OutcomeFailed)
		return Result{Notice: MsgFetchFail, Err: err}
	}
	sub.LocalPath = path

	id, err := s.publisher.Publish(ctx, sub.LocalPath)
	if err != nil {
		logger.Error("publish failed", slog.Any("err", err))
		s.metrics.Submission(kind, metrics.OutcomeFailed)
		return Result{Notice: MsgPostFail, Err: err}
	}

	logger.Info("clip posted for review", slog.String("message_id", id))
	s.metrics.Submission(kind, metrics.OutcomeAccepted)
	return Result{MessageID: id, Notice: MsgSubmitted}
}
