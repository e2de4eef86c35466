package clip

import (
	"clipbot/media"
	"clipbot/metrics"
	"clipbot/model"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// ReactionEvent is a reaction added to a message.
// Member is nil when the gateway did not include it.
type ReactionEvent struct {
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	Emoji     string
	Member    *discordgo.Member
}

// AttachmentFetcher downloads a hosted attachment to a fresh local file.
type AttachmentFetcher interface {
	DownloadAttachment(ctx context.Context, url string) (string, error)
}

// DecisionLog records applied decisions.
type DecisionLog interface {
	RecordDecision(ctx context.Context, rec model.DecisionRecord) error
}

// WorkflowDeps are the collaborators of a Workflow. Decisions and Metrics are optional.
type WorkflowDeps struct {
	Gateway   Gateway
	Fetcher   AttachmentFetcher
	Decisions DecisionLog
	Metrics   *metrics.Metrics
	SelfID    func() string
	Logger    *slog.Logger
}

// Workflow resolves pending request messages from moderator reactions.
type Workflow struct {
	cfg  model.ClipBot
	deps WorkflowDeps

	logger *slog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewWorkflow returns a workflow for the configured channels and role.
func NewWorkflow(cfg model.ClipBot, deps WorkflowDeps) *Workflow {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{
		cfg:      cfg,
		deps:     deps,
		logger:   logger.With(slog.String("component", "approval")),
		inflight: make(map[string]struct{}),
	}
}

// HandleReaction applies a moderator decision to a request message. Events
// that fail the guard leave the message untouched and return StatePosted
// with a nil error.
func (w *Workflow) HandleReaction(ctx context.Context, ev ReactionEvent) (model.ApprovalState, error) {
	selfID := w.deps.SelfID()
	if ev.ChannelID != w.cfg.RequestChannelID || ev.UserID == selfID {
		return model.StatePosted, nil
	}
	decision, ok := model.DecisionFromEmoji(ev.Emoji)
	if !ok {
		return model.StatePosted, nil
	}

	logger := w.logger.With(slog.String("message_id", ev.MessageID), slog.String("user_id", ev.UserID))

	msg, err := w.deps.Gateway.ChannelMessage(ev.ChannelID, ev.MessageID, discordgo.WithContext(ctx))
	if err != nil {
		return model.StatePosted, fmt.Errorf("fetch request message: %w", err)
	}
	if reason := w.guard(ctx, ev, msg, selfID); reason != "" {
		logger.Debug("reaction ignored", slog.String("reason", reason))
		return model.StatePosted, nil
	}

	// two moderators reacting at once must not publish twice
	if !w.claim(ev.MessageID) {
		logger.Debug("reaction ignored", slog.String("reason", "already being resolved"))
		return model.StatePosted, nil
	}
	defer w.release(ev.MessageID)

	switch decision {
	case model.DecisionApprove:
		return w.approve(ctx, ev, msg, logger)
	default:
		return w.reject(ctx, ev, logger)
	}
}

// guard returns why an event must be ignored, or "" when it may proceed.
func (w *Workflow) guard(ctx context.Context, ev ReactionEvent, msg *discordgo.Message, selfID string) string {
	if len(msg.Attachments) == 0 {
		return "no attachments"
	}
	if msg.Author == nil || msg.Author.ID != selfID {
		return "foreign message"
	}
	roles, err := w.roles(ctx, ev)
	if err != nil {
		w.logger.Warn("failed to fetch member", slog.String("user_id", ev.UserID), slog.Any("err", err))
		return "member lookup failed"
	}
	if !slices.Contains(roles, w.cfg.ModeratorRoleID) {
		return "not a moderator"
	}
	return ""
}

func (w *Workflow) roles(ctx context.Context, ev ReactionEvent) ([]string, error) {
	if ev.Member != nil {
		return ev.Member.Roles, nil
	}
	member, err := w.deps.Gateway.GuildMember(ev.GuildID, ev.UserID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return member.Roles, nil
}

func (w *Workflow) approve(ctx context.Context, ev ReactionEvent, msg *discordgo.Message, logger *slog.Logger) (model.ApprovalState, error) {
	path, err := w.deps.Fetcher.DownloadAttachment(ctx, msg.Attachments[0].URL)
	if err != nil {
		return model.StatePosted, fmt.Errorf("download attachment: %w", err)
	}
	defer func() {
		if err := media.Remove(path); err != nil {
			logger.Warn("failed to remove local clip", slog.String("path", path), slog.Any("err", err))
		}
	}()

	content := fmt.Sprintf("From %s:", mention(ev.UserID))
	posted, err := sendFile(ctx, w.deps.Gateway, w.cfg.ClipsChannelID, content, path)
	if err != nil {
		return model.StatePosted, fmt.Errorf("post to clips channel: %w", err)
	}
	logger.Info("clip approved", slog.String("clips_message_id", posted.ID))
	w.record(ctx, ev, model.DecisionApprove, posted.ID)

	if err := w.deps.Gateway.ChannelMessageDelete(ev.ChannelID, ev.MessageID, discordgo.WithContext(ctx)); err != nil {
		return model.StatePublished, fmt.Errorf("delete request message: %w", err)
	}
	return model.StatePublished, nil
}

func (w *Workflow) reject(ctx context.Context, ev ReactionEvent, logger *slog.Logger) (model.ApprovalState, error) {
	if err := w.deps.Gateway.ChannelMessageDelete(ev.ChannelID, ev.MessageID, discordgo.WithContext(ctx)); err != nil {
		return model.StatePosted, fmt.Errorf("delete request message: %w", err)
	}
	logger.Info("clip rejected")
	w.record(ctx, ev, model.DecisionReject, "")
	return model.StateDiscarded, nil
}

func (w *Workflow) record(ctx context.Context, ev ReactionEvent, decision model.Decision, clipsMessageID string) {
	w.deps.Metrics.Decision(string(decision))
	if w.deps.Decisions == nil {
		return
	}
	err := w.deps.Decisions.RecordDecision(ctx, model.DecisionRecord{
		RequestMessageID: ev.MessageID,
		ModeratorID:      ev.UserID,
		Decision:         decision,
		ClipsMessageID:   clipsMessageID,
		DecidedAt:        time.Now(),
	})
	if err != nil {
		w.logger.Warn("failed to record decision", slog.String("message_id", ev.MessageID), slog.Any("err", err))
	}
}

func (w *Workflow) claim(messageID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, busy := w.inflight[messageID]; busy {
		return false
	}
	w.inflight[messageID] = struct{}{}
	return true
}

func (w *Workflow) release(messageID string) {
	w.mu.Lock()
	delete(w.inflight, messageID)
	w.mu.Unlock()
}

func mention(userID string) string {
	return "<@" + userID + ">"
}
