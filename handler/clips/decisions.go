package clips

import (
	"clipbot/model"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	decisionsPerPage   = 10
	lookupTimeout      = 10 * time.Second
	msgDecisionLogOff  = "The decision log is disabled."
	msgNoDecisions     = "No decisions recorded yet."
	msgLookupFailed    = "❌ Failed to read the decision log."
	msgModeratorSumFmt = "<@%s> approved %d and rejected %d clips."
)

// DecisionsHandler handles /decisions [moderator].
func (h *Handlers) DecisionsHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	api := h.session(s)
	if !h.isAdmin(i) {
		_ = respond(api, i, msgNoPermission, true)
		return
	}
	if h.decisions == nil {
		_ = respond(api, i, msgDecisionLogOff, true)
		return
	}

	err := api.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		h.logger.Error("failed to defer decisions lookup", slog.Any("err", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	var content string
	if moderatorID := moderatorOption(i.ApplicationCommandData()); moderatorID != "" {
		content, err = h.moderatorSummary(ctx, moderatorID)
	} else {
		content, err = h.recentDecisions(ctx)
	}
	if err != nil {
		h.logger.Error("decision lookup failed", slog.Any("err", err))
		content = msgLookupFailed
	}
	if err := editResponse(api, i, content); err != nil {
		h.logger.Error("failed to send decisions", slog.Any("err", err))
	}
}

func (h *Handlers) moderatorSummary(ctx context.Context, moderatorID string) (string, error) {
	approved, err := h.decisions.CountDecisions(ctx, moderatorID, model.DecisionApprove)
	if err != nil {
		return "", err
	}
	rejected, err := h.decisions.CountDecisions(ctx, moderatorID, model.DecisionReject)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(msgModeratorSumFmt, moderatorID, approved, rejected), nil
}

func (h *Handlers) recentDecisions(ctx context.Context) (string, error) {
	records, err := h.decisions.ListDecisions(ctx, decisionsPerPage)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return msgNoDecisions, nil
	}

	var b strings.Builder
	b.WriteString("Latest decisions:")
	for _, rec := range records {
		fmt.Fprintf(&b, "\n<t:%d:R> <@%s> %s request `%s`",
			rec.DecidedAt.Unix(), rec.ModeratorID, decisionVerb(rec.Decision), rec.RequestMessageID)
	}
	return b.String(), nil
}

func decisionVerb(d model.Decision) string {
	if d == model.DecisionApprove {
		return "approved"
	}
	return "rejected"
}

func moderatorOption(data discordgo.ApplicationCommandInteractionData) string {
	opt, ok := optionMap(data)["moderator"]
	if !ok {
		return ""
	}
	id, _ := opt.Value.(string)
	return id
}
