package clips

import (
	"clipbot/clip"
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// MessageReactionAdd handles reaction additions on request messages.
func (h *Handlers) MessageReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	ev := clip.ReactionEvent{
		GuildID:   r.GuildID,
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		UserID:    r.UserID,
		Emoji:     r.Emoji.Name,
		Member:    r.Member,
	}
	state, err := h.workflow.HandleReaction(ctx, ev)
	if err != nil {
		h.logger.Error("failed to apply reaction",
			slog.String("message_id", r.MessageID),
			slog.String("user_id", r.UserID),
			slog.String("state", state.String()),
			slog.Any("err", err))
	}
}
