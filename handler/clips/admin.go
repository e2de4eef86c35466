package clips

import (
	"clipbot/command"
	"clipbot/utils"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	msgNoPermission    = "❌ You are not allowed to do that."
	msgWrongChannel    = "Sorry, this command can only be executed in the clips request channel!"
	msgRefreshing      = "Refreshing commands..."
	msgRefreshed       = "Commands have been refreshed!"
	msgRefreshFailed   = "Failed to refresh commands."
	msgClearing        = "Clearing the request channel..."
	msgClearedFmt      = "Deleted %d messages."
	msgClearFailedFmt  = "Stopped after deleting %d messages: %v"
	purgePageSize      = 100
	bulkDeleteMaxAge   = 14 * 24 * time.Hour
	bulkDeleteMaxBatch = 100
)

// RefreshHandler handles /refresh.
func (h *Handlers) RefreshHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	api := h.session(s)
	if !h.isAdmin(i) {
		_ = respond(api, i, msgNoPermission, true)
		return
	}
	if err := respond(api, i, msgRefreshing, true); err != nil {
		h.logger.Error("failed to acknowledge refresh", slog.Any("err", err))
		return
	}

	content := msgRefreshed
	if err := command.Sync(api, i.AppID, h.cfg); err != nil {
		h.logger.Error("failed to refresh commands", slog.Any("err", err))
		content = msgRefreshFailed
	}
	if err := editResponse(api, i, content); err != nil {
		h.logger.Error("failed to update refresh status", slog.Any("err", err))
	}
}

// ClearHandler handles /clear.
func (h *Handlers) ClearHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	api := h.session(s)
	if !h.isAdmin(i) {
		_ = respond(api, i, msgNoPermission, true)
		return
	}
	if i.ChannelID != h.cfg.ClipBot.RequestChannelID {
		_ = respond(api, i, msgWrongChannel, false)
		return
	}
	if err := respond(api, i, msgClearing, true); err != nil {
		h.logger.Error("failed to acknowledge clear", slog.Any("err", err))
		return
	}

	deleted, err := purgeChannel(api, i.ChannelID, time.Now())
	content := fmt.Sprintf(msgClearedFmt, deleted)
	if err != nil {
		h.logger.Error("purge failed", slog.String("channel_id", i.ChannelID), slog.Int("deleted", deleted), slog.Any("err", err))
		content = fmt.Sprintf(msgClearFailedFmt, deleted, err)
	} else {
		h.logger.Info("request channel purged", slog.Int("deleted", deleted))
	}
	if err := editResponse(api, i, content); err != nil {
		h.logger.Error("failed to update clear status", slog.Any("err", err))
	}
}

// isAdmin allows developers, admin roles and moderators.
func (h *Handlers) isAdmin(i *discordgo.InteractionCreate) bool {
	user := utils.InteractionUser(i)
	if user == nil {
		return false
	}
	roles := utils.InteractionRoles(i)
	return utils.CheckAuth(h.cfg.Commands.Auth, user.ID, roles) ||
		slices.Contains(roles, h.cfg.ClipBot.ModeratorRoleID)
}

// purgeChannel deletes every message in the channel. Messages younger than
// two weeks go through bulk delete, older ones are deleted one by one.
func purgeChannel(api API, channelID string, now time.Time) (int, error) {
	deleted := 0
	before := ""
	for {
		msgs, err := api.ChannelMessages(channelID, purgePageSize, before, "", "")
		if err != nil {
			return deleted, err
		}
		if len(msgs) == 0 {
			return deleted, nil
		}

		var recent []string
		for _, m := range msgs {
			if isBulkDeletable(m.ID, now) {
				recent = append(recent, m.ID)
				continue
			}
			if err := api.ChannelMessageDelete(channelID, m.ID); err != nil {
				return deleted, err
			}
			deleted++
		}
		for start := 0; start < len(recent); start += bulkDeleteMaxBatch {
			end := min(start+bulkDeleteMaxBatch, len(recent))
			if err := api.ChannelMessagesBulkDelete(channelID, recent[start:end]); err != nil {
				return deleted, err
			}
			deleted += end - start
		}

		if len(msgs) < purgePageSize {
			return deleted, nil
		}
		before = msgs[len(msgs)-1].ID
	}
}

func isBulkDeletable(messageID string, now time.Time) bool {
	ts, err := discordgo.SnowflakeTimestamp(messageID)
	if err != nil {
		return false
	}
	// keep a margin so a message does not age out between listing and deleting
	return now.Sub(ts) < bulkDeleteMaxAge-time.Minute
}
