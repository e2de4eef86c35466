package clip

import (
	"clipbot/media"
	"clipbot/model"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"

	"github.com/bwmarrin/discordgo"
)

// Publisher posts fetched clips into the request channel for review.
type Publisher struct {
	gw        Gateway
	channelID string
	logger    *slog.Logger
}

// NewPublisher returns a publisher posting into channelID.
func NewPublisher(gw Gateway, channelID string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{gw: gw, channelID: channelID, logger: logger.With(slog.String("component", "publisher"))}
}

// Publish posts the file at localPath, tags it with the approve and reject
// reactions and removes the file. The file is gone when Publish returns.
func (p *Publisher) Publish(ctx context.Context, localPath string) (string, error) {
	defer func() {
		if err := media.Remove(localPath); err != nil {
			p.logger.Warn("failed to remove local clip", slog.String("path", localPath), slog.Any("err", err))
		}
	}()

	msg, err := sendFile(ctx, p.gw, p.channelID, "", localPath)
	if err != nil {
		return "", fmt.Errorf("post clip: %w", err)
	}

	for _, emoji := range []string{model.ApproveEmoji, model.RejectEmoji} {
		if err := p.gw.MessageReactionAdd(p.channelID, msg.ID, emoji, discordgo.WithContext(ctx)); err != nil {
			// the message stays usable; a moderator can still add the reaction by hand
			p.logger.Warn("failed to add reaction", slog.String("message_id", msg.ID), slog.String("emoji", emoji), slog.Any("err", err))
		}
	}
	return msg.ID, nil
}

// sendFile posts one file with optional content and closes it afterwards.
func sendFile(ctx context.Context, gw Gateway, channelID, content, localPath string) (*discordgo.Message, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return gw.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
		Files: []*discordgo.File{
			{
				Name:        "clip" + filepath.Ext(localPath),
				ContentType: contentType(localPath),
				Reader:      f,
			},
		},
	}, discordgo.WithContext(ctx))
}

func contentType(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
