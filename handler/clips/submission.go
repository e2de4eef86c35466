package clips

import (
	"clipbot/clip"
	"clipbot/model"
	"clipbot/utils"
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// YtRequestHandler handles /ytrequest url [start] [end].
func (h *Handlers) YtRequestHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	h.submit(h.session(s), i, remoteSource(i.ApplicationCommandData()))
}

// FileRequestHandler handles /filerequest file.
func (h *Handlers) FileRequestHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	src, ok := uploadSource(i.ApplicationCommandData())
	if !ok {
		h.logger.Warn("filerequest without resolved attachment", slog.String("interaction_id", i.ID))
		return
	}
	h.submit(h.session(s), i, src)
}

func (h *Handlers) submit(api API, i *discordgo.InteractionCreate, src model.Source) {
	logger := h.logger.With(slog.String("interaction_id", i.ID), slog.String("kind", string(src.Kind)))

	v := h.submitter.Admit(clip.SubmissionRequest{ChannelID: i.ChannelID, Source: src})
	switch v.Outcome {
	case clip.Silent:
		logger.Debug("submission dropped", slog.String("reason", v.Reason))
		return
	case clip.Reply:
		if err := respond(api, i, v.Reason, false); err != nil {
			logger.Error("failed to send rejection", slog.Any("err", err))
		}
		return
	}

	if err := respond(api, i, clip.MsgProcessing, true); err != nil {
		logger.Error("failed to send status message", slog.Any("err", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	var userID string
	if u := utils.InteractionUser(i); u != nil {
		userID = u.ID
	}
	res := h.submitter.Process(ctx, model.Submission{
		ID:        i.ID,
		ChannelID: i.ChannelID,
		UserID:    userID,
		Source:    src,
	})
	if err := editResponse(api, i, res.Notice); err != nil {
		logger.Error("failed to update status message", slog.Any("err", err))
	}
}

func optionMap(data discordgo.ApplicationCommandInteractionData) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(data.Options))
	for _, opt := range data.Options {
		options[opt.Name] = opt
	}
	return options
}

func remoteSource(data discordgo.ApplicationCommandInteractionData) model.Source {
	options := optionMap(data)
	src := model.Source{Kind: model.SourceRemote}
	if opt, ok := options["url"]; ok {
		src.URL = opt.StringValue()
	}
	if opt, ok := options["start"]; ok {
		v := int(opt.IntValue())
		src.Start = &v
	}
	if opt, ok := options["end"]; ok {
		v := int(opt.IntValue())
		src.End = &v
	}
	return src
}

func uploadSource(data discordgo.ApplicationCommandInteractionData) (model.Source, bool) {
	opt, ok := optionMap(data)["file"]
	if !ok || data.Resolved == nil {
		return model.Source{}, false
	}
	id, _ := opt.Value.(string)
	att, ok := data.Resolved.Attachments[id]
	if !ok || att == nil {
		return model.Source{}, false
	}
	return model.Source{Kind: model.SourceUpload, URL: att.URL, Filename: att.Filename}, true
}
