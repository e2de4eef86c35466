package clips

import (
	"clipbot/clip"
	"clipbot/command"
	"clipbot/command/def"
	"clipbot/handler"
	"clipbot/model"
	"clipbot/utils"
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
)

// processTimeout bounds one submission; interaction tokens expire after 15 minutes.
const processTimeout = 10 * time.Minute

// API is the part of *discordgo.Session the command handlers use.
type API interface {
	command.Registrar
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessagesBulkDelete(channelID string, messages []string, options ...discordgo.RequestOption) error
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
}

var _ API = (*discordgo.Session)(nil)

// DecisionReader reads back the moderator decision log.
type DecisionReader interface {
	ListDecisions(ctx context.Context, limit int) ([]model.DecisionRecord, error)
	CountDecisions(ctx context.Context, moderatorID string, decision model.Decision) (int, error)
}

// Handlers holds the clip command and reaction handlers.
type Handlers struct {
	cfg       model.Config
	submitter *clip.Submitter
	workflow  *clip.Workflow
	decisions DecisionReader
	logger    *slog.Logger

	// api overrides the session passed to handlers; set in tests.
	api API
}

// New returns the handlers for the given workflow parts. decisions may be nil
// when the decision log is disabled.
func New(cfg model.Config, submitter *clip.Submitter, workflow *clip.Workflow, decisions DecisionReader, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		cfg:       cfg,
		submitter: submitter,
		workflow:  workflow,
		decisions: decisions,
		logger:    logger.With(slog.String("component", "commands")),
	}
}

// RegisterHandlers registers all command handlers of this package.
func (h *Handlers) RegisterHandlers(r *handler.Router) {
	r.AddCommandHandler(def.YtRequestCommand.Name, h.YtRequestHandler)
	r.AddCommandHandler(def.FileRequestCommand.Name, h.FileRequestHandler)
	r.AddCommandHandler(def.RefreshCommand.Name, h.RefreshHandler)
	r.AddCommandHandler(def.ClearCommand.Name, h.ClearHandler)
	r.AddCommandHandler(def.DecisionsCommand.Name, h.DecisionsHandler)
}

func (h *Handlers) session(s *discordgo.Session) API {
	if h.api != nil {
		return h.api
	}
	return s
}

func respond(api API, i *discordgo.InteractionCreate, content string, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return api.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

func editResponse(api API, i *discordgo.InteractionCreate, content string) error {
	_, err := api.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: utils.StringPtr(content)})
	return err
}
