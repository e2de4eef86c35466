package bot

import (
	"clipbot/clip"
	"clipbot/command"
	"clipbot/db"
	"clipbot/handler"
	"clipbot/handler/clips"
	"clipbot/media"
	"clipbot/metrics"
	"clipbot/model"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var (
	_ clip.DecisionLog     = (*db.Store)(nil)
	_ clips.DecisionReader = (*db.Store)(nil)
)

// Run starts the bot and blocks until ctx is done.
func Run(ctx context.Context, cfg model.Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}

	var store *db.Store
	if cfg.Database.Path != "" {
		store, err = db.Open(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		logger.Info("decision log opened", slog.String("path", cfg.Database.Path))
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	h, err := buildHandlers(cfg, dg, store, m, logger)
	if err != nil {
		return err
	}
	router := handler.NewRouter()
	h.RegisterHandlers(router)
	registerEventHandlers(dg, router, h)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("open discord connection: %w", err)
	}
	defer dg.Close()

	if err := command.Sync(dg, dg.State.User.ID, cfg); err != nil {
		return err
	}
	logger.Info("Bot is now running. Press CTRL-C to exit.", slog.String("user", dg.State.User.Username))

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Metrics.Addr != "" {
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: m.Handler(), ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			logger.Info("serving metrics", slog.String("addr", cfg.Metrics.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(sctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return nil
	})
	return g.Wait()
}

// SyncCommands registers the command set and returns.
func SyncCommands(ctx context.Context, cfg model.Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}
	app, err := dg.Application("@me")
	if err != nil {
		return fmt.Errorf("fetch application: %w", err)
	}
	if err := command.Sync(dg, app.ID, cfg); err != nil {
		return err
	}
	logger.Info("commands synced", slog.String("application_id", app.ID), slog.Int("guilds", len(cfg.Commands.AllowGuilds)))
	return nil
}

func buildHandlers(cfg model.Config, dg *discordgo.Session, store *db.Store, m *metrics.Metrics, logger *slog.Logger) (*clips.Handlers, error) {
	botCfg := cfg.ClipBot
	fetcher, err := media.NewFetcher(
		media.Names{Dir: botCfg.TempDir, Extension: botCfg.MediaExtension},
		media.NewYtDlp(botCfg.YtDlpPath, botCfg.Format),
		media.NewDownloadClient(dg.Client),
		logger,
	)
	if err != nil {
		return nil, err
	}

	policy := clip.NewPolicy(botCfg, fetcher, logger)
	publisher := clip.NewPublisher(dg, botCfg.RequestChannelID, logger)
	submitter := clip.NewSubmitter(policy, fetcher, publisher, m, logger)

	deps := clip.WorkflowDeps{
		Gateway: dg,
		Fetcher: fetcher,
		Metrics: m,
		SelfID:  func() string { return selfID(dg) },
		Logger:  logger,
	}
	// a nil *db.Store would make a non-nil interface
	var reader clips.DecisionReader
	if store != nil {
		deps.Decisions = store
		reader = store
	}
	workflow := clip.NewWorkflow(botCfg, deps)

	return clips.New(cfg, submitter, workflow, reader, logger), nil
}

func selfID(s *discordgo.Session) string {
	if s.State == nil || s.State.User == nil {
		return ""
	}
	return s.State.User.ID
}
