package config

import (
	"clipbot/model"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CLIPBOT_BOT_REQUEST_CHANNEL_ID.
const EnvPrefix = "CLIPBOT"

// DefaultFormat selects the best mp4 video with m4a audio, falling back to the best single mp4.
const DefaultFormat = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the configuration once at startup. path may be a directory
// containing config.yaml, a config file, or empty for the working directory.
// The returned value is never modified afterwards.
func Load(path string) (model.Config, error) {
	var cfg model.Config

	// .env is optional; only a malformed file is an error
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// the plain TOKEN variable is accepted as well
	if err := v.BindEnv("token", EnvPrefix+"_TOKEN", "TOKEN"); err != nil {
		return cfg, fmt.Errorf("bind token env: %w", err)
	}

	if path != "" && filepath.Ext(path) != "" {
		v.SetConfigFile(path)
	} else {
		if path == "" {
			path = "."
		}
		v.AddConfigPath(path)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks required ids and policy limits.
func Validate(cfg model.Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("token", "")
	v.SetDefault("bot.request_channel_id", "")
	v.SetDefault("bot.clips_channel_id", "")
	v.SetDefault("bot.moderator_role_id", "")
	v.SetDefault("bot.youtube_allowed", true)
	v.SetDefault("bot.file_allowed", true)
	v.SetDefault("bot.youtube_time_limit", 15)
	v.SetDefault("bot.media_extension", ".mp4")
	v.SetDefault("bot.temp_dir", filepath.Join(os.TempDir(), "clipbot"))
	v.SetDefault("bot.ytdlp_path", "yt-dlp")
	v.SetDefault("bot.format", DefaultFormat)
	v.SetDefault("commands.allowguilds", []string{})
	v.SetDefault("database.path", "")
	v.SetDefault("metrics.addr", "")
}
