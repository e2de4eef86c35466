package model

// Config 对应于 config.yaml 的顶级结构
type Config struct {
	Token    string   `mapstructure:"token" validate:"required"`
	Commands Commands `mapstructure:"commands"`
	ClipBot  ClipBot  `mapstructure:"bot"`
	Database Database `mapstructure:"database"`
	Metrics  Metrics  `mapstructure:"metrics"`
}

// ClipBot 对应 "bot" 部分：频道、角色与投稿规则
type ClipBot struct {
	RequestChannelID string `mapstructure:"request_channel_id" validate:"required,numeric"`
	ClipsChannelID   string `mapstructure:"clips_channel_id" validate:"required,numeric"`
	ModeratorRoleID  string `mapstructure:"moderator_role_id" validate:"required,numeric"`

	YoutubeAllowed   bool `mapstructure:"youtube_allowed"`
	FileAllowed      bool `mapstructure:"file_allowed"`
	YoutubeTimeLimit int  `mapstructure:"youtube_time_limit" validate:"gt=0"`

	MediaExtension string `mapstructure:"media_extension" validate:"required,startswith=."`
	TempDir        string `mapstructure:"temp_dir" validate:"required"`
	YtDlpPath      string `mapstructure:"ytdlp_path" validate:"required"`
	Format         string `mapstructure:"format" validate:"required"`
}

// Commands 对应 "commands" 部分
type Commands struct {
	AllowGuilds []string `mapstructure:"allowguilds"`
	Auth        Auth     `mapstructure:"auth"`
}

// Auth 对应 "auth" 部分
type Auth struct {
	Developers  []string `mapstructure:"developers"`
	AdminsRoles []string `mapstructure:"admins_roles"`
}

// Database 对应 "database" 部分，路径为空时不记录审核决定
type Database struct {
	Path string `mapstructure:"path"`
}

// Metrics 对应 "metrics" 部分，地址为空时不开启指标端点
type Metrics struct {
	Addr string `mapstructure:"addr"`
}
