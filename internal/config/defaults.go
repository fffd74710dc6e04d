package config

const (
	defaultHubBaseURL             = "https://tunehub.sayqz.com"
	defaultHubTimeoutSeconds      = 60
	defaultQuality                = "320k"
	defaultDataDir                = "~/.local/share/tunebot"
	defaultLogDir                 = "~/.local/share/tunebot/logs"
	defaultDownloadDir            = "~/Music/tunebot"
	defaultDownloadMaxRetries     = 3
	defaultDownloadTimeoutSeconds = 180
	defaultMaxFileSizeMiB         = 50
	defaultTransformBudgetMillis  = 500
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Hub: Hub{
			BaseURL:        defaultHubBaseURL,
			TimeoutSeconds: defaultHubTimeoutSeconds,
		},
		Platforms: []Platform{
			{Code: "netease", Name: "网易云"},
			{Code: "kuwo", Name: "酷我"},
			{Code: "qq", Name: "QQ音乐"},
		},
		DefaultQuality: defaultQuality,
		Download: Download{
			Dir:            defaultDownloadDir,
			MaxRetries:     defaultDownloadMaxRetries,
			TimeoutSeconds: defaultDownloadTimeoutSeconds,
			MaxFileSizeMiB: defaultMaxFileSizeMiB,
		},
		Transform: Transform{
			BudgetMillis: defaultTransformBudgetMillis,
		},
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
