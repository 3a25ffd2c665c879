package ops

import (
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/yanun0323/errors"

	"main/pkg/conn"
)

const (
	_defaultBookPollInterval    = time.Second
	_defaultExecRefreshInterval = 30 * time.Second
	_defaultNewsTTL             = 5 * time.Minute
	_defaultDepth               = 15
	_defaultPageSize            = 10
	_defaultTokenPath           = ".terminal/token"
)

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	Venue    VenueConfig        `json:"venue"`
	Auth     AuthConfig         `json:"auth"`
	Poll     PollConfig         `json:"poll"`
	Journal  JournalConfig      `json:"journal"`
	Profiler ProfilerConfig     `json:"profiler"`
	Features FeatureFlagsConfig `json:"features"`
}

// VenueConfig describes the venue endpoints and paging.
type VenueConfig struct {
	BaseURL       string `json:"baseUrl"`
	NewsBaseURL   string `json:"newsBaseUrl"`
	Depth         int    `json:"depth"`
	PageSize      int    `json:"pageSize"`
	CallTimeoutMS int    `json:"callTimeoutMs"`
}

// AuthConfig carries the credentials used for automatic re-login and
// the token store location.
type AuthConfig struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	TokenPath string `json:"tokenPath"`
}

// PollConfig tunes the background refresh cadences.
type PollConfig struct {
	BookIntervalMS       int `json:"bookIntervalMs"`
	ExecutionsIntervalMS int `json:"executionsIntervalMs"`
	NewsTTLMS            int `json:"newsTtlMs"`
}

// JournalConfig describes the optional execution journal database.
type JournalConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"sslMode"`
}

// ProfilerConfig describes the optional continuous profiler.
type ProfilerConfig struct {
	Enabled       bool   `json:"enabled"`
	ServerAddress string `json:"serverAddress"`
}

// FeatureFlagsConfig captures optional runtime flags.
type FeatureFlagsConfig struct {
	AutoRelogin *bool `json:"autoRelogin"`
	AllMarket   *bool `json:"allMarket"`
}

// FeatureFlags are resolved runtime flags.
type FeatureFlags struct {
	AutoRelogin bool
	AllMarket   bool
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Venue    ResolvedVenue
	Auth     AuthConfig
	Poll     ResolvedPoll
	Journal  JournalConfig
	Profiler ProfilerConfig
	Features FeatureFlags
}

// ResolvedVenue is the venue config with defaults applied.
type ResolvedVenue struct {
	BaseURL     string
	NewsBaseURL string
	Depth       int
	PageSize    int
	CallTimeout time.Duration
}

// ResolvedPoll is the poll config with defaults applied.
type ResolvedPoll struct {
	BookInterval       time.Duration
	ExecutionsInterval time.Duration
	NewsTTL            time.Duration
}

// Load reads a JSON config file and applies defaults.
func Load(path string) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, errors.Wrapf(err, "read config: %s", path)
	}
	var cfg FileConfig
	if err := sonic.ConfigFastest.Unmarshal(data, &cfg); err != nil {
		return Loaded{}, errors.Wrapf(err, "unmarshal config: %s", path)
	}
	return resolve(cfg)
}

func resolve(cfg FileConfig) (Loaded, error) {
	if cfg.Venue.BaseURL == "" {
		return Loaded{}, errors.New("config: venue.baseUrl is required")
	}

	venue := ResolvedVenue{
		BaseURL:     cfg.Venue.BaseURL,
		NewsBaseURL: cfg.Venue.NewsBaseURL,
		Depth:       cfg.Venue.Depth,
		PageSize:    cfg.Venue.PageSize,
		CallTimeout: time.Duration(cfg.Venue.CallTimeoutMS) * time.Millisecond,
	}
	if venue.NewsBaseURL == "" {
		venue.NewsBaseURL = venue.BaseURL
	}
	if venue.Depth <= 0 {
		venue.Depth = _defaultDepth
	}
	if venue.PageSize <= 0 {
		venue.PageSize = _defaultPageSize
	}

	poll := ResolvedPoll{
		BookInterval:       time.Duration(cfg.Poll.BookIntervalMS) * time.Millisecond,
		ExecutionsInterval: time.Duration(cfg.Poll.ExecutionsIntervalMS) * time.Millisecond,
		NewsTTL:            time.Duration(cfg.Poll.NewsTTLMS) * time.Millisecond,
	}
	if poll.BookInterval <= 0 {
		poll.BookInterval = _defaultBookPollInterval
	}
	if poll.ExecutionsInterval <= 0 {
		poll.ExecutionsInterval = _defaultExecRefreshInterval
	}
	if poll.NewsTTL <= 0 {
		poll.NewsTTL = _defaultNewsTTL
	}

	auth := cfg.Auth
	if auth.TokenPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Loaded{}, errors.Wrap(err, "resolve home dir")
		}
		auth.TokenPath = home + "/" + _defaultTokenPath
	}

	if cfg.Journal.Enabled && cfg.Journal.Database == "" {
		return Loaded{}, errors.New("config: journal.database is required when the journal is enabled")
	}

	return Loaded{
		Venue:    venue,
		Auth:     auth,
		Poll:     poll,
		Journal:  cfg.Journal,
		Profiler: cfg.Profiler,
		Features: FeatureFlags{
			AutoRelogin: resolveFlag(cfg.Features.AutoRelogin, true),
			AllMarket:   resolveFlag(cfg.Features.AllMarket, false),
		},
	}, nil
}

func resolveFlag(flag *bool, fallback bool) bool {
	if flag == nil {
		return fallback
	}
	return *flag
}

// ConnOption maps the journal config to a database connection option.
func (j JournalConfig) ConnOption() conn.Option {
	return conn.Option{
		Host:     j.Host,
		Port:     j.Port,
		User:     j.User,
		Password: j.Password,
		Database: j.Database,
		SSLMode:  j.SSLMode,
	}
}
