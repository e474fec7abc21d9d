package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment variables that override secrets in the config file.
const (
	EnvFirebaseAPIKey = "ZENITH_FIREBASE_API_KEY"
	EnvDiscordToken   = "ZENITH_DISCORD_TOKEN"
	EnvRedisURL       = "ZENITH_REDIS_URL"
)

// Config holds all zenith configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Budget     BudgetConfig     `toml:"budget"`
	Gym        GymConfig        `toml:"gym"`
	Nutrition  NutritionConfig  `toml:"nutrition"`
	Store      StoreConfig      `toml:"store"`
	Sync       SyncConfig       `toml:"sync"`
	Notify     NotifyConfig     `toml:"notify"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataDir   string `toml:"data_dir,omitempty"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	Currency  string `toml:"currency"`
}

// BudgetConfig holds allowance settings.
type BudgetConfig struct {
	DefaultBalance float64 `toml:"default_balance"`
	AdjustStep     float64 `toml:"adjust_step"`
	RefundPolicy   string  `toml:"refund_policy"`
}

// GymConfig holds schedule and goal settings.
type GymConfig struct {
	Template   string  `toml:"template"`
	GoalDate   string  `toml:"goal_date"`
	GoalWeight float64 `toml:"goal_weight"`
	PhotoDir   string  `toml:"photo_dir,omitempty"`
}

// NutritionConfig holds intake goals.
type NutritionConfig struct {
	ProteinGoal float64 `toml:"protein_goal"`
	CalorieGoal float64 `toml:"calorie_goal"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Backend  string `toml:"backend"`
	RedisURL string `toml:"redis_url,omitempty"`
}

// SyncConfig holds the Firebase mirror settings.
type SyncConfig struct {
	Enabled         bool    `toml:"enabled"`
	ProjectID       string  `toml:"project_id,omitempty"`
	APIKey          string  `toml:"api_key,omitempty"`
	StorageBucket   string  `toml:"storage_bucket,omitempty"`
	WritesPerSecond float64 `toml:"writes_per_second"`
	AutoSync        bool    `toml:"auto_sync"`
	InitialOnStart  bool    `toml:"initial_on_start"`
}

// NotifyConfig selects notification sinks.
type NotifyConfig struct {
	Enabled        bool   `toml:"enabled"`
	DiscordToken   string `toml:"discord_token,omitempty"`
	DiscordChannel string `toml:"discord_channel,omitempty"`
}

// DaemonConfig holds the local API settings.
type DaemonConfig struct {
	Addr            string  `toml:"addr"`
	IntervalSeconds int     `toml:"interval_seconds"`
	EventsBuffer    int     `toml:"events_buffer"`
	MutationsPerSec float64 `toml:"mutations_per_second"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			LogLevel:  "warn",
			LogFormat: "text",
			Currency:  "₹",
		},
		Budget: BudgetConfig{
			DefaultBalance: 6787,
			AdjustStep:     50,
			RefundPolicy:   "always",
		},
		Gym: GymConfig{
			Template:   "ppl-rest",
			GoalDate:   "2026-05-23",
			GoalWeight: 72,
		},
		Nutrition: NutritionConfig{
			ProteinGoal: 150,
			CalorieGoal: 1800,
		},
		Store: StoreConfig{
			Backend: "sqlite",
		},
		Sync: SyncConfig{
			WritesPerSecond: 10,
			InitialOnStart:  true,
		},
		Notify: NotifyConfig{
			Enabled: true,
		},
		Daemon: DaemonConfig{
			Addr:            "127.0.0.1:8787",
			IntervalSeconds: 60,
			EventsBuffer:    200,
			MutationsPerSec: 5,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "zenith")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "zenith")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DefaultDataDir returns the XDG-compliant data directory.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "zenith")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "zenith")
}

// DataDir resolves the data directory from the config, falling back to the
// XDG default.
func DataDir(cfg Config) string {
	if cfg.General.DataDir != "" {
		return cfg.General.DataDir
	}
	return DefaultDataDir()
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// FirebaseAPIKey returns the mirror API key from the environment, a .env
// file, or the config, in that order.
func FirebaseAPIKey(cfg Config) string {
	return lookup(EnvFirebaseAPIKey, cfg.Sync.APIKey)
}

// DiscordToken returns the bot token from the environment, a .env file, or
// the config, in that order.
func DiscordToken(cfg Config) string {
	return lookup(EnvDiscordToken, cfg.Notify.DiscordToken)
}

// RedisURL returns the Redis URL from the environment, a .env file, or the
// config, in that order.
func RedisURL(cfg Config) string {
	return lookup(EnvRedisURL, cfg.Store.RedisURL)
}

func lookup(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	if v := dotenv()[name]; v != "" {
		return v
	}
	return fallback
}

// dotenv merges .env from the working directory over the one in the config
// dir. Missing files are ignored.
func dotenv() map[string]string {
	out := make(map[string]string)
	for _, p := range []string{filepath.Join(Dir(), ".env"), ".env"} {
		vals, err := godotenv.Read(p)
		if err != nil {
			continue
		}
		for k, v := range vals {
			out[k] = v
		}
	}
	return out
}
