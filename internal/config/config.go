package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"taskmaster/internal/storage"
	"taskmaster/internal/view"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "tasks.db"
	DefaultLogName        = "taskmaster.log"

	// EnvConfigPath overrides where the config file lives.
	EnvConfigPath = "TASKMASTER_CONFIG"
	appDirName    = "taskmaster"
)

type Keymap struct {
	Quit           string `toml:"quit"`
	Add            string `toml:"add"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Toggle         string `toml:"toggle"`
	Delete         string `toml:"delete"`
	Edit           string `toml:"edit"`
	Search         string `toml:"search"`
	CycleFilter    string `toml:"cycle_filter"`
	FilterAll      string `toml:"filter_all"`
	FilterActive   string `toml:"filter_active"`
	FilterDone     string `toml:"filter_completed"`
	ClearCompleted string `toml:"clear_completed"`
	CyclePriority  string `toml:"cycle_priority"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
}

type Log struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

type Config struct {
	DBPath        string `toml:"db_path"`
	BlobKey       string `toml:"blob_key"`
	DefaultFilter string `toml:"default_filter"`
	Log           Log    `toml:"log"`
	Keys          Keymap `toml:"keys"`
}

// ResolveConfigPath picks the config file location: $TASKMASTER_CONFIG,
// then the user config dir, then the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, appDirName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing defaults there first if it
// does not exist. Fields missing from the file keep their defaults.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(filepath.Dir(path), DefaultDBName)
	}
	if cfg.BlobKey == "" {
		cfg.BlobKey = storage.DefaultKey
	}
	return cfg, nil
}

// Filter returns the configured starting filter, falling back to all.
func (c Config) Filter() view.Filter {
	f, err := view.ParseFilter(c.DefaultFilter)
	if err != nil {
		return view.FilterAll
	}
	return f
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig(dir string) Config {
	return Config{
		DBPath:        filepath.Join(dir, DefaultDBName),
		BlobKey:       storage.DefaultKey,
		DefaultFilter: string(view.FilterAll),
		Log: Log{
			Level:      "info",
			File:       filepath.Join(dir, DefaultLogName),
			MaxSizeMB:  5,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Keys: Keymap{
			Quit:           "q",
			Add:            "a",
			Up:             "k",
			Down:           "j",
			Toggle:         " ",
			Delete:         "d",
			Edit:           "e",
			Search:         "/",
			CycleFilter:    "f",
			FilterAll:      "1",
			FilterActive:   "2",
			FilterDone:     "3",
			ClearCompleted: "C",
			CyclePriority:  "tab",
			Confirm:        "enter",
			Cancel:         "esc",
		},
	}
}
