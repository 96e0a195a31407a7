// Package config loads the engine's runtime settings: struct defaults, then
// an optional configuration file, then STYLES_* environment variables, with
// validation on the merged result.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	koanfv1 "github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration for the stylesheet engine and CLI.
type AppConfig struct {
	// StylesDir is the directory scanned for user stylesheets.
	StylesDir string `koanf:"styles_dir" validate:"required"`

	// StateFile is the bolt database holding per-file enabled flags.
	StateFile string `koanf:"state_file" validate:"required"`

	// FileExt is the stylesheet extension discovery accepts, dot included.
	FileExt string `koanf:"file_ext" validate:"required,dotext"`

	// CacheSize bounds the per-address match cache. Zero disables caching.
	CacheSize int `koanf:"cache_size" validate:"gte=0"`

	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity.
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// Watch enables the directory watcher in the CLI watch command.
	Watch bool `koanf:"watch"`

	// DebounceMs is the quiet period after a file event before reloading.
	DebounceMs int `koanf:"debounce_ms" validate:"gte=0"`
}

// DefaultAppConfig is the baseline configuration; file and environment
// values overlay it.
var DefaultAppConfig = AppConfig{
	StylesDir:  "/etc/userstyles/styles/",
	StateFile:  "/var/lib/userstyles/state.db",
	FileExt:    ".css",
	CacheSize:  256,
	Env:        "prod",
	LogLevel:   "info",
	Watch:      false,
	DebounceMs: 250,
}

// validDotExt accepts an extension of the form ".css": a leading dot and at
// least one character that is not a separator or another dot.
func validDotExt(fl validator.FieldLevel) bool {
	ext := fl.Field().String()
	return len(ext) > 1 && strings.HasPrefix(ext, ".") && !strings.ContainsAny(ext[1:], "./\\")
}

// envLoader loads STYLES_-prefixed environment variables. Swappable for
// tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.ProviderWithValue("STYLES_", ".", func(key, value string) (string, any) {
		key = strings.ToLower(strings.TrimPrefix(key, "STYLES_"))
		return key, strings.TrimSpace(value)
	}), nil)
}

// fileLoader parses an optional configuration file, choosing the parser by
// extension. Swappable for tests.
var fileLoader = func(k *koanfv1.Koanf, path string) error {
	var parser koanfv1.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	case ".toml":
		parser = toml.Parser()
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return k.Load(file.Provider(path), parser)
}

// Load builds the configuration. path may be empty, in which case only
// defaults and the environment apply. Missing keys at each layer leave the
// previous layer's values untouched.
func Load(path string) (*AppConfig, error) {
	cfg := DefaultAppConfig

	if path != "" {
		k1 := koanfv1.New(".")
		if err := fileLoader(k1, path); err != nil {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
		if err := k1.Unmarshal("", &cfg); err != nil {
			return nil, fmt.Errorf("error unmarshalling config file: %w", err)
		}
	}

	k := koanf.New(".")
	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling env: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("dotext", validDotExt); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
