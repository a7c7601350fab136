package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/saint0x/ggreadme/pkg/ai"
	gh "github.com/saint0x/ggreadme/pkg/github"
)

// DefaultOut is the README path written when --out is not given
const DefaultOut = "README.md"

// Environment holds the resolved run configuration
type Environment struct {
	GitHubToken       string  `toml:"-"`
	GoogleAPIKey      string  `toml:"-"`
	Model             string  `toml:"model"`
	Out               string  `toml:"out"`
	GitHubAPI         string  `toml:"github_api"`
	GeminiAPI         string  `toml:"gemini_api"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Debug             bool    `toml:"debug"`
}

// Default returns the built-in configuration
func Default() *Environment {
	return &Environment{
		Model:             ai.DefaultModel,
		Out:               DefaultOut,
		RequestsPerSecond: gh.DefaultRequestsPerSecond,
	}
}

// DefaultPath returns ~/.config/ggreadme/config.toml (or the platform equivalent)
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "ggreadme", "config.toml")
}

// Load builds the configuration from defaults, the TOML file, a .env file
// in the working directory and the process environment, in increasing
// precedence. An explicit path must exist; the default path is optional.
func Load(path string) (*Environment, error) {
	env := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if err := loadFile(path, env); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	// Variables already set in the environment win over .env.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := applyEnv(env); err != nil {
		return nil, err
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}
	return env, nil
}

func loadFile(path string, env *Environment) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := toml.Unmarshal(data, env); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func applyEnv(env *Environment) error {
	env.GitHubToken = os.Getenv("GITHUB_TOKEN")
	env.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")

	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		env.Model = v
	}
	if v := os.Getenv("GGREADME_GITHUB_API"); v != "" {
		env.GitHubAPI = v
	}
	if v := os.Getenv("GGREADME_GEMINI_API"); v != "" {
		env.GeminiAPI = v
	}
	if v := os.Getenv("DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DEBUG value %q: %w", v, err)
		}
		env.Debug = debug
	}
	return nil
}

// Validate checks values that cannot be used as-is
func (e *Environment) Validate() error {
	if e.Out == "" {
		return fmt.Errorf("output path is empty")
	}
	if e.Model == "" {
		return fmt.Errorf("model is empty")
	}
	if e.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative, got %v", e.RequestsPerSecond)
	}
	return nil
}
