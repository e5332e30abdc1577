package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kozaktomas/batch-collage/internal/constants"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Collage  CollageConfig
	Web      WebConfig
	AI       AIConfig
	OpenAI   OpenAIConfig
	Gemini   GeminiConfig
	Ollama   OllamaConfig
	LlamaCpp LlamaCppConfig
	Log      LogConfig
	Theme    ThemeDefaults
}

type CollageConfig struct {
	CanvasSize        int
	Settings          Settings
	Presets           []int
	DecodeConcurrency int
}

type WebConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string // extra CORS origins, localhost is always allowed
}

type AIConfig struct {
	Provider string // gemini, openai, ollama, llamacpp or empty for none
	Timeout  time.Duration
}

type OpenAIConfig struct {
	Token string
	Model string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OllamaConfig struct {
	URL   string // defaults to http://localhost:11434
	Model string
}

type LlamaCppConfig struct {
	URL   string // defaults to http://localhost:8080
	Model string // defaults to llava
}

type LogConfig struct {
	Level string
}

// ThemeResult is a theme suggestion as stored in the defaults file.
type ThemeResult struct {
	Title        string   `yaml:"title"`
	Theme        string   `yaml:"theme"`
	Vibe         string   `yaml:"vibe"`
	ColorPalette []string `yaml:"color_palette"`
}

// ThemeDefaults are the suggestions used when analysis fails (Fallback) or
// returns incomplete fields (Partial).
type ThemeDefaults struct {
	Fallback ThemeResult `yaml:"fallback"`
	Partial  ThemeResult `yaml:"partial"`
}

type defaultsFile struct {
	CanvasSize int      `yaml:"canvas_size"`
	Settings   Settings `yaml:"settings"`
	Presets    []int    `yaml:"presets"`
	Models     struct {
		OpenAI string `yaml:"openai"`
		Gemini string `yaml:"gemini"`
		Ollama string `yaml:"ollama"`
	} `yaml:"models"`
	Theme ThemeDefaults `yaml:"theme"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envNonNegativeInt is envInt that also accepts zero.
func envNonNegativeInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envList splits a comma-separated variable, dropping empty entries.
func envList(key string) []string {
	var out []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseDefaults() defaultsFile {
	var defaults defaultsFile
	if err := yaml.Unmarshal(defaultsYAML, &defaults); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}
	return defaults
}

// DefaultTheme returns the built-in theme suggestions.
func DefaultTheme() ThemeDefaults {
	return parseDefaults().Theme
}

func Load() *Config {
	defaults := parseDefaults()

	return &Config{
		Collage: CollageConfig{
			CanvasSize: envInt("COLLAGE_CANVAS_SIZE", defaults.CanvasSize),
			Settings: Settings{
				FrameSize:        envNonNegativeInt("COLLAGE_FRAME_SIZE", defaults.Settings.FrameSize),
				PhotosPerCollage: envInt("COLLAGE_PHOTOS_PER_COLLAGE", defaults.Settings.PhotosPerCollage),
				ShowFilenames:    envBool("COLLAGE_SHOW_FILENAMES", defaults.Settings.ShowFilenames),
			},
			Presets:           defaults.Presets,
			DecodeConcurrency: envInt("DECODE_CONCURRENCY", constants.DefaultConcurrency),
		},
		Web: WebConfig{
			Host: envString("WEB_HOST", "0.0.0.0"),
			Port: envInt("WEB_PORT", 8080),

			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
		},
		AI: AIConfig{
			Provider: strings.ToLower(os.Getenv("AI_PROVIDER")),
			Timeout:  time.Duration(envInt("AI_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		OpenAI: OpenAIConfig{
			Token: os.Getenv("OPENAI_TOKEN"),
			Model: envString("OPENAI_MODEL", defaults.Models.OpenAI),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  envString("GEMINI_MODEL", defaults.Models.Gemini),
		},
		Ollama: OllamaConfig{
			URL:   os.Getenv("OLLAMA_URL"),
			Model: envString("OLLAMA_MODEL", defaults.Models.Ollama),
		},
		LlamaCpp: LlamaCppConfig{
			URL:   os.Getenv("LLAMACPP_URL"),
			Model: os.Getenv("LLAMACPP_MODEL"),
		},
		Log: LogConfig{
			Level: envString("LOG_LEVEL", "info"),
		},
		Theme: defaults.Theme,
	}
}

// fileConfig is the shape of a user settings file passed with --config.
type fileConfig struct {
	CanvasSize *int           `yaml:"canvas_size"`
	Settings   *SettingsPatch `yaml:"settings"`
	Presets    []int          `yaml:"presets"`
}

// ApplyFile overlays a YAML settings file onto the configuration. The
// resulting settings must be valid.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.CanvasSize != nil {
		if *fc.CanvasSize <= 0 {
			return fmt.Errorf("%w: canvas size %d must be positive", ErrInvalidSettings, *fc.CanvasSize)
		}
		c.Collage.CanvasSize = *fc.CanvasSize
	}
	if fc.Settings != nil {
		settings := fc.Settings.Apply(c.Collage.Settings)
		if err := settings.Validate(); err != nil {
			return err
		}
		c.Collage.Settings = settings
	}
	if len(fc.Presets) > 0 {
		c.Collage.Presets = fc.Presets
	}
	return nil
}

// SlogLevel parses the configured log level, defaulting to info.
func (c *LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
