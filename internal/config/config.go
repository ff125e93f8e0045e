package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"clipforge/internal/types"
)

type Config struct {
	Segments  SegmentsConfig  `yaml:"segments"`
	FFmpeg    FFmpegConfig    `yaml:"ffmpeg"`
	Overlay   OverlayConfig   `yaml:"overlay"`
	Whisper   WhisperConfig   `yaml:"whisper"`
	Providers ProvidersConfig `yaml:"providers"`
	Paths     PathsConfig     `yaml:"paths"`
	Logging   LoggingConfig   `yaml:"logging"`
	Watch     WatchConfig     `yaml:"watch"`
}

type SegmentsConfig struct {
	Count       int     `yaml:"count"`
	MinDuration float64 `yaml:"min_duration"`
	MaxDuration float64 `yaml:"max_duration"`
}

type FFmpegConfig struct {
	TargetWidth  int    `yaml:"target_width"`
	TargetHeight int    `yaml:"target_height"`
	FillColor    string `yaml:"fill_color"`
	Preset       string `yaml:"preset"`
	CRF          int    `yaml:"crf"`
	AudioBitrate string `yaml:"audio_bitrate"`
}

type OverlayConfig struct {
	FontPath         string  `yaml:"font_path"`
	FontSize         float64 `yaml:"font_size"`
	Padding          float64 `yaml:"padding"`
	MaxWidthFraction float64 `yaml:"max_width_fraction"`
	Position         string  `yaml:"position"`
}

type WhisperConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ModelPath  string `yaml:"model_path"`
	Language   string `yaml:"language"`
	Prompt     string `yaml:"prompt"`
}

// ProvidersConfig carries everything needed to construct the remote
// providers once at startup. API keys come from the environment exactly
// once (see cli); nothing re-reads the environment afterwards.
type ProvidersConfig struct {
	OpenAIAPIKey string `yaml:"-"`
	OpenAIModel  string `yaml:"openai_model"`

	OpenRouterAPIKey       string   `yaml:"-"`
	OpenRouterModel        string   `yaml:"openrouter_model"`
	OpenRouterBaseURL      string   `yaml:"openrouter_base_url"`
	OpenRouterAllowedHosts []string `yaml:"openrouter_allowed_hosts"`

	GeminiAPIKeys []string `yaml:"-"`
	GeminiModel   string   `yaml:"gemini_model"`
}

type PathsConfig struct {
	Output string `yaml:"output"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type WatchConfig struct {
	InputDir      string `yaml:"input_dir"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

// Load reads a yaml config file. A missing path returns the zero config so
// flags and defaults still apply.
func Load(path string) (Config, error) {
	var c Config
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.Segments.Count == 0 {
		c.Segments.Count = 3
	}
	if c.Segments.MinDuration == 0 {
		c.Segments.MinDuration = 15
	}
	if c.Segments.MaxDuration == 0 {
		c.Segments.MaxDuration = 60
	}
	if c.Segments.MinDuration > c.Segments.MaxDuration {
		return fmt.Errorf("segments.min_duration must be <= segments.max_duration")
	}

	if c.FFmpeg.TargetWidth == 0 {
		c.FFmpeg.TargetWidth = 1080
	}
	if c.FFmpeg.TargetHeight == 0 {
		c.FFmpeg.TargetHeight = 1920
	}
	if c.FFmpeg.FillColor == "" {
		c.FFmpeg.FillColor = "black"
	}
	if c.FFmpeg.Preset == "" {
		c.FFmpeg.Preset = "veryfast"
	}
	if c.FFmpeg.CRF == 0 {
		c.FFmpeg.CRF = 23
	}
	if c.FFmpeg.AudioBitrate == "" {
		c.FFmpeg.AudioBitrate = "128k"
	}

	if c.Overlay.FontPath == "" {
		c.Overlay.FontPath = "/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf"
	}
	if c.Overlay.FontSize == 0 {
		c.Overlay.FontSize = 56
	}
	if c.Overlay.Padding == 0 {
		c.Overlay.Padding = 24
	}
	if c.Overlay.MaxWidthFraction == 0 {
		c.Overlay.MaxWidthFraction = 0.9
	}
	if c.Overlay.MaxWidthFraction < 0 || c.Overlay.MaxWidthFraction > 1 {
		return fmt.Errorf("overlay.max_width_fraction must be in (0, 1]")
	}
	switch types.OverlayPosition(c.Overlay.Position) {
	case types.OverlayTop, types.OverlayBottom, types.OverlayCenter:
	case "":
		c.Overlay.Position = string(types.OverlayTop)
	default:
		return fmt.Errorf("overlay.position must be top, bottom or center")
	}

	if c.Paths.Output == "" {
		c.Paths.Output = "out"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Watch.MaxConcurrent == 0 {
		c.Watch.MaxConcurrent = 2
	}
	return nil
}
