package config

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Version    int              `toml:"version"`
	Gesture    GestureConfig    `toml:"gesture"`
	Animation  AnimationConfig  `toml:"animation"`
	Pagination PaginationConfig `toml:"pagination"`
	Zoom       float64          `toml:"zoom"`
}

// GestureConfig tunes hover tracking and long-press recognition.
type GestureConfig struct {
	LongPressMs    int     `toml:"long_press_ms"`
	MoveCancelPx   float64 `toml:"move_cancel_px"`
	LeavePaddingPx float64 `toml:"leave_padding_px"`
	FocusPollMs    int     `toml:"focus_poll_ms"`  // containment-poll fallback, 0 uses events only
	BlurCancelPx   float64 `toml:"blur_cancel_px"` // pointer distance past the surface that cancels on blur
}

// AnimationConfig tunes the post-move shrink/grow sequence.
type AnimationConfig struct {
	ShrinkMs         int     `toml:"shrink_ms"`
	GrowMs           int     `toml:"grow_ms"`
	CeilingMs        int     `toml:"ceiling_ms"`
	FallbackHeightPx float64 `toml:"fallback_height_px"`
}

// PaginationConfig describes the paginated layout geometry. All heights are
// unscaled document units.
type PaginationConfig struct {
	Enabled      bool    `toml:"enabled"`
	PageHeight   float64 `toml:"page_height"`
	HeaderHeight float64 `toml:"header_height"`
	FooterHeight float64 `toml:"footer_height"`
	GapHeight    float64 `toml:"gap_height"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a new config service
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	draglineDir := filepath.Join(configDir, "dragline")
	os.MkdirAll(draglineDir, 0755)

	return &configService{
		filePath: filepath.Join(draglineDir, "dragline.toml"),
	}
}

// Load loads the configuration from file
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		// Return default config if file doesn't exist
		return DefaultConfig(), nil
	}
	return cs.LoadFromPath(cs.filePath)
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse over defaults so omitted keys keep their built-in values.
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Gesture: GestureConfig{
			LongPressMs:    400,
			MoveCancelPx:   10,
			LeavePaddingPx: 24,
			FocusPollMs:    0,
			BlurCancelPx:   40,
		},
		Animation: AnimationConfig{
			ShrinkMs:         300,
			GrowMs:           400,
			CeilingMs:        1000,
			FallbackHeightPx: 24,
		},
		Pagination: PaginationConfig{
			Enabled:      false,
			PageHeight:   1056,
			HeaderHeight: 64,
			FooterHeight: 64,
			GapHeight:    24,
		},
		Zoom: 1.0,
	}
}
