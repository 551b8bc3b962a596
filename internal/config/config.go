// Package config loads application settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/cwbudde/vocal-transformer/dsp/core"
	"github.com/cwbudde/vocal-transformer/vocal"
)

// Config is the application configuration of the audio-processing commands.
type Config struct {
	SampleRate float64
	BlockSize  int
	Channels   int
	ListenAddr string
	Character  string
	Strength   float64
	StateFile  string
}

// Load reads .env (if present) and then the VT_* environment variables.
// Malformed numbers are reported as errors.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Println("config: no .env file found, using process environment")
	}

	cfg := &Config{
		ListenAddr: getEnv("VT_LISTEN_ADDR", ":8080"),
		Character:  getEnv("VT_CHARACTER", "Normal"),
		StateFile:  getEnv("VT_STATE_FILE", ""),
	}

	var err error
	if cfg.SampleRate, err = getFloat("VT_SAMPLE_RATE", 44100); err != nil {
		return nil, err
	}
	if cfg.BlockSize, err = getInt("VT_BLOCK_SIZE", 512); err != nil {
		return nil, err
	}
	if cfg.Channels, err = getInt("VT_CHANNELS", 2); err != nil {
		return nil, err
	}
	if cfg.Strength, err = getFloat("VT_STRENGTH", 1); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the pipeline depends on.
func (c *Config) Validate() error {
	if err := c.ProcessSpec().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if !vocal.SupportsLayout(c.Channels, c.Channels) {
		return fmt.Errorf("config: VT_CHANNELS must be 1 or 2: %d", c.Channels)
	}
	if _, err := vocal.ParseCharacter(c.Character); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// ProcessSpec returns the stream spec described by c.
func (c *Config) ProcessSpec() core.ProcessSpec {
	return core.ProcessSpec{
		SampleRate:   c.SampleRate,
		MaxBlockSize: c.BlockSize,
		NumChannels:  c.Channels,
	}
}

// Apply writes the configured character and strength into s.
func (c *Config) Apply(s *vocal.Store) error {
	ch, err := vocal.ParseCharacter(c.Character)
	if err != nil {
		return err
	}
	if err := s.SetCharacter(ch); err != nil {
		return err
	}
	return s.Set(vocal.ParamCharacterStrength, c.Strength)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getFloat(key string, fallback float64) (float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return v, nil
}

func getInt(key string, fallback int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return v, nil
}
