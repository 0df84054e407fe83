package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Contact is an entry from the user's address book, used by messaging intents.
type Contact struct {
	Name  string `yaml:"name"`
	Phone string `yaml:"phone"`
	Email string `yaml:"email"`
}

// ListenConfig tunes the microphone capture loop.
type ListenConfig struct {
	SilenceRMS     float64 `yaml:"silence_rms"`
	SilenceMs      int     `yaml:"silence_ms"`
	MaxSeconds     int     `yaml:"max_seconds"`
	WhisperModel   string  `yaml:"whisper_model"`
	Language       string  `yaml:"language"`
	TranscribeSecs int     `yaml:"transcribe_timeout_seconds"`
}

// WebConfig enables the out-of-band command endpoint when Addr is set.
type WebConfig struct {
	Addr  string `yaml:"addr"`
	Token string `yaml:"token"`
}

// ModelConfig names the completion model used per backend.
type ModelConfig struct {
	GPT        string `yaml:"gpt"`
	Gemini     string `yaml:"gemini"`
	OpenRouter string `yaml:"openrouter"`
	Mistral    string `yaml:"mistral"`
}

// Config is the daemon settings file. Credentials never live here; they come
// from the environment (see Keys).
type Config struct {
	WakeWord          string       `yaml:"wake_word"`
	SleepTimeout      int          `yaml:"sleep_timeout"`
	AccessibilityMode bool         `yaml:"accessibility_mode"`
	VoiceRate         int          `yaml:"voice_rate"`
	VoiceVolume       float64      `yaml:"voice_volume"`
	PreferredAIModel  string       `yaml:"preferred_ai_model"`
	UserName          string       `yaml:"user_name"`
	Honorific         string       `yaml:"honorific"`
	DataFile          string       `yaml:"data_file"`
	CuePath           string       `yaml:"cue_path"`
	SocksProxy        string       `yaml:"socks_proxy"`
	Listen            ListenConfig `yaml:"listen"`
	Web               WebConfig    `yaml:"web"`
	Models            ModelConfig  `yaml:"models"`
	Contacts          []Contact    `yaml:"contacts"`
}

// Keys holds backend credentials read from the environment.
type Keys struct {
	OpenAI     string
	Gemini     string
	OpenRouter string
	Mistral    string
}

func defaults() *Config {
	return &Config{
		WakeWord:         "jarvis",
		SleepTimeout:     0,
		VoiceRate:        170,
		VoiceVolume:      1.0,
		PreferredAIModel: "openrouter",
		UserName:         "User",
		Honorific:        "Sir",
		DataFile:         "assistant_data.json",
		CuePath:          "beep.mp3",
		Listen: ListenConfig{
			SilenceRMS:     0.015,
			SilenceMs:      600,
			MaxSeconds:     10,
			WhisperModel:   "models/ggml-base.en.bin",
			Language:       "auto",
			TranscribeSecs: 60,
		},
		Models: ModelConfig{
			GPT:        "gpt-3.5-turbo",
			Gemini:     "gemini-1.5-flash",
			OpenRouter: "nvidia/nemotron-nano-9b-v2:free",
			Mistral:    "mistralai/mistral-7b-instruct:free",
		},
	}
}

// Load reads the YAML settings file. A missing file is not an error: defaults
// apply. A present but unreadable file is fatal to the caller.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.WakeWord == "" {
		return nil, fmt.Errorf("config: wake_word must not be empty")
	}

	return cfg, nil
}

// LoadKeys pulls backend credentials from the environment. Missing keys are
// fine; the matching backend just reports itself unconfigured.
func LoadKeys() Keys {
	k := Keys{
		OpenAI:     os.Getenv("OPENAI_API_KEY"),
		Gemini:     os.Getenv("GEMINI_API_KEY"),
		OpenRouter: os.Getenv("OPENROUTER_API_KEY"),
		Mistral:    os.Getenv("MISTRAL_API_KEY"),
	}
	if k.Mistral == "" {
		// The reference setup routes mistral through the same gateway.
		k.Mistral = k.OpenRouter
	}
	return k
}

// SleepAfter returns the idle interval after which the assistant drops back to
// dormant, or zero when disabled.
func (c *Config) SleepAfter() time.Duration {
	if c.SleepTimeout <= 0 {
		return 0
	}
	return time.Duration(c.SleepTimeout) * time.Second
}

// FindContact resolves a spoken name against the address book.
func (c *Config) FindContact(name string) (Contact, bool) {
	for _, ct := range c.Contacts {
		if strings.EqualFold(ct.Name, name) {
			return ct, true
		}
	}
	return Contact{}, false
}
