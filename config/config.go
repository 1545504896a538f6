package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultStreamURL is the realtime recognition endpoint.
	DefaultStreamURL = "wss://stt-rt.soniox.com/transcribe-websocket"

	defaultModel = "stt-rt-v3"

	defaultContext = "This is a casual family conversation between people who " +
		"speak different languages. The conversation may include family matters, " +
		"daily life topics, stories, jokes, and personal anecdotes."
)

type Config struct {
	Session   SessionConfig   `toml:"session"`
	Languages LanguagesConfig `toml:"languages"`
	UI        UIConfig        `toml:"ui"`
	Stream    StreamConfig    `toml:"stream"`
}

type SessionConfig struct {
	BaseDir string `toml:"base_dir"` // "" = directory of the executable's cwd
}

// LanguagesConfig drives both the recognizer hints and speaker
// classification. The reference pair is the two languages a speaker is
// classified against; it is configuration, not a hardcoded pair.
type LanguagesConfig struct {
	Target             string   `toml:"target"`
	Sources            []string `toml:"sources"`
	ReferencePrimary   string   `toml:"reference_primary"`
	ReferenceSecondary string   `toml:"reference_secondary"`
}

type UIConfig struct {
	PageSize  int `toml:"page_size"`
	LiveLines int `toml:"live_lines"`
}

type StreamConfig struct {
	URL     string `toml:"url"`
	Model   string `toml:"model"`
	Context string `toml:"context"`
}

func Default() Config {
	return Config{
		Languages: LanguagesConfig{
			Target:             "en",
			Sources:            []string{"en", "zh", "he", "ca"},
			ReferencePrimary:   "en",
			ReferenceSecondary: "zh",
		},
		UI: UIConfig{
			PageSize:  20,
			LiveLines: 24,
		},
		Stream: StreamConfig{
			URL:     DefaultStreamURL,
			Model:   defaultModel,
			Context: defaultContext,
		},
	}
}

// Load reads a TOML file over the defaults, so partial files work.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("loading config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Languages.Target == "" {
		return fmt.Errorf("languages.target must be set")
	}
	if c.Languages.ReferencePrimary == c.Languages.ReferenceSecondary {
		return fmt.Errorf("reference languages must differ (got %q twice)", c.Languages.ReferencePrimary)
	}
	if c.UI.PageSize < 1 {
		return fmt.Errorf("ui.page_size must be positive")
	}
	return nil
}
