// Package config loads the classimpute run configuration from a JSON, YAML
// or TOML file, an optional .env file and CLASSIMPUTE_* environment
// variables, in that order of precedence.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"

	val "github.com/wdm0006/classimpute/pkg/transform/validate"
)

// EnvPrefix prefixes every environment override, e.g. CLASSIMPUTE_TARGET or
// CLASSIMPUTE_IMPUTE_POLICY. Fields carry no envconfig tags so that no
// unprefixed variable such as PATH is ever consulted.
const EnvPrefix = "CLASSIMPUTE"

type Config struct {
	Input  InputConfig  `json:"input" yaml:"input" toml:"input"`
	Output OutputConfig `json:"output" yaml:"output" toml:"output"`
	// Target is the class column; a command-line flag may supply it instead.
	Target  string        `json:"target" yaml:"target" toml:"target"`
	Impute  ImputeConfig  `json:"impute" yaml:"impute" toml:"impute"`
	Report  string        `json:"report" yaml:"report" toml:"report" validate:"omitempty,oneof=text json none"`
	Logging LoggingConfig `json:"logging" yaml:"logging" toml:"logging"`
	Server  ServerConfig  `json:"server" yaml:"server" toml:"server"`
	// Steps run before imputation; each entry holds exactly one step name.
	Steps []Step `json:"steps" yaml:"steps" toml:"steps" ignored:"true" validate:"dive,len=1"`
}

type InputConfig struct {
	Path       string   `json:"path" yaml:"path" toml:"path"`
	Type       string   `json:"type" yaml:"type" toml:"type" validate:"omitempty,oneof=csv tsv jsonl ndjson json parquet xlsx excel"`
	NoHeader   bool     `json:"no_header" yaml:"no_header" toml:"no_header" split_words:"true"`
	Delimiter  string   `json:"delimiter" yaml:"delimiter" toml:"delimiter" validate:"omitempty,len=1"`
	NullValues []string `json:"null_values" yaml:"null_values" toml:"null_values" split_words:"true"`
	ParseTimes bool     `json:"parse_times" yaml:"parse_times" toml:"parse_times" split_words:"true"`
	Sheet      string   `json:"sheet" yaml:"sheet" toml:"sheet"`
}

type OutputConfig struct {
	Path string `json:"path" yaml:"path" toml:"path"`
	Type string `json:"type" yaml:"type" toml:"type" validate:"omitempty,oneof=csv tsv jsonl ndjson json parquet xlsx excel"`
}

type ImputeConfig struct {
	Placeholder string `json:"placeholder" yaml:"placeholder" toml:"placeholder"`
	Policy      string `json:"policy" yaml:"policy" toml:"policy" validate:"omitempty,oneof=leave_null error"`
	Strategy    string `json:"strategy" yaml:"strategy" toml:"strategy" validate:"omitempty,oneof=median mean"`
}

type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" toml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `json:"format" yaml:"format" toml:"format" validate:"omitempty,oneof=json console"`
}

type ServerConfig struct {
	Addr         string `json:"addr" yaml:"addr" toml:"addr"`
	MaxBodyBytes int64  `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes" split_words:"true" validate:"gte=0"`
}

// Default returns the settings used when neither file nor environment say
// otherwise.
func Default() *Config {
	return &Config{
		Report:  "text",
		Impute:  ImputeConfig{Placeholder: "Unknown", Policy: "leave_null", Strategy: "median"},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Server:  ServerConfig{Addr: ":8080", MaxBodyBytes: 32 << 20},
	}
}

// Load builds a Config from defaults, then path (skipped when empty), then
// the .env files (missing ones are ignored), then the environment. The
// result is validated.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, ef := range envFiles {
		// godotenv never overrides variables that are already set
		if err := godotenv.Load(ef); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("env file %s: %w", ef, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("config from env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, cfg)
	case ".toml":
		return toml.Unmarshal(b, cfg)
	case ".json", "":
		return json.Unmarshal(b, cfg)
	default:
		return fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
	}
}

var validate = validator.New()

// Validate checks field values and that every step is known.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	for i, st := range c.Steps {
		for name, args := range st {
			if _, ok := stepBuilders[name]; !ok {
				return fmt.Errorf("invalid config: step %d: unknown step %q", i+1, name)
			}
			if _, err := val.ParseAction(args.Action); err != nil {
				return fmt.Errorf("invalid config: step %d (%s): %w", i+1, name, err)
			}
			if args.LowerQuantile < 0 || args.LowerQuantile >= 1 || args.UpperQuantile < 0 || args.UpperQuantile >= 1 {
				return fmt.Errorf("invalid config: step %d (%s): quantiles must be in [0, 1)", i+1, name)
			}
		}
	}
	return nil
}
