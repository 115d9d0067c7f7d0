package cli

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"mapper-generator/internal/gen"
	"mapper-generator/internal/mapping"
)

// EnvPrefix prefixes every environment variable read by the CLI.
const EnvPrefix = "MAPPER"

// OmitTimestamp as generator.frozen_time leaves the timestamp out of the
// generation marker.
const OmitTimestamp = "omit"

// Settings are the CLI settings. Precedence, lowest first: defaults, the
// generator section of mapper.yaml, MAPPER_* environment variables, flags.
type Settings struct {
	Generator GeneratorSettings `mapstructure:"generator"`
	Verbose   bool              `mapstructure:"verbose"`
	JSONLogs  bool              `mapstructure:"json_logs"`
}

// GeneratorSettings configure the emitter.
type GeneratorSettings struct {
	ToolName   string `mapstructure:"tool_name"`
	Suffix     string `mapstructure:"suffix"`
	FileSuffix string `mapstructure:"file_suffix"`
	// FrozenTime is an RFC 3339 timestamp used instead of the wall clock,
	// or OmitTimestamp.
	FrozenTime string `mapstructure:"frozen_time"`
}

// SetDefaults registers the default value of every setting.
func SetDefaults(v *viper.Viper) {
	def := gen.DefaultConfig()

	v.SetDefault("generator.tool_name", def.ToolName)
	v.SetDefault("generator.suffix", def.Suffix)
	v.SetDefault("generator.file_suffix", def.FileSuffix)
	v.SetDefault("generator.frozen_time", "")
	v.SetDefault("verbose", false)
	v.SetDefault("json_logs", false)
}

// LoadSettings reads the settings. configPath may be empty; a missing file
// is then not an error. Flags that were not set on the command line do not
// override lower layers.
func LoadSettings(fs afero.Fs, configPath string, flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	v.SetFs(fs)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading settings from %s", configPath)
		}
	}

	if flags != nil {
		for key, name := range map[string]string{"verbose": "verbose", "json_logs": "json-logs"} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "binding flag %s", name)
				}
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "decoding settings")
	}

	return &s, nil
}

// EmitterConfig converts the generator settings into an emitter configuration.
func (s *Settings) EmitterConfig() (gen.Config, error) {
	cfg := gen.DefaultConfig()
	cfg.Version = Version

	if s.Generator.ToolName != "" {
		cfg.ToolName = s.Generator.ToolName
	}

	if s.Generator.Suffix != "" {
		cfg.Suffix = s.Generator.Suffix
	}

	if s.Generator.FileSuffix != "" {
		cfg.FileSuffix = s.Generator.FileSuffix
	}

	switch frozen := strings.TrimSpace(s.Generator.FrozenTime); frozen {
	case "":
	case OmitTimestamp:
		cfg.Now = nil
	default:
		t, err := time.Parse(time.RFC3339, frozen)
		if err != nil {
			return gen.Config{}, errors.WithHintf(errors.Wrap(err, "generator.frozen_time"),
				"use an RFC 3339 timestamp such as 2024-01-02T15:04:05Z, or %q", OmitTimestamp)
		}

		cfg.Now = gen.FrozenClock(t)
	}

	return cfg, nil
}

// loadOverrides reads the contract overrides of mapper.yaml.
func loadOverrides(fs afero.Fs, configPath string) (*mapping.File, error) {
	if configPath == "" {
		return nil, nil
	}

	return mapping.LoadFile(fs, configPath)
}
