package cli

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const settingsYAML = `version: "1"
generator:
  suffix: Mapper
  file_suffix: .mapper.go
  frozen_time: "2024-05-01T12:00:00Z"
verbose: true
contracts:
  - contract: PersonMapper
    strict: true
`

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings(afero.NewMemMapFs(), "", nil)
	require.NoError(t, err)

	assert.Equal(t, "mapper-generator", s.Generator.ToolName)
	assert.Equal(t, "Impl", s.Generator.Suffix)
	assert.Equal(t, "_gen.go", s.Generator.FileSuffix)
	assert.Empty(t, s.Generator.FrozenTime)
	assert.False(t, s.Verbose)
	assert.False(t, s.JSONLogs)
}

func TestLoadSettings_File(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/proj/mapper.yaml", []byte(settingsYAML), 0o644))

	s, err := LoadSettings(fs, "/proj/mapper.yaml", nil)
	require.NoError(t, err)

	assert.Equal(t, "Mapper", s.Generator.Suffix)
	assert.Equal(t, ".mapper.go", s.Generator.FileSuffix)
	assert.Equal(t, "mapper-generator", s.Generator.ToolName)
	assert.True(t, s.Verbose)
}

func TestLoadSettings_MissingExplicitFile(t *testing.T) {
	_, err := LoadSettings(afero.NewMemMapFs(), "/nowhere/mapper.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/nowhere/mapper.yaml")
}

func TestLoadSettings_EnvOverridesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/proj/mapper.yaml", []byte(settingsYAML), 0o644))

	t.Setenv("MAPPER_GENERATOR_SUFFIX", "Converter")
	t.Setenv("MAPPER_JSON_LOGS", "true")

	s, err := LoadSettings(fs, "/proj/mapper.yaml", nil)
	require.NoError(t, err)

	assert.Equal(t, "Converter", s.Generator.Suffix)
	assert.Equal(t, ".mapper.go", s.Generator.FileSuffix)
	assert.True(t, s.JSONLogs)
}

func TestLoadSettings_FlagsOverrideEverything(t *testing.T) {
	t.Setenv("MAPPER_VERBOSE", "false")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("verbose", false, "")
	flags.Bool("json-logs", false, "")
	require.NoError(t, flags.Parse([]string{"--verbose"}))

	s, err := LoadSettings(afero.NewMemMapFs(), "", flags)
	require.NoError(t, err)

	assert.True(t, s.Verbose)
	assert.False(t, s.JSONLogs)
}

func TestSettings_EmitterConfig(t *testing.T) {
	tests := []struct {
		name       string
		generator  GeneratorSettings
		wantSuffix string
		wantNow    time.Time
		wantNilNow bool
		wantErr    bool
	}{
		{
			name:       "frozen clock",
			generator:  GeneratorSettings{Suffix: "Impl", FrozenTime: "2024-05-01T12:00:00Z"},
			wantSuffix: "Impl",
			wantNow:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:       "omitted timestamp",
			generator:  GeneratorSettings{Suffix: "Mapper", FrozenTime: OmitTimestamp},
			wantSuffix: "Mapper",
			wantNilNow: true,
		},
		{
			name:      "invalid timestamp",
			generator: GeneratorSettings{FrozenTime: "yesterday"},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Settings{Generator: tt.generator}

			cfg, err := s.EmitterConfig()
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSuffix, cfg.Suffix)
			assert.Equal(t, Version, cfg.Version)
			assert.Equal(t, "mapper-generator", cfg.ToolName)
			assert.Equal(t, "_gen.go", cfg.FileSuffix)

			if tt.wantNilNow {
				assert.Nil(t, cfg.Now)
				return
			}

			require.NotNil(t, cfg.Now)
			assert.True(t, tt.wantNow.Equal(cfg.Now()))
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/proj/mapper.yaml", []byte(settingsYAML), 0o644))

	f, err := loadOverrides(fs, "/proj/mapper.yaml")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, []string{"PersonMapper"}, f.ContractNames())

	none, err := loadOverrides(fs, "")
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, afero.WriteFile(fs, "/proj/bad.yaml", []byte("version: \"2\"\n"), 0o644))
	_, err = loadOverrides(fs, "/proj/bad.yaml")
	require.Error(t, err)
}
