package gen

import (
	"runtime"
	"time"
)

// Config holds configuration for code generation.
type Config struct {
	// ToolName is written in the generation marker.
	ToolName string
	// Version is the tool version written in the generation marker.
	Version string
	// GoVersion is the toolchain version written in the generation marker.
	GoVersion string
	// Suffix is appended to the contract name to name the implementation.
	Suffix string
	// FileSuffix is appended to the snake-case contract name to name the file.
	FileSuffix string
	// Now returns the generation time. A nil func or a zero time omits the
	// timestamp from the marker.
	Now func() time.Time
}

// DefaultConfig returns the default generator configuration.
func DefaultConfig() Config {
	return Config{
		ToolName:   "mapper-generator",
		Version:    "dev",
		GoVersion:  runtime.Version(),
		Suffix:     "Impl",
		FileSuffix: "_gen.go",
		Now:        time.Now,
	}
}

// FrozenClock returns a clock that always reports t.
func FrozenClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func (c Config) now() time.Time {
	if c.Now == nil {
		return time.Time{}
	}

	return c.Now()
}
