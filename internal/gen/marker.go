package gen

import (
	"bytes"
	"fmt"
	"time"
)

// GeneratedPrefix starts the standard "Code generated" line.
const GeneratedPrefix = "// Code generated by "

// markerLines returns the two comment lines heading every unit. The second
// line is the only part of the output that depends on the clock.
func markerLines(cfg Config) []string {
	info := fmt.Sprintf("// %s %s", cfg.ToolName, cfg.Version)
	if now := cfg.now(); !now.IsZero() {
		info += " at " + now.UTC().Format(time.RFC3339)
	}

	info += " with " + cfg.GoVersion + "."

	return []string{
		GeneratedPrefix + cfg.ToolName + ". DO NOT EDIT.",
		info,
	}
}

// StripMarker removes the tool/version/timestamp line that follows the
// "Code generated" line, so two renderings can be compared regardless of
// when they were produced.
func StripMarker(src []byte) []byte {
	lines := bytes.SplitAfter(src, []byte("\n"))

	var out bytes.Buffer

	for i := 0; i < len(lines); i++ {
		out.Write(lines[i])

		if bytes.HasPrefix(lines[i], []byte(GeneratedPrefix)) && i+1 < len(lines) {
			i++ // drop the marker line
		}
	}

	return out.Bytes()
}

// IsGenerated reports whether src starts with a "Code generated" line
// written by the named tool.
func IsGenerated(src []byte, toolName string) bool {
	return bytes.HasPrefix(src, []byte(GeneratedPrefix+toolName+"."))
}
