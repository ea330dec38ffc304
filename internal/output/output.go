// Package output renders CLI results as YAML, JSON or a plain text listing.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Format defines the output format for CLI commands.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// DefaultFormat is the default output format.
var DefaultFormat Format = FormatYAML

// globalFormat is set by the root command's --output flag.
var globalFormat Format = FormatYAML

// SetFormat sets the global output format. Unknown names fall back to
// DefaultFormat.
func SetFormat(format string) {
	switch Format(format) {
	case FormatJSON, FormatYAML, FormatText:
		globalFormat = Format(format)
	default:
		globalFormat = DefaultFormat
	}
}

// GetFormat returns the current global output format.
func GetFormat() Format {
	return globalFormat
}

// Output writes data to stdout in the configured format.
func Output(data any) error {
	return To(os.Stdout, globalFormat, data)
}

// Texter is implemented by values with a human-readable rendering.
type Texter interface {
	WriteText(w io.Writer) error
}

// To writes data to the given writer in the specified format. FormatText
// uses the value's Texter implementation and falls back to YAML.
func To(w io.Writer, format Format, data any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	case FormatText:
		if t, ok := data.(Texter); ok {
			return t.WriteText(w)
		}
		return To(w, FormatYAML, data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
