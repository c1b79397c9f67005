package common

import (
	"fmt"
	"strings"
)

// Supported codec names
const (
	CodecJSON    = "json"
	CodecYAML    = "yaml"
	CodecBinary  = "binary"
	CodecMsgpack = "msgpack"
)

// Config holds the runtime configuration of a techlog process.
type Config struct {
	// Codec is the encoding used when saving (json, yaml, binary, msgpack).
	// Loading detects the encoding of the file, whatever this is set to.
	Codec string

	// LogLevel is the level at which logs will be output (debug, info, warn, error)
	LogLevel string

	// Data file locations. These are fixed and only part of the config for display.
	DataFile string
	TempFile string
}

// Validate checks the configured values.
func (c *Config) Validate() error {
	switch c.Codec {
	case CodecJSON, CodecYAML, CodecBinary, CodecMsgpack:
	default:
		return fmt.Errorf("invalid codec %q (expected one of: %s, %s, %s, %s)", c.Codec, CodecJSON, CodecYAML, CodecBinary, CodecMsgpack)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// String returns a formatted string representation of the configuration
func (c *Config) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Storage")
	addField("Data File", c.DataFile)
	addField("Temp File", c.TempFile)
	addField("Codec", c.Codec)

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}
