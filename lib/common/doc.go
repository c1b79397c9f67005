// Package common provides the configuration structure and the logging setup
// shared by all techlog packages.
//
// Key Components:
//
//   - Config: runtime settings of a techlog process (codec, log level) plus
//     the fixed data file locations for display. Validate checks the values,
//     String renders a readable dump.
//
//   - Logger: packages obtain loggers through the dragonboat logger facade
//     (logger.GetLogger("persist"), ...). InitLoggers installs a factory whose
//     loggers write through zap to stderr and applies the configured level.
//     Stdout is reserved for the menu and command output.
package common
