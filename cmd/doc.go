// Package cmd implements the command-line interface of techlog, a billable
// service log for IT interventions. It provides the interactive menu and
// one-shot commands operating on the same data file.
//
// The package is organized into several subpackages:
//
//   - shell: The interactive menu (default command) and the signal triggered save
//   - records: One-shot commands (add, list, find, edit, delete, summary, stats)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See techlog -help for a list of all commands.
package cmd
