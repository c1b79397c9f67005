// Package persist implements the durable save and load of a techlog record
// sequence.
//
// A save always rewrites the whole file. The encoded sequence is written to
// a temporary file next to the target, synced, closed and then renamed over
// the target, so a reader only ever sees the previous file or the new one.
// If any step fails the temporary file is removed and the target is left
// untouched.
//
// Load is tolerant: a missing file is a first run, an unreadable or invalid
// file produces an empty sequence plus a warning. Load never writes.
//
// All file access goes through an afero.Fs, which allows the engine to be
// tested on an in-memory filesystem with injected faults.
package persist
