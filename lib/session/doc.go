// Package session ties a record store to its persistence engine and exposes
// the operations offered to the user: adding hardware and software records,
// listing with a grand total, finding, editing and deleting by id, flushing
// to disk and a billing summary.
//
// A Session is the single context object of a techlog process. It is created
// once with New, filled from disk with Open and passed to every front end
// (interactive shell, one-shot commands, signal handler).
//
// Thread Safety:
//
//	All methods are safe for concurrent use. The signal handler may call Flush
//	while the shell runs another operation.
package session
