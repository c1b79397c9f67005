package store

import (
	"errors"
	"fmt"

	"github.com/ValentinKolb/techlog/lib/record"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Factory is a function type that creates a new, empty store.
// This is used to abstract the creation of the store from its users.
type Factory func() IStore

// IStore is the interface for the ordered in-memory record collection.
// Records are kept in insertion order. The store owns its records: values
// passed in are copied and values handed out are copies.
// All failing operations return a *Error.
type IStore interface {
	// Add appends a record. Ids are unique under case-insensitive comparison,
	// adding a record whose id is already present fails with RetCDuplicateID.
	Add(r record.Record) (err error)
	// FindByID returns the first record whose id matches case-insensitively.
	// An empty id fails with RetCInvalidArgument, a miss with RetCNotFound.
	FindByID(id string) (r record.Record, err error)
	// Remove deletes the first record whose id matches. Same errors as FindByID.
	Remove(id string) (err error)
	// Update applies fn to the stored record with the given id. If fn fails or the
	// record would end up with the id of another record, the stored record is left unchanged.
	Update(id string, fn func(r record.Record) error) (err error)
	// ListAll returns a snapshot of all records in insertion order.
	// Modifying the returned records does not affect the store.
	ListAll() (records []record.Record)
	// Len returns the number of stored records.
	Len() (n int)
	// Reset replaces the whole content of the store. The content is left
	// unchanged if records contains nil entries or duplicate ids.
	Reset(records []record.Record) (err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode),
// the id the operation was about (if any) and an error message.
type Error struct {
	Code RetCode // The return code
	ID   string  // The offending id
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("StoreError (code %s): %s", e.Code, e.Msg)
}

// Is matches sentinel errors by return code, so errors.Is(err, store.ErrNotFound) works for any id.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewError creates a new StoreError with the given code and message.
func NewError(code RetCode, id string, msg string) *Error {
	return &Error{
		Code: code,
		ID:   id,
		Msg:  msg,
	}
}

// NotFound creates the error returned when no record has the given id.
func NotFound(id string) *Error {
	return NewError(RetCNotFound, id, fmt.Sprintf("no record found with id %s", id))
}

// DuplicateID creates the error returned when an id is already taken.
func DuplicateID(id string) *Error {
	return NewError(RetCDuplicateID, id, fmt.Sprintf("a record with id %s already exists", id))
}

// InvalidArgument creates the error returned when a precondition is violated.
func InvalidArgument(msg string) *Error {
	return NewError(RetCInvalidArgument, "", msg)
}

// Sentinels for errors.Is
var (
	ErrNotFound        = &Error{Code: RetCNotFound}
	ErrDuplicateID     = &Error{Code: RetCDuplicateID}
	ErrInvalidArgument = &Error{Code: RetCInvalidArgument}
)

// IsNotFound reports whether err is a not-found error and returns the id that was looked up.
func IsNotFound(err error) (id string, ok bool) {
	var e *Error
	if errors.As(err, &e) && e.Code == RetCNotFound {
		return e.ID, true
	}
	return "", false
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess         RetCode = iota // 0: Operation executed successfully.
	RetCInternalError                  // 1: Operation failed due to an internal error.
	RetCInvalidArgument                // 2: A precondition on the arguments was violated.
	RetCNotFound                       // 3: No record with the requested id.
	RetCDuplicateID                    // 4: The id is already used by another record.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCInvalidArgument:
		return "InvalidArgument"
	case RetCNotFound:
		return "NotFound"
	case RetCDuplicateID:
		return "DuplicateID"
	default:
		return "Unknown"
	}
}
