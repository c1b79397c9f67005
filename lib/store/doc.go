// Package store provides the in-memory collection of service records used by
// techlog. It defines the IStore interface together with a structured error
// type, and is implemented by the lstore package.
//
// The package focuses on:
//   - An ordered collection: records keep their insertion order, nothing is
//     re-sorted or silently de-duplicated.
//   - Identity by id: lookups and removals compare ids case-insensitively
//     (record.SameID), so "ab12cd34" finds a record added as "AB12CD34".
//   - Ownership: the store keeps its own copies. Callers read snapshots and
//     change stored records only through Update, which re-validates.
//
// Key Components:
//
//   - IStore Interface: Add, FindByID, Remove, Update, ListAll, Len and Reset.
//     Reset is used when a persisted snapshot is loaded at startup.
//
//   - Error System: every failure is a *Error carrying a RetCode and, for
//     lookups, the offending id. Errors can be matched with errors.Is against
//     ErrNotFound, ErrDuplicateID and ErrInvalidArgument, or inspected with
//     IsNotFound to get the id for display.
//
//   - Factory: a function type creating empty stores, used by the
//     conformance suite in the testing sub package.
//
// Uniqueness: adding or renaming to an id that is already present (ignoring
// case) is rejected with RetCDuplicateID. With ids generated from random UUIDs
// this only fires on a real collision, which callers resolve by generating a
// new id.
package store
