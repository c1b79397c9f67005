// Package record defines the billable service events tracked by techlog.
//
// A Record is one logged intervention for a client on a given calendar date.
// The set of variants is closed:
//
//   - Hardware: physical repair work, carries the replaced part. Billed at a
//     fixed hourly rate plus a travel surcharge.
//   - Software: OS or application work, carries the operating system. Billed
//     at a base rate, raised by 40% when the operating system is a server OS.
//
// Invariants:
//
//   - Every string field is non-empty and the date is set. Constructors and
//     setters return a *ValidationError instead of producing an invalid record,
//     and a failed setter leaves the record unchanged.
//   - Identity is the id compared case-insensitively (see SameID). Records are
//     never compared structurally.
//   - Tariff is an exact decimal computed from the current field values. It is
//     never rounded; rounding to two places happens only in String().
//
// Records handed out by a store are copies (see Clone), so mutating a record
// obtained from a listing never changes stored state.
package record
