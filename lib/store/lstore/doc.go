// Package lstore implements the local, in-memory, single-process record store
// based on the store.IStore interface. Records are held in a slice in
// insertion order and lookups are case-insensitive linear scans.
//
// Key Features:
//   - Insertion order is preserved across Add, Remove and Update
//   - Case-insensitive id lookup, first match wins
//   - Duplicate ids are rejected on Add, Update and Reset
//   - Copy-in / copy-out: callers never hold a pointer into the store
//
// Thread Safety:
//
//	All operations are guarded by a sync.RWMutex. A session is driven by a
//	single goroutine, but the signal handler flushes the store from another
//	goroutine and must see a consistent snapshot.
//
// Usage Example:
//
//	s := lstore.NewLocalStore()
//	hw, _ := record.NewHardware("A1B2C3D4", "Acme", record.Date(2024, 1, 1), "replace disk", "SSD")
//	_ = s.Add(hw)
//
//	r, err := s.FindByID("a1b2c3d4") // found, ids compare case-insensitively
//
// Persistence is not part of this package: the persist engine saves
// ListAll() snapshots and restores them with Reset.
package lstore
