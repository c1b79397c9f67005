// Package testing provides a reusable conformance suite for store.IStore
// implementations. An implementation only needs a factory returning empty
// stores:
//
//	func TestMyStore(t *testing.T) {
//		testing.RunStoreTests(t, "mystore", func() store.IStore { return NewMyStore() })
//	}
//
// The suite covers insertion order, case-insensitive identity, the not-found
// and precondition errors, duplicate rejection, snapshot isolation of
// ListAll/FindByID, transactional Update and Reset.
package testing
