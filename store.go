package funding

// ReadOnlyKVStore is a simple interface to read data from a store.
type ReadOnlyKVStore interface {
	// Get returns nil iff key doesn't exist. Panics on nil key.
	Get(key []byte) ([]byte, error)

	// Has checks if a key exists. Panics on nil key.
	Has(key []byte) (bool, error)

	// Iterator over the [start, end) domain of keys in ascending order.
	// A nil start is interpreted as an empty byte slice. A nil end is
	// interpreted as "no limit".
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator over the [start, end) domain of keys in descending
	// order.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// KVStore is a simple interface to get/set data.
//
// For simplicity, we require all backing stores to implement this interface.
// They *may* implement other methods as well, but at least these are
// required.
type KVStore interface {
	ReadOnlyKVStore

	// Set sets the key. Panics on nil key.
	Set(key, value []byte) error

	// Delete deletes the key. Panics on nil key.
	Delete(key []byte) error
}

// Iterator allows us to access a set of items within a range of keys. These
// may all be preloaded, or loaded on demand.
//
//	var itr Iterator = ...
//	defer itr.Release()
//
//	for {
//	    k, v, err := itr.Next()
//	    if err != nil { break }  // errors.ErrIteratorDone signals the end
//	    ...
//	}
type Iterator interface {
	// Next moves the iterator to the next sequential key in the database,
	// as defined by order of iteration. It returns the key and value at
	// the position it moved away from. Once the iterator is exhausted,
	// ErrIteratorDone is returned.
	Next() (key, value []byte, err error)

	// Release releases the Iterator.
	Release()
}
