// Package store provides a btree backed, ordered in-memory implementation of
// the funding.KVStore interface. Deterministic iteration order is what the
// distribution logic relies on, a hash map based store must never be used.
package store

import (
	"bytes"

	"github.com/google/btree"

	funding "github.com/JakeHartnell/cw-quadratic-funding"
	"github.com/JakeHartnell/cw-quadratic-funding/errors"
)

// degree is the branching factor of the underlying btree. The value is the
// same as the one used by the btree package examples and works well for the
// small working sets a single round produces.
const degree = 2

// MemStore returns an empty, btree backed key-value store. There is no
// persistence, state lives only as long as the process.
func MemStore() funding.KVStore {
	return &memStore{
		bt: btree.New(degree),
	}
}

type memStore struct {
	bt *btree.BTree
}

var _ funding.KVStore = (*memStore)(nil)

func (s *memStore) Get(key []byte) ([]byte, error) {
	assertValidKey(key)
	res := s.bt.Get(bkey{key})
	if res == nil {
		return nil, nil
	}
	// Return a copy, the caller must not be able to mutate stored state.
	return append([]byte(nil), res.(setItem).value...), nil
}

func (s *memStore) Has(key []byte) (bool, error) {
	assertValidKey(key)
	return s.bt.Has(bkey{key}), nil
}

func (s *memStore) Set(key, value []byte) error {
	assertValidKey(key)
	s.bt.ReplaceOrInsert(setItem{bkey: bkey{key: append([]byte{}, key...)}, value: append([]byte{}, value...)})
	return nil
}

func (s *memStore) Delete(key []byte) error {
	assertValidKey(key)
	s.bt.Delete(bkey{key})
	return nil
}

// Iterator over a domain of keys in ascending order. The iterator holds a
// snapshot of the matching range, writes performed while iterating are not
// observed.
func (s *memStore) Iterator(start, end []byte) (funding.Iterator, error) {
	var items []setItem
	collect := func(item btree.Item) bool {
		items = append(items, item.(setItem))
		return true
	}
	switch {
	case start == nil && end == nil:
		s.bt.Ascend(collect)
	case start == nil:
		s.bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		s.bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		s.bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return &sliceIterator{items: items}, nil
}

// ReverseIterator over the same [start, end) domain of keys but in
// descending order.
func (s *memStore) ReverseIterator(start, end []byte) (funding.Iterator, error) {
	var items []setItem
	collect := func(item btree.Item) bool {
		// Descend* bound handling does not line up with the exclusive
		// end of the store contract, filter on the exact bounds
		// instead.
		k := item.(setItem).key
		if end != nil && bytes.Compare(k, end) >= 0 {
			return true
		}
		if start != nil && bytes.Compare(k, start) < 0 {
			return false
		}
		items = append(items, item.(setItem))
		return true
	}
	s.bt.Descend(collect)
	return &sliceIterator{items: items}, nil
}

func assertValidKey(key []byte) {
	if key == nil {
		panic("nil key is not allowed")
	}
}

type sliceIterator struct {
	items []setItem
}

var _ funding.Iterator = (*sliceIterator)(nil)

func (i *sliceIterator) Next() ([]byte, []byte, error) {
	if len(i.items) == 0 {
		return nil, nil, errors.ErrIteratorDone
	}
	item := i.items[0]
	i.items = i.items[1:]
	return item.key, item.value, nil
}

func (i *sliceIterator) Release() {
	i.items = nil
}

// bkey implements btree.Item and may be used for queries or embedded in data
// to store.
type bkey struct {
	key []byte
}

var _ btree.Item = bkey{}

func (k bkey) Key() []byte {
	return k.key
}

// Less returns true iff second argument is greater than the first one.
//
// Panics if the item to compare doesn't implement keyer.
func (k bkey) Less(item btree.Item) bool {
	cmp := item.(keyer).Key()
	return bytes.Compare(k.key, cmp) < 0
}

// we enforce all data in our btree implements keyer so we can compare nicely.
type keyer interface {
	Key() []byte
}

type setItem struct {
	bkey
	value []byte
}
