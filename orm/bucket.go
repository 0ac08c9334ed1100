// Package orm provides an easy to use db wrapper.
//
// Break state space into prefixed sections called Buckets. Each bucket
// contains only one type of object backed by a deterministic binary codec.
package orm

import (
	"regexp"

	funding "github.com/JakeHartnell/cw-quadratic-funding"
	"github.com/JakeHartnell/cw-quadratic-funding/errors"
)

// Model is implemented by any entity that can be stored using a Bucket.
type Model interface {
	funding.Persistent
	Validate() error
}

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket is a generic holder that stores data as well as references to
// secondary information. All keys are prefixed with the bucket name so that
// many buckets can share a single KVStore.
type Bucket struct {
	name   string
	prefix []byte
}

// NewBucket creates a bucket to store data under the given name prefix.
// Panics if the name is not a valid bucket name, as this is a programmer
// error that must be fixed before deployment.
func NewBucket(name string) Bucket {
	if !isBucketName(name) {
		panic("invalid bucket name: " + name)
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// Name returns the name of the bucket.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including the bucket prefix.
func (b Bucket) DBKey(key []byte) []byte {
	return append(b.prefix, key...)
}

// One queries the database for a single model instance. Lookup is done by
// the primary key. The result is loaded into the destination model.
// ErrNotFound is returned when the entity does not exist in the database.
func (b Bucket) One(db funding.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot read from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot unmarshal %T", dest)
	}
	return nil
}

// Has returns true if an entity with given primary key exists.
func (b Bucket) Has(db funding.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Put saves the given model in the database under the given key. The model
// is validated before it is persisted.
func (b Bucket) Put(db funding.KVStore, key []byte, m Model) error {
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "cannot marshal %T", m)
	}
	if err := db.Set(b.DBKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

// Delete removes an entity with given primary key from the database. It
// returns ErrNotFound if an entity with given key does not exist.
func (b Bucket) Delete(db funding.KVStore, key []byte) error {
	dbkey := b.DBKey(key)
	ok, err := db.Has(dbkey)
	if err != nil {
		return errors.Wrap(err, "cannot read from the database")
	}
	if !ok {
		return errors.Wrap(errors.ErrNotFound, b.name)
	}
	return db.Delete(dbkey)
}

// Iterator returns an iterator over all entities stored in this bucket, in
// ascending key order. Returned keys have the bucket prefix trimmed.
func (b Bucket) Iterator(db funding.ReadOnlyKVStore) (Iterator, error) {
	it, err := db.Iterator(b.prefix, prefixRangeEnd(b.prefix))
	if err != nil {
		return nil, errors.Wrap(err, "cannot iterate over the bucket")
	}
	return &bucketIterator{it: it, trim: len(b.prefix)}, nil
}

// PrefixIterator returns an iterator over all entities of the bucket with
// the given key prefix, in ascending key order.
func (b Bucket) PrefixIterator(db funding.ReadOnlyKVStore, prefix []byte) (Iterator, error) {
	start := b.DBKey(prefix)
	it, err := db.Iterator(start, prefixRangeEnd(start))
	if err != nil {
		return nil, errors.Wrap(err, "cannot iterate over the bucket")
	}
	return &bucketIterator{it: it, trim: len(b.prefix)}, nil
}

// Iterator walks the entities of a single bucket.
type Iterator interface {
	// Next returns the key (without the bucket prefix) and the serialized
	// value of the entity it moved away from. ErrIteratorDone is returned
	// once exhausted.
	Next() (key, value []byte, err error)
	Release()
}

type bucketIterator struct {
	it   funding.Iterator
	trim int
}

func (i *bucketIterator) Next() ([]byte, []byte, error) {
	key, value, err := i.it.Next()
	if err != nil {
		return nil, nil, err
	}
	return key[i.trim:], value, nil
}

func (i *bucketIterator) Release() {
	i.it.Release()
}

// prefixRangeEnd returns the first key that is lexicographically above all
// keys with the given prefix, or nil if there is none (all 0xff).
func prefixRangeEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// Register implements the QueryHandler interface for this bucket, exposing
// lookup by primary key and by key prefix. Returned model keys carry the
// full database key, including the bucket prefix.
func (b Bucket) Register(name string, qr funding.QueryRouter) {
	if name == "" {
		name = b.name + "s"
	}
	root := "/" + name
	qr.Register(root, bucketQuery{b: b})
}

type bucketQuery struct {
	b Bucket
}

func (q bucketQuery) Query(db funding.ReadOnlyKVStore, mod string, data []byte) ([]funding.Model, error) {
	switch mod {
	case funding.KeyQueryMod:
		raw, err := db.Get(q.b.DBKey(data))
		if err != nil {
			return nil, err
		}
		if raw == nil {
			return nil, nil
		}
		return []funding.Model{funding.Pair(q.b.DBKey(data), raw)}, nil
	case funding.PrefixQueryMod:
		it, err := q.b.PrefixIterator(db, data)
		if err != nil {
			return nil, err
		}
		defer it.Release()
		var res []funding.Model
		for {
			key, value, err := it.Next()
			switch {
			case err == nil:
				res = append(res, funding.Pair(q.b.DBKey(key), value))
			case errors.ErrIteratorDone.Is(err):
				return res, nil
			default:
				return nil, err
			}
		}
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query modifier %q", mod)
	}
}
