package funding

import (
	"encoding/json"
)

// CheckResult captures any metadata about validating a transaction before
// executing it.
type CheckResult struct {
	// Data is a machine-parseable return value, like id of created entity.
	Data []byte

	// GasAllocated is an estimation of the processing cost.
	GasAllocated int64
}

// DeliverResult captures any metadata about executing a transaction.
type DeliverResult struct {
	// Data is a machine-parseable return value, like id of created entity.
	Data []byte

	// Log is a human readable success message.
	Log string

	// Tags enable indexing of executed transactions.
	Tags []KVPair
}

// KVPair is a key-value tag attached to a processing result.
type KVPair struct {
	Key   []byte
	Value []byte
}

// Handler is a core engine that can process a few specific messages.
// This could represent "create a proposal", or "vote on a proposal".
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality like
// authentication to many Handlers.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry is an interface to register your handler, the setup side of a
// router.
type Registry interface {
	// Handle assigns given handler to handle processing of every message
	// of provided path.
	Handle(path string, h Handler)
}

// Options are the round options. Each extension can look up its key and
// parse the json as desired.
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key, and parses the json
// into the given obj. Returns an error if it cannot parse. Noop and no error
// if key is missing.
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer implementations are used to initialize extensions from genesis
// file contents.
type Initializer interface {
	FromGenesis(opts Options, kv KVStore) error
}
