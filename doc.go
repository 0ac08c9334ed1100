/*
Package funding defines the common interfaces that tie the quadratic funding
round together: addresses and conditions, the key-value store abstraction,
messages and their handlers, and block context helpers.

The packages in this repository form a small deterministic state machine. A
round is configured once (admin, deadlines, matching budget), collects
proposals and votes as messages, and on distribution runs the matching engine
in x/qfund to split the budget across proposals. All state lives in a KVStore
and all arithmetic is integer only, so independent executions of the same
round produce byte-identical results.

Extensions follow the same layout: model.go for persistent state, msg.go for
the messages, handler.go for the business logic and codec.go for the binary
serialization.
*/
package funding
