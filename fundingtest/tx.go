package fundingtest

import (
	funding "github.com/JakeHartnell/cw-quadratic-funding"
	"github.com/JakeHartnell/cw-quadratic-funding/errors"
)

// Tx is a mock implementing the funding.Tx interface, wrapping a single
// message.
type Tx struct {
	// Msg is the message this transaction carries.
	Msg funding.Msg
	// Err, if set, is returned by every method call.
	Err error
}

var _ funding.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (funding.Msg, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	return tx.Msg, nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrState, "transaction without a message")
	}
	return tx.Msg.Marshal()
}

func (tx *Tx) Unmarshal([]byte) error {
	return errors.Wrap(errors.ErrHuman, "mock transaction cannot unmarshal")
}
