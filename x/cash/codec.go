package cash

import (
	"github.com/tendermint/go-amino"
)

// cdc serializes the wallets. Amino produces deterministic binary output for
// a given structure, which keeps the stored state reproducible.
var cdc = amino.NewCodec()

func (w *Wallet) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, w)
}
