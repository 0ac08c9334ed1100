package qfund

import (
	"encoding/json"

	"github.com/tendermint/go-amino"
)

// cdc serializes the models, messages and the configuration of this
// extension. Amino output is deterministic for a given structure.
var cdc = amino.NewCodec()

func (p *Proposal) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(p)
}

func (p *Proposal) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, p)
}

func (v *Vote) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(v)
}

func (v *Vote) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, v)
}

func (s *RoundState) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(s)
}

func (s *RoundState) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, s)
}

// The configuration is stored in the same JSON form the genesis declares it
// in. Its optional fields do not map cleanly onto a binary codec and the
// singleton is written only once.
func (c *Configuration) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, c)
}

func (m *CreateProposalMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *CreateProposalMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *VoteMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *VoteMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *DistributeMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *DistributeMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}
