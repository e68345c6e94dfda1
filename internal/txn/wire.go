package txn

import (
	"encoding/json"
	"time"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"
	"github.com/Hushnetwork-social/hush-server-node-sub007/pkg/utils"
)

// wireEnvelope mirrors spec §6's transaction wire envelope exactly: a JSON
// object carrying payload_kind, state, timestamp, user_signature, an
// optional validator_signature, and a kind-specific payload. Decoding
// dispatches on payload_kind.
type wireEnvelope struct {
	ID                  ids.ID              `json:"id"`
	PayloadKind         PayloadKind         `json:"payload_kind"`
	State               State               `json:"state"`
	Timestamp           time.Time           `json:"timestamp"`
	UserSignature       UserSignature       `json:"user_signature"`
	ValidatorSignature  *ValidatorSignature `json:"validator_signature,omitempty"`
	Payload             json.RawMessage     `json:"payload"`
}

// MarshalJSON renders t as spec §6's wire envelope.
func (t Transaction) MarshalJSON() ([]byte, error) {
	payloadBytes, err := json.Marshal(t.Payload)
	if err != nil {
		return nil, utils.WrapKind(utils.ErrMalformedPayload, err, "marshal payload")
	}
	return json.Marshal(wireEnvelope{
		ID:                 t.ID,
		PayloadKind:        t.PayloadKind,
		State:              t.State,
		Timestamp:          t.Timestamp,
		UserSignature:      t.UserSig,
		ValidatorSignature: t.ValidatorSig,
		Payload:            payloadBytes,
	})
}

// UnmarshalJSON decodes spec §6's wire envelope, dispatching the payload
// field to the concrete type registered for payload_kind (spec §7
// UnknownPayloadKind if unregistered).
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var env wireEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return utils.WrapKind(utils.ErrMalformedPayload, err, "decode envelope")
	}

	payload, ok := NewPayload(env.PayloadKind)
	if !ok {
		return utils.Newf(utils.ErrUnknownPayloadKind, "unknown payload kind %s", env.PayloadKind)
	}
	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, payload); err != nil {
			return utils.WrapKind(utils.ErrMalformedPayload, err, "decode payload")
		}
	}

	t.ID = env.ID
	t.PayloadKind = env.PayloadKind
	t.State = env.State
	t.Timestamp = env.Timestamp
	t.UserSig = env.UserSignature
	t.ValidatorSig = env.ValidatorSignature
	t.Payload = payload
	return nil
}

// MarshalJSON/UnmarshalJSON for PayloadKind delegate to ids.ID's canonical
// hex text form (spec §6 "Identifier encoding").
func (k PayloadKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(ids.ID(k).String())
}

func (k *PayloadKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	id, err := ids.Parse(s)
	if err != nil {
		return err
	}
	*k = PayloadKind(id)
	return nil
}
