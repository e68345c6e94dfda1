package txn

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/amount"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"
)

func TestTransactionWireRoundTrip(t *testing.T) {
	tx := Transaction{
		ID:          ids.New(),
		PayloadKind: KindReward,
		Timestamp:   time.Now().UTC().Truncate(time.Second),
		State:       Unsigned,
		Payload: &RewardPayload{
			Token:     "HUSH",
			Precision: 9,
			Amount:    amount.MustParse("10.000000000"),
		},
	}

	data, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Transaction
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.ID != tx.ID {
		t.Fatalf("id mismatch: %v != %v", got.ID, tx.ID)
	}
	if got.PayloadKind != KindReward {
		t.Fatalf("payload kind mismatch")
	}
	rp, ok := got.Payload.(*RewardPayload)
	if !ok {
		t.Fatalf("expected *RewardPayload, got %T", got.Payload)
	}
	if rp.Token != "HUSH" || rp.Amount.String() != "10.000000000" {
		t.Fatalf("payload fields mismatch: %+v", rp)
	}
}

func TestUnknownPayloadKindRejected(t *testing.T) {
	env := `{"id":"00000000000000000000000000000001","payload_kind":"00000000000000000000000000000099","state":0,"timestamp":"2024-01-01T00:00:00Z","user_signature":{"signatory":"0x0000000000000000000000000000000000000a","signature":null},"payload":{}}`
	var got Transaction
	err := json.Unmarshal([]byte(env), &got)
	if err == nil {
		t.Fatal("expected error for unknown payload kind")
	}
}

func TestLifecycleMonotone(t *testing.T) {
	tx := &Transaction{State: Unsigned, Payload: &RewardPayload{}}
	if err := tx.Sign(UserSignature{}); err != nil {
		t.Fatalf("sign: %v", err)
	}
	if err := tx.Validate(ValidatorSignature{}); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := tx.MarkIndexed(); err != nil {
		t.Fatalf("mark indexed: %v", err)
	}
	// regressing is forbidden
	if err := tx.Sign(UserSignature{}); err == nil {
		t.Fatal("expected error re-signing an Indexed transaction")
	}
}
