package identity

import (
	"crypto/sha256"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
)

func TestSignAndVerifyProducer(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	store, err := NewStore(StaticKeySource{Key: key})
	if err != nil {
		t.Fatal(err)
	}

	digest := sha256.Sum256([]byte("block preimage"))
	sig, err := store.SignAsProducer(digest)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.VerifyProducerSignature(digest, sig); err != nil {
		t.Fatalf("expected valid producer signature, got %v", err)
	}
}

func TestVerifyUserSignature(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	addr := Address(crypto.PubkeyToAddress(key.PublicKey))

	digest := sha256.Sum256([]byte("user tx"))
	sig, err := crypto.Sign(digest[:], key)
	if err != nil {
		t.Fatal(err)
	}
	if err := VerifyUserSignature(digest, sig, addr); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}

	otherKey, _ := crypto.GenerateKey()
	otherAddr := Address(crypto.PubkeyToAddress(otherKey.PublicKey))
	if err := VerifyUserSignature(digest, sig, otherAddr); err == nil {
		t.Fatal("expected signature mismatch to fail")
	}
}
