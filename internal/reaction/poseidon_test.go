package reaction

import (
	"math/big"
	"testing"
)

func TestPoseidonHash2IsDeterministic(t *testing.T) {
	a, b := big.NewInt(3), big.NewInt(5)
	h1, err := poseidonHash2(a, b)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := poseidonHash2(big.NewInt(3), big.NewInt(5))
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1.Cmp(h2) != 0 {
		t.Fatalf("poseidon hash should be deterministic for identical inputs")
	}
}

func TestPoseidonHash2ChangesWithAnyInput(t *testing.T) {
	base, err := poseidonHash2(big.NewInt(1), big.NewInt(2))
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	changedFirst, err := poseidonHash2(big.NewInt(9), big.NewInt(2))
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	changedSecond, err := poseidonHash2(big.NewInt(1), big.NewInt(9))
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if base.Cmp(changedFirst) == 0 {
		t.Fatal("changing the first input should change the hash")
	}
	if base.Cmp(changedSecond) == 0 {
		t.Fatal("changing the second input should change the hash")
	}
}
