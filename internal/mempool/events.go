package mempool

import "github.com/Hushnetwork-social/hush-server-node-sub007/internal/txn"

// TransactionReceived is published on every successful submit (spec §4.C).
type TransactionReceived struct {
	Transaction *txn.Transaction
}

func (TransactionReceived) Kind() string { return "TransactionReceived" }
