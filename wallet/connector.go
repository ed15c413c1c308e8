package wallet

import (
	"context"
	"time"
)

// ValidityWindow bounds how long a submitted message set stays valid. Every
// submission this module produces uses the same five-minute window.
const ValidityWindow = 5 * time.Minute

// Message is one on-chain message of a submission: destination address, TON
// value in nanotons as a decimal integer string, and an opaque base64 BoC
// payload.
type Message struct {
	Address string
	Amount  string
	Payload string
}

// Tx is a message set handed to the connected wallet verbatim.
type Tx struct {
	ValidUntil int64
	Messages   []Message
}

// Connector abstracts the wallet connection. Address returns the connected
// account's address, empty when no wallet is connected. Send submits a
// message set and blocks until the wallet resolves or rejects it.
type Connector interface {
	Address() string
	Send(ctx context.Context, tx Tx) error
}
