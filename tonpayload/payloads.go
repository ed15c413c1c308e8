// Package tonpayload builds the opaque message bodies for the circle
// contract's liveness entry points. Callers treat the results as opaque
// base64 BoC strings; the wire layout is op code (32 bits) + query id
// (64 bits), matching the contract's ABI.
package tonpayload

import (
	"fmt"

	"github.com/tonkeeper/tongo/boc"
)

const (
	opInitJettonWallet uint64 = 0x29c102d1
	opTriggerDebitAll  uint64 = 0x6ed71b14
	opFinalizeAuction  uint64 = 0x23f2a30c
	opTerminateDefault uint64 = 0x5a3c9e07
)

func build(op uint64) (string, error) {
	cell := boc.NewCell()
	if err := cell.WriteUint(op, 32); err != nil {
		return "", fmt.Errorf("write op: %w", err)
	}
	if err := cell.WriteUint(0, 64); err != nil {
		return "", fmt.Errorf("write query id: %w", err)
	}
	payload, err := cell.ToBocBase64()
	if err != nil {
		return "", fmt.Errorf("serialize payload: %w", err)
	}
	return payload, nil
}

// InitJettonWallet builds the one-time jetton wallet discovery message.
func InitJettonWallet() (string, error) { return build(opInitJettonWallet) }

// TriggerDebitAll builds the funding-round debit message.
func TriggerDebitAll() (string, error) { return build(opTriggerDebitAll) }

// FinalizeAuction builds the auction settlement message.
func FinalizeAuction() (string, error) { return build(opFinalizeAuction) }

// TerminateDefault builds the terminate-for-default message.
func TerminateDefault() (string, error) { return build(opTerminateDefault) }
