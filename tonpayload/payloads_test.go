package tonpayload

import (
	"testing"

	"github.com/tonkeeper/tongo/boc"
)

func TestBuildersProduceDistinctCells(t *testing.T) {
	builders := map[string]func() (string, error){
		"init":      InitJettonWallet,
		"debit":     TriggerDebitAll,
		"finalize":  FinalizeAuction,
		"terminate": TerminateDefault,
	}
	seen := make(map[string]string)
	for name, build := range builders {
		payload, err := build()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if payload == "" {
			t.Fatalf("%s: empty payload", name)
		}
		if prev, dup := seen[payload]; dup {
			t.Fatalf("%s and %s produced the same payload", name, prev)
		}
		seen[payload] = name

		cells, err := boc.DeserializeBocBase64(payload)
		if err != nil {
			t.Fatalf("%s: payload is not a valid BoC: %v", name, err)
		}
		if len(cells) != 1 {
			t.Fatalf("%s: expected a single root cell, got %d", name, len(cells))
		}
		if bits := cells[0].BitsAvailableForRead(); bits != 96 {
			t.Fatalf("%s: body is %d bits, want 96", name, bits)
		}
	}
}
