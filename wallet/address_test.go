package wallet

import (
	"testing"

	"github.com/tonkeeper/tongo/ton"
)

const rawAddr = "0:83dfd552e63729b472fcbcc4c431ebb9b9b0402cd16f20ff74d51ed82871da8d"

func TestMatchesEncodings(t *testing.T) {
	id := ton.MustParseAccountID(rawAddr)
	bounceable := id.ToHuman(true, false)
	nonBounceable := id.ToHuman(false, false)

	if !Matches(rawAddr, bounceable) {
		t.Fatal("raw and bounceable forms of one address must match")
	}
	if !Matches(nonBounceable, bounceable) {
		t.Fatal("non-bounceable and bounceable forms must match")
	}
	if !Matches(rawAddr, rawAddr) {
		t.Fatal("identical raw forms must match")
	}
}

func TestMatchesDifferentAddresses(t *testing.T) {
	other := "0:0000000000000000000000000000000000000000000000000000000000000000"
	if Matches(rawAddr, other) {
		t.Fatal("distinct addresses must not match")
	}
}

func TestMatchesFailsOpen(t *testing.T) {
	cases := [][2]string{
		{"", rawAddr},
		{rawAddr, ""},
		{"", ""},
		{"not-an-address", rawAddr},
		{rawAddr, "also @ not % an address"},
	}
	for _, c := range cases {
		if !Matches(c[0], c[1]) {
			t.Fatalf("Matches(%q, %q) must fail open", c[0], c[1])
		}
	}
}
