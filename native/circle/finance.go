package circle

import "math/big"

var bpsDenominator = big.NewInt(10_000)

// FinanceSummary carries the derived monetary figures for one snapshot. All
// values are minor units and freshly allocated; callers may mutate them.
type FinanceSummary struct {
	Pot                 *big.Int
	CollateralRequired  *big.Int
	MissingCollateral   *big.Int
	SuggestedCollateral *big.Int
	SuggestedPrefund    *big.Int
}

// Summarize derives pot size and collateral figures from the snapshot and the
// caller's member record (nil when not joined).
//
// Required collateral applies the rate against the total pot, not the
// per-member contribution. That matches the contract's bonding policy: each
// member collateralises a slice of the whole round. Division floors; the
// engine may under-estimate by a fraction of a minor unit but never
// over-charges.
func Summarize(snap *Snapshot, member *Member) FinanceSummary {
	sum := FinanceSummary{
		Pot:                 big.NewInt(0),
		CollateralRequired:  big.NewInt(0),
		MissingCollateral:   big.NewInt(0),
		SuggestedCollateral: big.NewInt(0),
		SuggestedPrefund:    big.NewInt(0),
	}
	if snap == nil {
		return sum
	}
	members := snap.NMembers
	if members < 0 {
		members = 0
	}
	contribution := snap.ContributionUnits.BigInt()
	sum.Pot = new(big.Int).Mul(big.NewInt(members), contribution)

	rate := snap.CollateralRateBps
	if rate < 0 {
		rate = 0
	}
	required := new(big.Int).Mul(sum.Pot, big.NewInt(rate))
	required.Quo(required, bpsDenominator)
	sum.CollateralRequired = required

	held := big.NewInt(0)
	if member != nil {
		held = member.Collateral.BigInt()
	}
	missing := new(big.Int).Sub(required, held)
	if missing.Sign() < 0 {
		missing.SetInt64(0)
	}
	sum.MissingCollateral = missing

	if missing.Sign() > 0 {
		sum.SuggestedCollateral = new(big.Int).Set(missing)
	} else {
		sum.SuggestedCollateral = new(big.Int).Set(required)
	}
	sum.SuggestedPrefund = new(big.Int).Set(contribution)
	return sum
}
