package gov

import "github.com/holiman/uint256"

// Scale is the token's fractional unit: one whole token is 1e18 base units.
// Voting weight and quorum are computed on whole-token quantities.
var Scale = uint256.NewInt(1_000_000_000_000_000_000)

// WholeTokens converts a whole-token count to base units.
func WholeTokens(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), Scale)
}

// Isqrt computes the exact integer square root (round down) by
// Newton/Babylonian iteration, terminating when the candidate root stops
// decreasing. No floating point anywhere; results are bit-for-bit
// reproducible.
func Isqrt(x *uint256.Int) *uint256.Int {
	if x.IsZero() {
		return new(uint256.Int)
	}

	z := x.Clone()
	y := new(uint256.Int).Div(x, z)
	y.Add(y, z)
	y.Rsh(y, 1)

	for y.Lt(z) {
		z.Set(y)
		y.Div(x, z)
		y.Add(y, z)
		y.Rsh(y, 1)
	}
	return z
}

// Weight maps a locked base-unit amount to quadratic voting weight:
// isqrt(amount / Scale). 10,000 whole tokens → 100; 1,000,000 → 1000;
// a 4x larger lock yields exactly 2x the weight.
func Weight(amount *uint256.Int) *uint256.Int {
	return Isqrt(new(uint256.Int).Div(amount, Scale))
}

// QuorumVotes derives the required total vote weight from a supply
// fraction, quadratically, mirroring vote weighting:
// isqrt(totalSupply * num / den / Scale).
//
// num <= den is enforced by config validation, so the 512-bit intermediate
// product can never overflow back into 256 bits.
func QuorumVotes(totalSupply *uint256.Int, num, den uint64) *uint256.Int {
	fraction, _ := new(uint256.Int).MulDivOverflow(totalSupply, uint256.NewInt(num), uint256.NewInt(den))
	return Isqrt(fraction.Div(fraction, Scale))
}
