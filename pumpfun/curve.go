package pumpfun

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// DeriveBondingCurve computes the bonding-curve PDA for a mint under the
// given program. Pure function; fails only if the derivation space is
// exhausted, which callers treat as "no candidate".
func DeriveBondingCurve(programID, mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(bondingCurveSeed), mint.Bytes()},
		programID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive bonding curve for %s: %w", mint, err)
	}
	return addr, nil
}
