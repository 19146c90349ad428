package pumpfun

import "github.com/gagliardetto/solana-go"

// ProgramID is the pump.fun bonding-curve program.
var ProgramID = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")

const (
	// PDA seed for the per-mint bonding curve account.
	bondingCurveSeed = "bonding-curve"

	// pump.fun vanity mints end in "pump"; the heuristic keys off this.
	mintMarker = "pump"

	// bonding-curve tokens are minted with 6 decimals
	pumpTokenDecimals = 6
)

// Anchor instruction discriminators: first 8 bytes of sha256("global:"+name).
var (
	BuyDiscriminator    = [8]byte{102, 6, 61, 18, 1, 218, 235, 234}
	SellDiscriminator   = [8]byte{51, 230, 133, 164, 1, 127, 131, 173}
	CreateDiscriminator = [8]byte{24, 30, 200, 40, 5, 28, 7, 119}
)

// Event discriminators as they appear in self-CPI data: the 8-byte Anchor
// event tag followed by the 8-byte discriminator of the event itself.
var (
	TradeEventDiscriminator  = [16]byte{228, 69, 165, 46, 81, 203, 154, 29, 189, 219, 127, 211, 78, 230, 97, 238}
	CreateEventDiscriminator = [16]byte{228, 69, 165, 46, 81, 203, 154, 29, 27, 114, 169, 77, 222, 235, 99, 118}
)
