package pumpfun

import "github.com/gagliardetto/solana-go"

// Source tags how a trade record was derived.
type Source string

const (
	SourceProgram   Source = "PROGRAM"
	SourceHeuristic Source = "HEURISTIC"
)

type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// TradeRecord is the normalized output of the decode pipeline. Amounts are
// UI units (SOL for SolAmount, whole tokens for TokenAmount) and always
// non-negative; the sign lives in Direction.
type TradeRecord struct {
	Source      Source
	Direction   Direction
	Mint        solana.PublicKey
	Signer      solana.PublicKey
	TokenAmount float64
	SolAmount   float64
	Signature   solana.Signature
}
