package pumpfun

import (
	"math"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"
)

// Heuristic infers a trade from raw balance deltas and log text. It runs
// only for transactions where the structured decoder found no target-program
// instructions (pump.fun trades routed through aggregators, mostly).
type Heuristic struct {
	programID solana.PublicKey
	Log       *logrus.Logger
}

func NewHeuristic(programID solana.PublicKey, log *logrus.Logger) *Heuristic {
	return &Heuristic{programID: programID, Log: log}
}

// Classify returns a best-effort trade record, or nil when no pump mint is
// referenced, the bonding curve is not among the static keys, or no balance
// delta is computable. Unlike the structured path there is no zero-amount
// suppression here; the asymmetry is inherited from the reference behavior.
func (h *Heuristic) Classify(tx *solana.Transaction, meta *rpc.TransactionMeta) *TradeRecord {
	if meta == nil || len(tx.Message.AccountKeys) == 0 || len(tx.Signatures) == 0 {
		return nil
	}

	mint, ok := findCandidateMint(tx.Message.AccountKeys)
	if !ok {
		return nil
	}

	curve, err := DeriveBondingCurve(h.programID, mint)
	if err != nil {
		return nil
	}

	idx := indexOfKey(tx.Message.AccountKeys, curve)
	if idx < 0 {
		return nil
	}

	solDelta, ok := LamportsDelta(meta, idx)
	if !ok {
		return nil
	}
	tokenDelta, _ := TokenDelta(meta, mint)

	direction := DirectionBuy
	if hasSellMarker(meta.LogMessages) {
		direction = DirectionSell
	}

	return &TradeRecord{
		Source:      SourceHeuristic,
		Direction:   direction,
		Mint:        mint,
		Signer:      tx.Message.AccountKeys[0],
		TokenAmount: math.Abs(tokenDelta),
		SolAmount:   math.Abs(solDelta),
		Signature:   tx.Signatures[0],
	}
}

// findCandidateMint picks the first static key whose base58 form contains
// the pump vanity marker.
func findCandidateMint(keys []solana.PublicKey) (solana.PublicKey, bool) {
	for _, key := range keys {
		if strings.Contains(key.String(), mintMarker) {
			return key, true
		}
	}
	return solana.PublicKey{}, false
}

func indexOfKey(keys []solana.PublicKey, target solana.PublicKey) int {
	for i, key := range keys {
		if key.Equals(target) {
			return i
		}
	}
	return -1
}

// hasSellMarker matches the exact substrings "Sell" or "sell" in the joined
// log text. Textual heuristic only; unrelated log lines can misclassify.
func hasSellMarker(logMessages []string) bool {
	joined := strings.Join(logMessages, "")
	return strings.Contains(joined, "Sell") || strings.Contains(joined, "sell")
}
