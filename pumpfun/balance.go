package pumpfun

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// LamportsDelta returns (post - pre) at accountIndex, converted to SOL.
// The bool is false when either balance array has no entry at that index.
func LamportsDelta(meta *rpc.TransactionMeta, accountIndex int) (float64, bool) {
	if meta == nil || accountIndex < 0 ||
		accountIndex >= len(meta.PreBalances) || accountIndex >= len(meta.PostBalances) {
		return 0, false
	}
	pre := meta.PreBalances[accountIndex]
	post := meta.PostBalances[accountIndex]
	return (float64(post) - float64(pre)) / float64(solana.LAMPORTS_PER_SOL), true
}

// TokenDelta computes preUiAmount - postUiAmount for the given mint, pairing
// pre and post rows by their explicit AccountIndex. Token balance arrays are
// not positionally aligned, only the index field is authoritative. The first
// index match wins; later matches for the same mint are ignored, a known
// approximation when several accounts hold the mint.
func TokenDelta(meta *rpc.TransactionMeta, mint solana.PublicKey) (float64, bool) {
	if meta == nil {
		return 0, false
	}
	for _, pre := range meta.PreTokenBalances {
		if !pre.Mint.Equals(mint) {
			continue
		}
		for _, post := range meta.PostTokenBalances {
			if !post.Mint.Equals(mint) {
				continue
			}
			if post.AccountIndex == pre.AccountIndex {
				return uiAmount(pre.UiTokenAmount) - uiAmount(post.UiTokenAmount), true
			}
		}
	}
	return 0, false
}

func uiAmount(amt *rpc.UiTokenAmount) float64 {
	if amt == nil || amt.UiAmount == nil {
		return 0
	}
	return *amt.UiAmount
}
