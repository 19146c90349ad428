package pumpfun

import (
	"testing"

	"github.com/AlekSi/pointer"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// heuristicTx builds the minimal transaction/meta pair the classifier needs:
// mint at index 1, derived bonding curve at the last index.
func heuristicTx(t *testing.T, preCurve, postCurve uint64, logs []string) (*solana.Transaction, *rpc.TransactionMeta) {
	t.Helper()
	curve, err := DeriveBondingCurve(ProgramID, testMint)
	if err != nil {
		t.Fatalf("derive bonding curve: %v", err)
	}
	tx := &solana.Transaction{
		Signatures: []solana.Signature{{1}},
		Message: solana.Message{
			AccountKeys: []solana.PublicKey{testSigner, testMint, fillerA, curve},
		},
	}
	meta := &rpc.TransactionMeta{
		PreBalances:  []uint64{0, 0, 0, preCurve},
		PostBalances: []uint64{0, 0, 0, postCurve},
		LogMessages:  logs,
	}
	return tx, meta
}

func TestClassifyDirectionFromLogs(t *testing.T) {
	h := NewHeuristic(ProgramID, testLogger())

	cases := []struct {
		name string
		logs []string
		want Direction
	}{
		{"sell marker capitalized", []string{"Program log: Sell order executed"}, DirectionSell},
		{"sell marker lowercase", []string{"Program log: instruction sell"}, DirectionSell},
		{"buy text without sell marker", []string{"Program log: Buying power used"}, DirectionBuy},
		{"no logs", nil, DirectionBuy},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx, meta := heuristicTx(t, 10_000_000_000, 9_500_000_000, tc.logs)
			rec := h.Classify(tx, meta)
			if rec == nil {
				t.Fatal("expected a trade record")
			}
			if rec.Direction != tc.want {
				t.Errorf("direction = %s, want %s", rec.Direction, tc.want)
			}
		})
	}
}

func TestClassifyAmountsAreNonNegative(t *testing.T) {
	h := NewHeuristic(ProgramID, testLogger())

	// Curve balance grows on a buy; the emitted amount is still positive.
	tx, meta := heuristicTx(t, 9_500_000_000, 10_000_000_000, nil)
	rec := h.Classify(tx, meta)
	if rec == nil {
		t.Fatal("expected a trade record")
	}
	if rec.SolAmount != 0.5 {
		t.Errorf("sol amount = %v, want 0.5", rec.SolAmount)
	}

	// Curve balance shrinks; magnitude is identical.
	tx, meta = heuristicTx(t, 10_000_000_000, 9_500_000_000, nil)
	rec = h.Classify(tx, meta)
	if rec == nil {
		t.Fatal("expected a trade record")
	}
	if rec.SolAmount != 0.5 {
		t.Errorf("sol amount = %v, want 0.5", rec.SolAmount)
	}
}

func TestClassifyZeroDeltaStillEmits(t *testing.T) {
	h := NewHeuristic(ProgramID, testLogger())

	tx, meta := heuristicTx(t, 10_000_000_000, 10_000_000_000, nil)
	rec := h.Classify(tx, meta)
	if rec == nil {
		t.Fatal("expected a record even with a zero delta")
	}
	if rec.SolAmount != 0 {
		t.Errorf("sol amount = %v, want 0", rec.SolAmount)
	}
}

func TestClassifyNoCandidateMint(t *testing.T) {
	h := NewHeuristic(ProgramID, testLogger())

	tx := &solana.Transaction{
		Signatures: []solana.Signature{{1}},
		Message: solana.Message{
			AccountKeys: []solana.PublicKey{testSigner, fillerA, fillerB},
		},
	}
	meta := &rpc.TransactionMeta{
		PreBalances:  []uint64{0, 0, 0},
		PostBalances: []uint64{0, 0, 0},
	}
	if rec := h.Classify(tx, meta); rec != nil {
		t.Fatalf("expected nil without a pump-marked key, got %+v", rec)
	}
}

func TestClassifyCurveNotInKeys(t *testing.T) {
	h := NewHeuristic(ProgramID, testLogger())

	tx := &solana.Transaction{
		Signatures: []solana.Signature{{1}},
		Message: solana.Message{
			AccountKeys: []solana.PublicKey{testSigner, testMint, fillerA},
		},
	}
	meta := &rpc.TransactionMeta{
		PreBalances:  []uint64{0, 0, 0},
		PostBalances: []uint64{0, 0, 0},
	}
	if rec := h.Classify(tx, meta); rec != nil {
		t.Fatalf("expected nil when the bonding curve is absent, got %+v", rec)
	}
}

func TestClassifyMissingBalanceRow(t *testing.T) {
	h := NewHeuristic(ProgramID, testLogger())

	tx, meta := heuristicTx(t, 10_000_000_000, 9_500_000_000, nil)
	meta.PostBalances = meta.PostBalances[:2]
	if rec := h.Classify(tx, meta); rec != nil {
		t.Fatalf("expected nil when the curve index has no balance row, got %+v", rec)
	}
}

func TestClassifyNilMeta(t *testing.T) {
	h := NewHeuristic(ProgramID, testLogger())

	tx, _ := heuristicTx(t, 0, 0, nil)
	if rec := h.Classify(tx, nil); rec != nil {
		t.Fatalf("expected nil for nil meta, got %+v", rec)
	}
}

func TestClassifyTokenDeltaFirstMatchWins(t *testing.T) {
	h := NewHeuristic(ProgramID, testLogger())

	tx, meta := heuristicTx(t, 10_000_000_000, 9_000_000_000, nil)
	// Two accounts hold the mint; the first listed pre row decides the pairing.
	meta.PreTokenBalances = []rpc.TokenBalance{
		{AccountIndex: 2, Mint: testMint, UiTokenAmount: &rpc.UiTokenAmount{UiAmount: pointer.ToFloat64(300)}},
		{AccountIndex: 1, Mint: testMint, UiTokenAmount: &rpc.UiTokenAmount{UiAmount: pointer.ToFloat64(9000)}},
	}
	meta.PostTokenBalances = []rpc.TokenBalance{
		{AccountIndex: 1, Mint: testMint, UiTokenAmount: &rpc.UiTokenAmount{UiAmount: pointer.ToFloat64(8000)}},
		{AccountIndex: 2, Mint: testMint, UiTokenAmount: &rpc.UiTokenAmount{UiAmount: pointer.ToFloat64(100)}},
	}

	rec := h.Classify(tx, meta)
	if rec == nil {
		t.Fatal("expected a trade record")
	}
	if rec.TokenAmount != 200 {
		t.Errorf("token amount = %v, want 200 (first pre row, account 2)", rec.TokenAmount)
	}
}
