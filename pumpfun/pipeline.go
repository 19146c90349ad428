package pumpfun

import (
	"math"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"
)

// DecodedTransaction bundles the structured decode of one transaction:
// the target-program instructions plus any events the program emitted.
type DecodedTransaction struct {
	Instructions []DecodedInstruction
	Events       []Event
}

// Pipeline classifies one transaction at a time: structured decode first,
// balance-diff heuristic as fallback. Parsers are constructed once at
// startup and injected; the pipeline holds no other state.
type Pipeline struct {
	instructions *InstructionParser
	events       *EventParser
	heuristic    *Heuristic
	Log          *logrus.Logger
}

func NewPipeline(instructions *InstructionParser, events *EventParser, heuristic *Heuristic, log *logrus.Logger) *Pipeline {
	return &Pipeline{
		instructions: instructions,
		events:       events,
		heuristic:    heuristic,
		Log:          log,
	}
}

// Decode returns the trade record for tx, or nil when the transaction
// failed on-chain or carries no recognizable trade. The heuristic runs only
// when the structured decoder found zero target-program instructions; a
// structured decode that is later discarded still wins the exclusivity.
func (p *Pipeline) Decode(tx *solana.Transaction, meta *rpc.TransactionMeta) *TradeRecord {
	if tx == nil || meta == nil {
		return nil
	}
	if meta.Err != nil {
		return nil
	}

	if decoded := p.tryStructured(tx, meta); decoded != nil {
		return p.programRecord(tx, decoded)
	}

	return p.heuristic.Classify(tx, meta)
}

// tryStructured returns nil when the transaction contains no instructions
// owned by the target program, even if other programs decoded fine.
func (p *Pipeline) tryStructured(tx *solana.Transaction, meta *rpc.TransactionMeta) *DecodedTransaction {
	instructions := p.instructions.ParseInstructions(tx, meta)
	if len(instructions) == 0 {
		return nil
	}
	return &DecodedTransaction{
		Instructions: instructions,
		Events:       p.events.ParseEvents(tx, meta),
	}
}

// programRecord packages a structured decode, discarding it when the trade
// type is undeterminable from the instruction kinds or when no SOL amount
// was emitted (token creations carry no trade amount).
func (p *Pipeline) programRecord(tx *solana.Transaction, decoded *DecodedTransaction) *TradeRecord {
	p.Log.WithField("layout", NormalizeLayout(decoded)).Debug("pump.fun structured decode")

	var direction Direction
	determined := false
	for _, inst := range decoded.Instructions {
		switch inst.Kind {
		case InstructionBuy:
			direction, determined = DirectionBuy, true
		case InstructionSell:
			direction, determined = DirectionSell, true
		}
		if determined {
			break
		}
	}
	if !determined {
		return nil
	}

	var trade *TradeEvent
	for _, ev := range decoded.Events {
		if t, ok := ev.Data.(*TradeEvent); ok {
			trade = t
			break
		}
	}
	if trade == nil || trade.SolAmount == 0 {
		return nil
	}
	if len(tx.Signatures) == 0 {
		return nil
	}

	return &TradeRecord{
		Source:      SourceProgram,
		Direction:   direction,
		Mint:        trade.Mint,
		Signer:      trade.User,
		TokenAmount: float64(trade.TokenAmount) / math.Pow10(pumpTokenDecimals),
		SolAmount:   float64(trade.SolAmount) / float64(solana.LAMPORTS_PER_SOL),
		Signature:   tx.Signatures[0],
	}
}
