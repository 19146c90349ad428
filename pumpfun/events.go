package pumpfun

import (
	"bytes"

	ag_binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"
)

type EventKind string

const (
	EventTrade  EventKind = "trade"
	EventCreate EventKind = "create"
)

// TradeEvent mirrors the pump.fun TradeEvent layout (pump 0.1.0).
type TradeEvent struct {
	Mint                 solana.PublicKey
	SolAmount            uint64
	TokenAmount          uint64
	IsBuy                bool
	User                 solana.PublicKey
	Timestamp            int64
	VirtualSolReserves   uint64
	VirtualTokenReserves uint64
}

// CreateEvent mirrors the pump.fun CreateEvent layout.
type CreateEvent struct {
	Name         string
	Symbol       string
	URI          string
	Mint         solana.PublicKey
	BondingCurve solana.PublicKey
	User         solana.PublicKey
}

type Event struct {
	Kind EventKind
	Data interface{}
}

// EventParser extracts Anchor events emitted via the program's self-CPI
// instructions. Scoped to one program id, like the instruction parser.
type EventParser struct {
	programID solana.PublicKey
	Log       *logrus.Logger
}

func NewEventParser(programID solana.PublicKey, log *logrus.Logger) *EventParser {
	return &EventParser{programID: programID, Log: log}
}

// ParseEvents scans inner instructions for event-CPI payloads of the target
// program and decodes the ones with known discriminators.
func (p *EventParser) ParseEvents(tx *solana.Transaction, meta *rpc.TransactionMeta) []Event {
	if meta == nil {
		return nil
	}
	keys := allAccountKeys(tx, meta)

	var events []Event
	for _, innerSet := range meta.InnerInstructions {
		for _, inst := range innerSet.Instructions {
			if int(inst.ProgramIDIndex) >= len(keys) {
				continue
			}
			if !keys[inst.ProgramIDIndex].Equals(p.programID) {
				continue
			}
			raw := instructionData(inst)
			if len(raw) < 16 {
				continue
			}
			switch {
			case bytes.Equal(raw[:16], TradeEventDiscriminator[:]):
				var ev TradeEvent
				if err := ag_binary.NewBorshDecoder(raw[16:]).Decode(&ev); err != nil {
					p.Log.Errorf("error decoding trade event: %s", err)
					continue
				}
				events = append(events, Event{Kind: EventTrade, Data: &ev})
			case bytes.Equal(raw[:16], CreateEventDiscriminator[:]):
				var ev CreateEvent
				if err := ag_binary.NewBorshDecoder(raw[16:]).Decode(&ev); err != nil {
					p.Log.Errorf("error decoding create event: %s", err)
					continue
				}
				events = append(events, Event{Kind: EventCreate, Data: &ev})
			}
		}
	}
	return events
}
