package pumpfun

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

func createEventData(ev CreateEvent) []byte {
	data := append([]byte{}, CreateEventDiscriminator[:]...)
	data = append(data, borshString(ev.Name)...)
	data = append(data, borshString(ev.Symbol)...)
	data = append(data, borshString(ev.URI)...)
	data = append(data, ev.Mint.Bytes()...)
	data = append(data, ev.BondingCurve.Bytes()...)
	data = append(data, ev.User.Bytes()...)
	return data
}

func TestParseEventsTrade(t *testing.T) {
	p := NewEventParser(ProgramID, testLogger())

	want := TradeEvent{
		Mint:                 testMint,
		SolAmount:            2_500_000_000,
		TokenAmount:          1_000_000_000,
		IsBuy:                true,
		User:                 testSigner,
		Timestamp:            1700000000,
		VirtualSolReserves:   30_000_000_000,
		VirtualTokenReserves: 1_000_000_000_000,
	}
	tx, meta := programTradeTx(buyData(1_000_000_000, 3_000_000_000), &want)

	events := p.ParseEvents(tx, meta)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Kind != EventTrade {
		t.Fatalf("kind = %s, want %s", events[0].Kind, EventTrade)
	}
	got := events[0].Data.(*TradeEvent)
	if *got != want {
		t.Errorf("event = %+v, want %+v", got, want)
	}
}

func TestParseEventsCreate(t *testing.T) {
	p := NewEventParser(ProgramID, testLogger())

	curve, err := DeriveBondingCurve(ProgramID, testMint)
	if err != nil {
		t.Fatalf("derive bonding curve: %v", err)
	}
	want := CreateEvent{
		Name:         "test token",
		Symbol:       "TST",
		URI:          "https://example.com/t.json",
		Mint:         testMint,
		BondingCurve: curve,
		User:         testSigner,
	}

	tx, meta := programTradeTx(buyData(1, 1), nil)
	meta.InnerInstructions = []rpc.InnerInstruction{{
		Index: 0,
		Instructions: []solana.CompiledInstruction{{
			ProgramIDIndex: 2,
			Data:           solana.Base58(createEventData(want)),
		}},
	}}

	events := p.ParseEvents(tx, meta)
	if len(events) != 1 || events[0].Kind != EventCreate {
		t.Fatalf("events = %+v, want one create", events)
	}
	got := events[0].Data.(*CreateEvent)
	if *got != want {
		t.Errorf("event = %+v, want %+v", got, want)
	}
}

func TestParseEventsSkipsForeignAndUnknown(t *testing.T) {
	p := NewEventParser(ProgramID, testLogger())

	ev := TradeEvent{Mint: testMint, SolAmount: 1, TokenAmount: 1, User: testSigner}
	tx, meta := programTradeTx(buyData(1, 1), &ev)

	// Same payload under a foreign program index plus a short garbage blob.
	meta.InnerInstructions[0].Instructions = append(meta.InnerInstructions[0].Instructions,
		solana.CompiledInstruction{ProgramIDIndex: 1, Data: solana.Base58(tradeEventData(ev))},
		solana.CompiledInstruction{ProgramIDIndex: 2, Data: solana.Base58([]byte{1, 2, 3})},
	)

	events := p.ParseEvents(tx, meta)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1 (foreign and short payloads skipped)", len(events))
	}
}

func TestParseEventsNilMeta(t *testing.T) {
	p := NewEventParser(ProgramID, testLogger())

	tx, _ := programTradeTx(buyData(1, 1), nil)
	if events := p.ParseEvents(tx, nil); events != nil {
		t.Fatalf("expected nil for nil meta, got %+v", events)
	}
}
