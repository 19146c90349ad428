package pumpfun

import (
	ag_binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"
)

type InstructionKind string

const (
	InstructionBuy     InstructionKind = "buy"
	InstructionSell    InstructionKind = "sell"
	InstructionCreate  InstructionKind = "create"
	InstructionUnknown InstructionKind = "unknown"
)

type BuyArgs struct {
	Amount     uint64
	MaxSolCost uint64
}

type SellArgs struct {
	Amount       uint64
	MinSolOutput uint64
}

type CreateArgs struct {
	Name   string
	Symbol string
	URI    string
}

// DecodedInstruction is one top-level instruction owned by the target program.
// Args is nil for unknown kinds (or when the argument payload is malformed).
type DecodedInstruction struct {
	Kind     InstructionKind
	Accounts solana.PublicKeySlice
	Args     interface{}
}

// InstructionParser decodes pump.fun instructions by Anchor discriminator.
// One parser instance is scoped to a single program id for its lifetime.
type InstructionParser struct {
	programID solana.PublicKey
	Log       *logrus.Logger
}

func NewInstructionParser(programID solana.PublicKey, log *logrus.Logger) *InstructionParser {
	return &InstructionParser{programID: programID, Log: log}
}

// ParseInstructions walks the top-level compiled instructions and returns
// decoded records for those owned by the parser's program. Instructions of
// other programs are skipped, never errors.
func (p *InstructionParser) ParseInstructions(tx *solana.Transaction, meta *rpc.TransactionMeta) []DecodedInstruction {
	keys := allAccountKeys(tx, meta)

	var out []DecodedInstruction
	for _, inst := range tx.Message.Instructions {
		if int(inst.ProgramIDIndex) >= len(keys) {
			continue
		}
		if !keys[inst.ProgramIDIndex].Equals(p.programID) {
			continue
		}
		out = append(out, p.decodeInstruction(inst, keys))
	}
	return out
}

func (p *InstructionParser) decodeInstruction(inst solana.CompiledInstruction, keys solana.PublicKeySlice) DecodedInstruction {
	dec := DecodedInstruction{Kind: InstructionUnknown}

	for _, idx := range inst.Accounts {
		if int(idx) < len(keys) {
			dec.Accounts = append(dec.Accounts, keys[idx])
		}
	}

	raw := instructionData(inst)
	if len(raw) < 8 {
		return dec
	}
	var disc [8]byte
	copy(disc[:], raw[:8])

	switch disc {
	case BuyDiscriminator:
		dec.Kind = InstructionBuy
		var args BuyArgs
		if err := ag_binary.NewBorshDecoder(raw[8:]).Decode(&args); err != nil {
			p.Log.Errorf("error decoding buy args: %s", err)
			return dec
		}
		dec.Args = &args
	case SellDiscriminator:
		dec.Kind = InstructionSell
		var args SellArgs
		if err := ag_binary.NewBorshDecoder(raw[8:]).Decode(&args); err != nil {
			p.Log.Errorf("error decoding sell args: %s", err)
			return dec
		}
		dec.Args = &args
	case CreateDiscriminator:
		dec.Kind = InstructionCreate
		var args CreateArgs
		if err := ag_binary.NewBorshDecoder(raw[8:]).Decode(&args); err != nil {
			p.Log.Errorf("error decoding create args: %s", err)
			return dec
		}
		dec.Args = &args
	}
	return dec
}

// instructionData recovers the raw byte payload of a compiled instruction.
func instructionData(inst solana.CompiledInstruction) []byte {
	enc := inst.Data.String()
	if len(enc) == 0 {
		return nil
	}
	raw, err := base58.Decode(enc)
	if err != nil {
		return nil
	}
	return raw
}

// allAccountKeys flattens static keys plus lookup-table loaded addresses,
// in the order on-chain indices reference them.
func allAccountKeys(tx *solana.Transaction, meta *rpc.TransactionMeta) solana.PublicKeySlice {
	keys := append(solana.PublicKeySlice{}, tx.Message.AccountKeys...)
	if meta != nil {
		keys = append(keys, meta.LoadedAddresses.Writable...)
		keys = append(keys, meta.LoadedAddresses.ReadOnly...)
	}
	return keys
}
