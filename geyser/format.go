package geyser

import (
	"errors"
	"fmt"

	"github.com/AlekSi/pointer"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
)

// FormatTransaction converts a raw geyser transaction update into the
// solana-go transaction + meta pair the decode pipeline consumes. Pure
// conversion; errors only on structurally malformed payloads.
func FormatTransaction(upd *pb.SubscribeUpdateTransaction) (*solana.Transaction, *rpc.TransactionMeta, error) {
	info := upd.GetTransaction()
	if info == nil || info.GetTransaction() == nil || info.GetTransaction().GetMessage() == nil {
		return nil, nil, errors.New("transaction update missing payload")
	}
	raw := info.GetTransaction()
	msg := raw.GetMessage()

	tx := &solana.Transaction{}
	for _, sig := range raw.GetSignatures() {
		s, err := solana.SignatureFromBytes(sig)
		if err != nil {
			return nil, nil, fmt.Errorf("bad signature: %w", err)
		}
		tx.Signatures = append(tx.Signatures, s)
	}

	keys, err := keysFromBytes(msg.GetAccountKeys())
	if err != nil {
		return nil, nil, err
	}
	tx.Message.AccountKeys = keys

	if h := msg.GetHeader(); h != nil {
		tx.Message.Header = solana.MessageHeader{
			NumRequiredSignatures:       uint8(h.GetNumRequiredSignatures()),
			NumReadonlySignedAccounts:   uint8(h.GetNumReadonlySignedAccounts()),
			NumReadonlyUnsignedAccounts: uint8(h.GetNumReadonlyUnsignedAccounts()),
		}
	}
	if bh := msg.GetRecentBlockhash(); len(bh) == solana.PublicKeyLength {
		tx.Message.RecentBlockhash = solana.Hash(solana.PublicKeyFromBytes(bh))
	}

	for _, ci := range msg.GetInstructions() {
		tx.Message.Instructions = append(tx.Message.Instructions, compiledInstruction(ci.GetProgramIdIndex(), ci.GetAccounts(), ci.GetData()))
	}

	if msg.GetVersioned() {
		tx.Message.SetVersion(solana.MessageVersionV0)
		for _, lookup := range msg.GetAddressTableLookups() {
			key, err := keyFromBytes(lookup.GetAccountKey())
			if err != nil {
				return nil, nil, fmt.Errorf("bad lookup table key: %w", err)
			}
			tx.Message.AddressTableLookups = append(tx.Message.AddressTableLookups, solana.MessageAddressTableLookup{
				AccountKey:      key,
				WritableIndexes: lookup.GetWritableIndexes(),
				ReadonlyIndexes: lookup.GetReadonlyIndexes(),
			})
		}
	}

	meta, err := formatMeta(info.GetMeta())
	if err != nil {
		return nil, nil, err
	}
	return tx, meta, nil
}

func formatMeta(m *pb.TransactionStatusMeta) (*rpc.TransactionMeta, error) {
	if m == nil {
		return nil, errors.New("transaction update missing meta")
	}

	meta := &rpc.TransactionMeta{
		Fee:          m.GetFee(),
		PreBalances:  m.GetPreBalances(),
		PostBalances: m.GetPostBalances(),
		LogMessages:  m.GetLogMessages(),
	}
	if txErr := m.GetErr(); txErr != nil {
		meta.Err = txErr.GetErr()
	}

	for _, inner := range m.GetInnerInstructions() {
		set := rpc.InnerInstruction{Index: uint16(inner.GetIndex())}
		for _, ci := range inner.GetInstructions() {
			set.Instructions = append(set.Instructions, compiledInstruction(ci.GetProgramIdIndex(), ci.GetAccounts(), ci.GetData()))
		}
		meta.InnerInstructions = append(meta.InnerInstructions, set)
	}

	meta.PreTokenBalances = tokenBalances(m.GetPreTokenBalances())
	meta.PostTokenBalances = tokenBalances(m.GetPostTokenBalances())

	writable, err := keysFromBytes(m.GetLoadedWritableAddresses())
	if err != nil {
		return nil, fmt.Errorf("loaded writable addresses: %w", err)
	}
	readonly, err := keysFromBytes(m.GetLoadedReadonlyAddresses())
	if err != nil {
		return nil, fmt.Errorf("loaded readonly addresses: %w", err)
	}
	meta.LoadedAddresses = rpc.LoadedAddresses{Writable: writable, ReadOnly: readonly}

	return meta, nil
}

// tokenBalances converts proto token-balance rows; rows with unparseable
// mints are dropped rather than failing the whole transaction.
func tokenBalances(rows []*pb.TokenBalance) []rpc.TokenBalance {
	var out []rpc.TokenBalance
	for _, row := range rows {
		mint, err := solana.PublicKeyFromBase58(row.GetMint())
		if err != nil {
			continue
		}
		tb := rpc.TokenBalance{
			AccountIndex: uint16(row.GetAccountIndex()),
			Mint:         mint,
		}
		if owner, err := solana.PublicKeyFromBase58(row.GetOwner()); err == nil {
			tb.Owner = &owner
		}
		if ui := row.GetUiTokenAmount(); ui != nil {
			tb.UiTokenAmount = &rpc.UiTokenAmount{
				Amount:         ui.GetAmount(),
				Decimals:       uint8(ui.GetDecimals()),
				UiAmount:       pointer.ToFloat64(ui.GetUiAmount()),
				UiAmountString: ui.GetUiAmountString(),
			}
		}
		out = append(out, tb)
	}
	return out
}

func compiledInstruction(programIdx uint32, accounts []byte, data []byte) solana.CompiledInstruction {
	inst := solana.CompiledInstruction{
		ProgramIDIndex: uint16(programIdx),
		Data:           solana.Base58(data),
	}
	for _, a := range accounts {
		inst.Accounts = append(inst.Accounts, uint16(a))
	}
	return inst
}

func keyFromBytes(b []byte) (solana.PublicKey, error) {
	if len(b) != solana.PublicKeyLength {
		return solana.PublicKey{}, fmt.Errorf("account key has %d bytes, want %d", len(b), solana.PublicKeyLength)
	}
	return solana.PublicKeyFromBytes(b), nil
}

func keysFromBytes(raw [][]byte) (solana.PublicKeySlice, error) {
	var keys solana.PublicKeySlice
	for _, b := range raw {
		key, err := keyFromBytes(b)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}
