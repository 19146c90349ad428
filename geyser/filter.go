package geyser

import (
	"github.com/AlekSi/pointer"
	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
)

// TransactionFilter builds the one subscribe request sent per session:
// confirmed non-vote, non-failed transactions whose account set includes
// program. All other filter categories stay empty.
func TransactionFilter(program string) *pb.SubscribeRequest {
	commitment := pb.CommitmentLevel_CONFIRMED
	return &pb.SubscribeRequest{
		Transactions: map[string]*pb.SubscribeRequestFilterTransactions{
			"pumpFun": {
				Vote:            pointer.ToBool(false),
				Failed:          pointer.ToBool(false),
				AccountInclude:  []string{program},
				AccountExclude:  []string{},
				AccountRequired: []string{},
			},
		},
		Accounts:           map[string]*pb.SubscribeRequestFilterAccounts{},
		Slots:              map[string]*pb.SubscribeRequestFilterSlots{},
		TransactionsStatus: map[string]*pb.SubscribeRequestFilterTransactions{},
		Blocks:             map[string]*pb.SubscribeRequestFilterBlocks{},
		BlocksMeta:         map[string]*pb.SubscribeRequestFilterBlocksMeta{},
		Entry:              map[string]*pb.SubscribeRequestFilterEntry{},
		AccountsDataSlice:  []*pb.SubscribeRequestAccountsDataSlice{},
		Commitment:         &commitment,
	}
}
