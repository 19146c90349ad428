package geyser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// restartDelay is the fixed wait between sessions. No growth, no cap: a
// persistently broken transport produces one error log per second until an
// operator intervenes.
const restartDelay = time.Second

// TransactionHandler receives each normalized transaction synchronously;
// the next message is not read until it returns.
type TransactionHandler func(tx *solana.Transaction, meta *rpc.TransactionMeta)

// Opener opens one subscribe stream. Satisfied by pb.GeyserClient.
type Opener interface {
	Subscribe(ctx context.Context, opts ...grpc.CallOption) (pb.Geyser_SubscribeClient, error)
}

// Supervisor owns the subscription lifecycle: open a session, send the
// filter once, consume updates, and on any terminal signal wait a fixed
// delay and reopen with the same filter. Run loops until ctx is canceled.
type Supervisor struct {
	opener  Opener
	request *pb.SubscribeRequest
	xToken  string
	handler TransactionHandler
	delay   time.Duration
	Log     *logrus.Logger
}

func NewSupervisor(opener Opener, request *pb.SubscribeRequest, xToken string, handler TransactionHandler, log *logrus.Logger) *Supervisor {
	return &Supervisor{
		opener:  opener,
		request: request,
		xToken:  xToken,
		handler: handler,
		delay:   restartDelay,
		Log:     log,
	}
}

// Run supervises sessions forever. The only exit is ctx cancellation, whose
// error is returned so callers can distinguish shutdown from a panic-free
// fall-through (there is none).
func (s *Supervisor) Run(ctx context.Context) error {
	for {
		err := s.runSession(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			s.Log.Errorf("stream error, restarting in %s: %s", s.delay, err)
		} else {
			s.Log.Infof("stream closed by server, restarting in %s", s.delay)
		}

		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// runSession drives one subscription session to its terminal signal.
// A nil return means the server ended or closed the stream gracefully.
func (s *Supervisor) runSession(ctx context.Context) error {
	if s.xToken != "" {
		ctx = metadata.NewOutgoingContext(ctx, metadata.New(map[string]string{"x-token": s.xToken}))
	}

	stream, err := s.opener.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	// The filter write is fallible and terminal for this attempt.
	if err := stream.Send(s.request); err != nil {
		_ = stream.CloseSend()
		return fmt.Errorf("send subscribe request: %w", err)
	}

	for {
		upd, err := stream.Recv()
		if err != nil {
			_ = stream.CloseSend()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if st, ok := status.FromError(err); ok && st.Code() == codes.Canceled {
				return nil
			}
			return fmt.Errorf("stream recv: %w", err)
		}
		s.dispatch(stream, upd)
	}
}

func (s *Supervisor) dispatch(stream pb.Geyser_SubscribeClient, upd *pb.SubscribeUpdate) {
	switch u := upd.GetUpdateOneof().(type) {
	case *pb.SubscribeUpdate_Ping:
		pong := &pb.SubscribeRequest{Ping: &pb.SubscribeRequestPing{Id: 1}}
		if err := stream.Send(pong); err != nil {
			s.Log.Warnf("pong send failed: %s", err)
		}
	case *pb.SubscribeUpdate_Transaction:
		if u.Transaction == nil {
			return
		}
		tx, meta, err := FormatTransaction(u.Transaction)
		if err != nil {
			s.Log.Debugf("skipping malformed transaction update: %s", err)
			return
		}
		s.handler(tx, meta)
	default:
		// Pongs and update types we never subscribed to.
	}
}
