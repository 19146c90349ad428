package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/joho/godotenv"
	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"github.com/sirupsen/logrus"

	"github.com/franco-bianco/pumpfun-stream/geyser"
	"github.com/franco-bianco/pumpfun-stream/pumpfun"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})

	endpoint := os.Getenv("GEYSER_GRPC_URL")
	if endpoint == "" {
		log.Fatal("GEYSER_GRPC_URL is not set")
	}
	xToken := os.Getenv("GEYSER_X_TOKEN")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := geyser.Dial(ctx, endpoint)
	if err != nil {
		log.Fatalf("dial %s: %v", endpoint, err)
	}
	defer conn.Close()

	// Decoders are built once here and passed by reference; no globals.
	ixParser := pumpfun.NewInstructionParser(pumpfun.ProgramID, log)
	evParser := pumpfun.NewEventParser(pumpfun.ProgramID, log)
	heuristic := pumpfun.NewHeuristic(pumpfun.ProgramID, log)
	pipeline := pumpfun.NewPipeline(ixParser, evParser, heuristic, log)

	handler := func(tx *solana.Transaction, meta *rpc.TransactionMeta) {
		rec := pipeline.Decode(tx, meta)
		if rec == nil {
			return
		}
		log.WithFields(logrus.Fields{
			"from":         rec.Source,
			"type":         rec.Direction,
			"mint":         rec.Mint.String(),
			"signer":       rec.Signer.String(),
			"token_amount": rec.TokenAmount,
			"sol_amount":   rec.SolAmount,
			"signature":    rec.Signature.String(),
		}).Info("trade")
	}

	request := geyser.TransactionFilter(pumpfun.ProgramID.String())
	supervisor := geyser.NewSupervisor(pb.NewGeyserClient(conn), request, xToken, handler, log)

	log.Infof("subscribing to %s for program %s", endpoint, pumpfun.ProgramID)
	if err := supervisor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("stream supervisor: %v", err)
	}
}
