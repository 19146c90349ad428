// Package geyser owns the Yellowstone gRPC subscription: dialing, the
// session supervisor, and conversion of raw feed transactions into the
// solana-go shapes the decoders consume.
package geyser

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
)

const (
	maxRecvMsgSize = 64 * 1024 * 1024
	maxSendMsgSize = 8 * 1024 * 1024
)

// Dial opens a gRPC connection to a geyser endpoint. Accepts either a URL
// (https://host[:port]) or plain host:port; https and bare hosts get TLS,
// http:// gets plaintext (local validators).
func Dial(ctx context.Context, endpoint string) (*grpc.ClientConn, error) {
	target, plaintext, err := resolveTarget(endpoint)
	if err != nil {
		return nil, err
	}

	creds := grpc.WithTransportCredentials(credentials.NewClientTLSFromCert(nil, ""))
	if plaintext {
		creds = grpc.WithTransportCredentials(insecure.NewCredentials())
	}

	conn, err := grpc.DialContext(ctx, target,
		creds,
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                30 * time.Second,
			Timeout:             5 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(maxRecvMsgSize),
			grpc.MaxCallSendMsgSize(maxSendMsgSize),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}
	return conn, nil
}

func resolveTarget(endpoint string) (target string, plaintext bool, err error) {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return "", false, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
		}
		plaintext = u.Scheme == "http"
		if u.Port() != "" {
			return u.Host, plaintext, nil
		}
		if plaintext {
			return u.Hostname() + ":80", true, nil
		}
		return u.Hostname() + ":443", false, nil
	}
	if strings.Contains(endpoint, ":") {
		return endpoint, false, nil
	}
	return endpoint + ":443", false, nil
}
