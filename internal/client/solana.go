package client

import (
	"context"
	"errors"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/sirupsen/logrus"
)

const (
	defaultConfirmTimeout = 2 * time.Minute
	defaultPollInterval   = 400 * time.Millisecond // ~one slot
)

// Options controls how the client waits for transaction finality.
type Options struct {
	// Commitment is the depth a transaction must reach before SubmitAndConfirm returns.
	// Defaults to finalized.
	Commitment rpc.CommitmentType

	// ConfirmTimeout bounds the wait for confirmation. Defaults to 2 minutes.
	ConfirmTimeout time.Duration

	// PollInterval is used when no stream endpoint is available.
	PollInterval time.Duration
}

// SolanaClient is the gateway to a Solana cluster: a JSON-RPC channel for reads and
// submissions plus an optional websocket channel for confirmation notifications.
type SolanaClient struct {
	rpcClient *rpc.Client
	wsClient  *ws.Client // nil when confirmations are polled
	rpcURL    string
	wsURL     string

	commitment     rpc.CommitmentType
	confirmTimeout time.Duration
	pollInterval   time.Duration

	log *logrus.Entry
}

// Connect creates a client for the given RPC and stream endpoints.
// An empty streamURL is derived from rpcURL. When the stream cannot be opened the
// client falls back to polling signature statuses over RPC. It fails with
// *ConnectionError when neither the stream nor the RPC endpoint answers.
func Connect(ctx context.Context, rpcURL, streamURL string, opts Options) (*SolanaClient, error) {
	if err := validateEndpoint(rpcURL, "http", "https"); err != nil {
		return nil, &ConnectionError{Endpoint: rpcURL, Err: err}
	}

	c := newSolanaClient(rpc.New(rpcURL), nil, opts)
	c.rpcURL = rpcURL

	if streamURL == "" {
		derived, err := WebsocketURL(rpcURL)
		if err != nil {
			return nil, &ConnectionError{Endpoint: rpcURL, Err: err}
		}
		streamURL = derived
	}
	c.wsURL = streamURL

	log := c.log.WithFields(logrus.Fields{
		"rpc":    rpcURL,
		"stream": streamURL,
	})

	wsClient, err := dialStream(ctx, streamURL)
	if err != nil {
		if err := c.checkRPC(ctx); err != nil {
			c.rpcClient.Close()
			return nil, &ConnectionError{Endpoint: rpcURL, Err: err}
		}
		log.WithError(err).Warn("stream endpoint unavailable, confirmations will be polled")
		return c, nil
	}
	c.wsClient = wsClient

	log.Debug("connected")
	return c, nil
}

func dialStream(ctx context.Context, streamURL string) (*ws.Client, error) {
	if err := validateEndpoint(streamURL, "ws", "wss"); err != nil {
		return nil, err
	}
	return ws.Connect(ctx, streamURL)
}

// checkRPC makes one round-trip to the RPC endpoint. A node that answers with an
// RPC error, e.g. while it is behind, is reachable and can be polled.
func (c *SolanaClient) checkRPC(ctx context.Context) error {
	_, err := c.rpcClient.GetHealth(ctx)
	var rpcErr *jsonrpc.RPCError
	if err != nil && !errors.As(err, &rpcErr) {
		return err
	}
	return nil
}

func newSolanaClient(rpcClient *rpc.Client, wsClient *ws.Client, opts Options) *SolanaClient {
	if opts.Commitment == "" {
		opts.Commitment = rpc.CommitmentFinalized
	}
	if opts.ConfirmTimeout <= 0 {
		opts.ConfirmTimeout = defaultConfirmTimeout
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}

	return &SolanaClient{
		rpcClient:      rpcClient,
		wsClient:       wsClient,
		commitment:     opts.Commitment,
		confirmTimeout: opts.ConfirmTimeout,
		pollInterval:   opts.PollInterval,
		log:            logrus.StandardLogger().WithField("type", "client/solana"),
	}
}

// Close releases both channels.
func (c *SolanaClient) Close() error {
	if c.wsClient != nil {
		c.wsClient.Close()
	}
	return c.rpcClient.Close()
}

// Streaming reports whether confirmations arrive over the websocket channel.
func (c *SolanaClient) Streaming() bool {
	return c.wsClient != nil
}

// GetAccount returns the raw data stored at address, or ErrAccountNotFound.
func (c *SolanaClient) GetAccount(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	out, err := c.rpcClient.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: c.commitment,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, &NetworkError{Op: "getAccountInfo", Err: err}
	}

	data := out.GetBinary()
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

// MinimumFundingFor returns the lamports an account of size bytes must hold to be rent exempt.
func (c *SolanaClient) MinimumFundingFor(ctx context.Context, size uint64) (uint64, error) {
	lamports, err := c.rpcClient.GetMinimumBalanceForRentExemption(ctx, size, c.commitment)
	if err != nil {
		return 0, &NetworkError{Op: "getMinimumBalanceForRentExemption", Err: err}
	}
	return lamports, nil
}

// SubmitAndConfirm builds a transaction from instructions, signs it with signers
// (the first signer pays the fee), submits it and blocks until it reaches the
// configured commitment or the confirmation timeout elapses.
func (c *SolanaClient) SubmitAndConfirm(ctx context.Context, instructions []solana.Instruction, signers ...solana.PrivateKey) (solana.Signature, error) {
	if len(signers) == 0 {
		return solana.Signature{}, &SubmissionError{Reason: "at least one signer is required"}
	}
	feePayer := signers[0].PublicKey()

	recent, err := c.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, &SubmissionError{Reason: "failed to get recent blockhash", Err: err}
	}
	if recent == nil || recent.Value == nil {
		return solana.Signature{}, &SubmissionError{Reason: "empty blockhash response"}
	}

	tx, err := solana.NewTransaction(
		instructions,
		recent.Value.Blockhash,
		solana.TransactionPayer(feePayer),
	)
	if err != nil {
		return solana.Signature{}, &SubmissionError{Reason: "failed to create transaction", Err: err}
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		for i := range signers {
			if signers[i].PublicKey().Equals(key) {
				return &signers[i]
			}
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, &SubmissionError{Reason: "failed to sign transaction", Err: err}
	}
	sig := tx.Signatures[0]

	log := c.log.WithFields(logrus.Fields{
		"method":    "SubmitAndConfirm",
		"signature": sig.String(),
		"payer":     feePayer.String(),
	})

	_, err = c.rpcClient.SendTransactionWithOpts(
		ctx,
		tx,
		rpc.TransactionOpts{
			SkipPreflight:       false,
			PreflightCommitment: c.commitment,
		},
	)
	if err != nil {
		var rpcErr *jsonrpc.RPCError
		if errors.As(err, &rpcErr) {
			log.WithField("rpc_message", rpcErr.Message).Info("transaction rejected")
			return sig, withSignature(parseRPCError(rpcErr), sig)
		}
		log.WithError(err).Warn("failed to send transaction")
		return sig, &SubmissionError{Signature: sig, Reason: "failed to send transaction", Err: err}
	}

	log.Debug("transaction sent, waiting for confirmation")

	if err := c.waitForConfirmation(ctx, sig); err != nil {
		log.WithError(err).Info("transaction not confirmed")
		return sig, withSignature(err, sig)
	}

	log.WithField("commitment", c.commitment).Debug("transaction confirmed")
	return sig, nil
}
