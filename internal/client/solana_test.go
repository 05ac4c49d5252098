package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logrus.StandardLogger().Out = io.Discard
	os.Exit(m.Run())
}

type rpcMethod func(params []json.RawMessage) (interface{}, *jsonrpc.RPCError)

// fakeRPC answers JSON-RPC calls from per-method handlers and counts them.
type fakeRPC struct {
	mu       sync.Mutex
	handlers map[string]rpcMethod
	calls    map[string]int
	params   map[string][]json.RawMessage
}

func newFakeRPC(t *testing.T) (*fakeRPC, *httptest.Server) {
	f := &fakeRPC{
		handlers: make(map[string]rpcMethod),
		calls:    make(map[string]int),
		params:   make(map[string][]json.RawMessage),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
			ID     json.RawMessage   `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		f.calls[req.Method]++
		f.params[req.Method] = req.Params
		handler, ok := f.handlers[req.Method]
		f.mu.Unlock()

		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
		}
		if !ok {
			resp["error"] = &jsonrpc.RPCError{Code: -32601, Message: "Method not found"}
		} else if result, rpcErr := handler(req.Params); rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	return f, srv
}

func (f *fakeRPC) handle(method string, h rpcMethod) {
	f.mu.Lock()
	f.handlers[method] = h
	f.mu.Unlock()
}

func (f *fakeRPC) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeRPC) lastParams(method string) []json.RawMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.params[method]
}

func withContext(value interface{}) map[string]interface{} {
	return map[string]interface{}{
		"context": map[string]interface{}{"slot": 1},
		"value":   value,
	}
}

func signatureStatus(status rpc.ConfirmationStatusType, txErr interface{}) map[string]interface{} {
	return map[string]interface{}{
		"slot":               5,
		"confirmations":      nil,
		"err":                txErr,
		"confirmationStatus": status,
	}
}

func newTestClient(t *testing.T, opts Options) (*SolanaClient, *fakeRPC) {
	if opts.PollInterval == 0 {
		opts.PollInterval = 5 * time.Millisecond
	}
	if opts.ConfirmTimeout == 0 {
		opts.ConfirmTimeout = 5 * time.Second
	}

	f, srv := newFakeRPC(t)
	c := newSolanaClient(rpc.New(srv.URL), nil, opts)
	t.Cleanup(func() { c.Close() })

	f.handle("getLatestBlockhash", func([]json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		return withContext(map[string]interface{}{
			"blockhash":            solana.Hash{9, 9, 9}.String(),
			"lastValidBlockHeight": 100,
		}), nil
	})
	f.handle("sendTransaction", func([]json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		return solana.Signature{1, 2, 3}.String(), nil
	})

	return c, f
}

func testInstruction() solana.Instruction {
	return solana.NewInstruction(
		solana.NewWallet().PublicKey(),
		solana.AccountMetaSlice{solana.Meta(solana.NewWallet().PublicKey()).WRITE()},
		[]byte{},
	)
}

func TestGetAccount(t *testing.T) {
	c, f := newTestClient(t, Options{})
	f.handle("getAccountInfo", func([]json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		return withContext(map[string]interface{}{
			"data":       []string{base64.StdEncoding.EncodeToString([]byte{0x02, 0x00, 0x00, 0x00}), "base64"},
			"executable": false,
			"lamports":   946560,
			"owner":      solana.SystemProgramID.String(),
		}), nil
	})

	data, err := c.GetAccount(context.Background(), solana.NewWallet().PublicKey())
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x00, 0x00, 0x00}, data)
}

func TestGetAccount_NotFound(t *testing.T) {
	c, f := newTestClient(t, Options{})
	f.handle("getAccountInfo", func([]json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		return withContext(nil), nil
	})

	_, err := c.GetAccount(context.Background(), solana.NewWallet().PublicKey())
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.False(t, IsNetworkError(err))
}

func TestGetAccount_NetworkError(t *testing.T) {
	c, f := newTestClient(t, Options{})
	f.handle("getAccountInfo", func([]json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		return nil, &jsonrpc.RPCError{Code: -32005, Message: "Node is behind"}
	})

	_, err := c.GetAccount(context.Background(), solana.NewWallet().PublicKey())
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
	assert.NotErrorIs(t, err, ErrAccountNotFound)
}

func TestMinimumFundingFor(t *testing.T) {
	c, f := newTestClient(t, Options{})
	f.handle("getMinimumBalanceForRentExemption", func([]json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		return 946560, nil
	})

	lamports, err := c.MinimumFundingFor(context.Background(), 4)
	require.NoError(t, err)
	assert.EqualValues(t, 946560, lamports)

	params := f.lastParams("getMinimumBalanceForRentExemption")
	require.NotEmpty(t, params)
	assert.JSONEq(t, "4", string(params[0]))
}

func TestSubmitAndConfirm_PollsUntilCommitment(t *testing.T) {
	c, f := newTestClient(t, Options{})

	var mu sync.Mutex
	statuses := []interface{}{
		nil,
		signatureStatus(rpc.ConfirmationStatusProcessed, nil),
		signatureStatus(rpc.ConfirmationStatusConfirmed, nil),
		signatureStatus(rpc.ConfirmationStatusFinalized, nil),
	}
	f.handle("getSignatureStatuses", func([]json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		mu.Lock()
		defer mu.Unlock()
		next := statuses[0]
		if len(statuses) > 1 {
			statuses = statuses[1:]
		}
		if next != nil {
			// Processed and confirmed statuses still carry a confirmation count.
			if s := next.(map[string]interface{}); s["confirmationStatus"] != rpc.ConfirmationStatusFinalized {
				s["confirmations"] = 1
			}
		}
		return withContext([]interface{}{next}), nil
	})

	payer := solana.NewWallet().PrivateKey
	sig, err := c.SubmitAndConfirm(context.Background(), []solana.Instruction{testInstruction()}, payer)
	require.NoError(t, err)
	assert.False(t, sig.IsZero())
	assert.Equal(t, 4, f.callCount("getSignatureStatuses"))
	assert.Equal(t, 1, f.callCount("sendTransaction"))

	params := f.lastParams("sendTransaction")
	require.NotEmpty(t, params)
	var encoded string
	require.NoError(t, json.Unmarshal(params[0], &encoded))

	tx, err := solana.TransactionFromBase64(encoded)
	require.NoError(t, err)
	require.NotEmpty(t, tx.Signatures)
	assert.Equal(t, sig, tx.Signatures[0])
	assert.Equal(t, payer.PublicKey(), tx.Message.AccountKeys[0])
	assert.Equal(t, solana.Hash{9, 9, 9}, tx.Message.RecentBlockhash)
}

func TestSubmitAndConfirm_ConfirmedCommitment(t *testing.T) {
	c, f := newTestClient(t, Options{Commitment: rpc.CommitmentConfirmed})
	f.handle("getSignatureStatuses", func([]json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		status := signatureStatus(rpc.ConfirmationStatusConfirmed, nil)
		status["confirmations"] = 3
		return withContext([]interface{}{status}), nil
	})

	_, err := c.SubmitAndConfirm(context.Background(), []solana.Instruction{testInstruction()}, solana.NewWallet().PrivateKey)
	require.NoError(t, err)
	assert.Equal(t, 1, f.callCount("getSignatureStatuses"))
}

func TestSubmitAndConfirm_PreflightInstructionError(t *testing.T) {
	c, f := newTestClient(t, Options{})
	f.handle("sendTransaction", func([]json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		return nil, &jsonrpc.RPCError{
			Code:    -32002,
			Message: "Transaction simulation failed: Error processing Instruction 0: custom program error: 0x1",
			Data: map[string]interface{}{
				"err": map[string]interface{}{
					"InstructionError": []interface{}{0, map[string]interface{}{"Custom": 1}},
				},
			},
		}
	})

	sig, err := c.SubmitAndConfirm(context.Background(), []solana.Instruction{testInstruction()}, solana.NewWallet().PrivateKey)
	require.Error(t, err)
	assert.True(t, IsInstructionError(err))

	var instErr *InstructionError
	require.ErrorAs(t, err, &instErr)
	assert.Equal(t, 0, instErr.Index)
	require.NotNil(t, instErr.CustomCode)
	assert.EqualValues(t, 1, *instErr.CustomCode)
	assert.Equal(t, sig, instErr.Signature)
	assert.Zero(t, f.callCount("getSignatureStatuses"))
}

func TestSubmitAndConfirm_PreflightRejected(t *testing.T) {
	c, f := newTestClient(t, Options{})
	f.handle("sendTransaction", func([]json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		return nil, &jsonrpc.RPCError{
			Code:    -32002,
			Message: "Transaction simulation failed: Blockhash not found",
			Data:    map[string]interface{}{"err": "BlockhashNotFound"},
		}
	})

	_, err := c.SubmitAndConfirm(context.Background(), []solana.Instruction{testInstruction()}, solana.NewWallet().PrivateKey)
	require.Error(t, err)
	assert.True(t, IsSubmissionError(err))
	assert.False(t, IsTimeoutError(err))
	assert.Contains(t, err.Error(), "BlockhashNotFound")
}

func TestSubmitAndConfirm_ExecutionFailure(t *testing.T) {
	c, f := newTestClient(t, Options{})
	f.handle("getSignatureStatuses", func([]json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		return withContext([]interface{}{
			signatureStatus(rpc.ConfirmationStatusProcessed, map[string]interface{}{
				"InstructionError": []interface{}{0, "InvalidAccountData"},
			}),
		}), nil
	})

	_, err := c.SubmitAndConfirm(context.Background(), []solana.Instruction{testInstruction()}, solana.NewWallet().PrivateKey)
	require.Error(t, err)

	var instErr *InstructionError
	require.ErrorAs(t, err, &instErr)
	assert.Equal(t, "InvalidAccountData", instErr.Reason)
	assert.Nil(t, instErr.CustomCode)
	assert.False(t, instErr.Signature.IsZero())
}

func TestSubmitAndConfirm_Timeout(t *testing.T) {
	c, f := newTestClient(t, Options{ConfirmTimeout: 50 * time.Millisecond})
	f.handle("getSignatureStatuses", func([]json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		return withContext([]interface{}{nil}), nil
	})

	sig, err := c.SubmitAndConfirm(context.Background(), []solana.Instruction{testInstruction()}, solana.NewWallet().PrivateKey)
	require.Error(t, err)
	assert.True(t, IsTimeoutError(err))

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, sig, subErr.Signature)
	assert.Greater(t, f.callCount("getSignatureStatuses"), 1)
}

func TestSubmitAndConfirm_StatusErrorsAreRetried(t *testing.T) {
	c, f := newTestClient(t, Options{})

	var mu sync.Mutex
	failures := 2
	f.handle("getSignatureStatuses", func([]json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		mu.Lock()
		defer mu.Unlock()
		if failures > 0 {
			failures--
			return nil, &jsonrpc.RPCError{Code: -32005, Message: "Node is behind"}
		}
		return withContext([]interface{}{signatureStatus(rpc.ConfirmationStatusFinalized, nil)}), nil
	})

	_, err := c.SubmitAndConfirm(context.Background(), []solana.Instruction{testInstruction()}, solana.NewWallet().PrivateKey)
	require.NoError(t, err)
	assert.Equal(t, 3, f.callCount("getSignatureStatuses"))
}

func TestSubmitAndConfirm_CallerDeadline(t *testing.T) {
	c, f := newTestClient(t, Options{})
	f.handle("getSignatureStatuses", func([]json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		return withContext([]interface{}{nil}), nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.SubmitAndConfirm(ctx, []solana.Instruction{testInstruction()}, solana.NewWallet().PrivateKey)
	require.Error(t, err)
	assert.True(t, IsSubmissionError(err))
}

func TestSubmitAndConfirm_BlockhashUnavailable(t *testing.T) {
	c, f := newTestClient(t, Options{})
	f.handle("getLatestBlockhash", func([]json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		return nil, &jsonrpc.RPCError{Code: -32603, Message: "Internal error"}
	})

	_, err := c.SubmitAndConfirm(context.Background(), []solana.Instruction{testInstruction()}, solana.NewWallet().PrivateKey)
	require.Error(t, err)
	assert.True(t, IsSubmissionError(err))
	assert.Zero(t, f.callCount("sendTransaction"))
}

func TestSubmitAndConfirm_NoSigners(t *testing.T) {
	c, f := newTestClient(t, Options{})

	_, err := c.SubmitAndConfirm(context.Background(), []solana.Instruction{testInstruction()})
	require.Error(t, err)
	assert.True(t, IsSubmissionError(err))
	assert.Zero(t, f.callCount("getLatestBlockhash"))
}

func TestCommitmentReached(t *testing.T) {
	one := uint64(1)

	for _, tc := range []struct {
		status     rpc.ConfirmationStatusType
		rooted     bool
		commitment rpc.CommitmentType
		expected   bool
	}{
		{rpc.ConfirmationStatusProcessed, false, rpc.CommitmentProcessed, true},
		{rpc.ConfirmationStatusProcessed, false, rpc.CommitmentConfirmed, false},
		{rpc.ConfirmationStatusProcessed, false, rpc.CommitmentFinalized, false},
		{rpc.ConfirmationStatusConfirmed, false, rpc.CommitmentConfirmed, true},
		{rpc.ConfirmationStatusConfirmed, false, rpc.CommitmentFinalized, false},
		{rpc.ConfirmationStatusFinalized, true, rpc.CommitmentFinalized, true},
		{rpc.ConfirmationStatusFinalized, true, rpc.CommitmentConfirmed, true},
		{"", true, rpc.CommitmentFinalized, true},
	} {
		status := &rpc.SignatureStatusesResult{ConfirmationStatus: tc.status}
		if !tc.rooted {
			status.Confirmations = &one
		}
		assert.Equal(t, tc.expected, commitmentReached(status, tc.commitment), "%s at %s", tc.status, tc.commitment)
	}
}

func TestConnect(t *testing.T) {
	f, srv := newFakeRPC(t)
	f.handle("getHealth", func([]json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		return rpc.HealthOk, nil
	})

	for _, endpoint := range []string{"", "ftp://api.devnet.solana.com", "not a url", "http://"} {
		_, err := Connect(context.Background(), endpoint, "", Options{})
		require.Error(t, err, endpoint)
		assert.True(t, IsConnectionError(err), endpoint)
	}

	// The test server does not upgrade to websocket, so confirmations fall back to polling.
	streamURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, err := Connect(context.Background(), srv.URL, streamURL, Options{})
	require.NoError(t, err)
	assert.False(t, c.Streaming())
	assert.Equal(t, srv.URL, c.rpcURL)
	assert.Equal(t, 1, f.callCount("getHealth"))
	require.NoError(t, c.Close())

	c, err = Connect(context.Background(), srv.URL, "http://example.com", Options{})
	require.NoError(t, err)
	assert.False(t, c.Streaming())
	assert.Equal(t, "http://example.com", c.wsURL)
	assert.Equal(t, 2, f.callCount("getHealth"))
	require.NoError(t, c.Close())
}

func TestConnect_NodeBehind(t *testing.T) {
	f, srv := newFakeRPC(t)
	f.handle("getHealth", func([]json.RawMessage) (interface{}, *jsonrpc.RPCError) {
		return nil, &jsonrpc.RPCError{Code: -32005, Message: "Node is behind by 42 slots"}
	})

	c, err := Connect(context.Background(), srv.URL, "ws://127.0.0.1:1", Options{})
	require.NoError(t, err)
	assert.False(t, c.Streaming())
	require.NoError(t, c.Close())
}

func TestConnect_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	rpcURL := srv.URL
	srv.Close()

	c, err := Connect(context.Background(), rpcURL, "ws"+strings.TrimPrefix(rpcURL, "http"), Options{})
	require.Error(t, err)
	assert.Nil(t, c)
	assert.True(t, IsConnectionError(err))
	assert.Contains(t, err.Error(), rpcURL)
}

func TestNewSolanaClient_Defaults(t *testing.T) {
	c := newSolanaClient(rpc.New("http://localhost:8899"), nil, Options{})
	assert.Equal(t, rpc.CommitmentFinalized, c.commitment)
	assert.Equal(t, 2*time.Minute, c.confirmTimeout)
	assert.Equal(t, 400*time.Millisecond, c.pollInterval)
	assert.False(t, c.Streaming())
}
