package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

// ErrAccountNotFound is returned by GetAccount when the ledger has no account
// at the requested address. It is an expected outcome, not a failure.
var ErrAccountNotFound = errors.New("account not found")

// ConnectionError means the transport to the ledger could not be established.
type ConnectionError struct {
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %q: %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// NetworkError is a transport failure on a read. Reads may be retried by the caller.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// SubmissionError means a transaction was not delivered, was rejected before any
// instruction ran, or was not confirmed in time.
type SubmissionError struct {
	Signature solana.Signature
	Timeout   bool
	Reason    string
	Err       error
}

func (e *SubmissionError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("transaction %s was not confirmed before the timeout", e.Signature)
	case e.Reason != "" && e.Err != nil:
		return fmt.Sprintf("transaction submission failed: %s: %v", e.Reason, e.Err)
	case e.Reason != "":
		return fmt.Sprintf("transaction submission failed: %s", e.Reason)
	default:
		return fmt.Sprintf("transaction submission failed: %v", e.Err)
	}
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// InstructionError means the ledger executed the transaction and the instruction
// at Index rejected it. Resubmitting identical inputs fails the same way.
type InstructionError struct {
	Signature solana.Signature
	Index     int
	Reason    string

	// CustomCode is set when the program returned a custom error number.
	CustomCode *uint32
}

func (e *InstructionError) Error() string {
	return fmt.Sprintf("Error processing Instruction %d: %s", e.Index, e.Reason)
}

// IsConnectionError checks if error is ConnectionError
func IsConnectionError(err error) bool {
	var target *ConnectionError
	return errors.As(err, &target)
}

// IsNetworkError checks if error is NetworkError
func IsNetworkError(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

// IsSubmissionError checks if error is SubmissionError
func IsSubmissionError(err error) bool {
	var target *SubmissionError
	return errors.As(err, &target)
}

// IsTimeoutError checks if error is a SubmissionError caused by a confirmation timeout
func IsTimeoutError(err error) bool {
	var target *SubmissionError
	return errors.As(err, &target) && target.Timeout
}

// IsInstructionError checks if error is InstructionError
func IsInstructionError(err error) bool {
	var target *InstructionError
	return errors.As(err, &target)
}

// ParseTransactionError converts the untyped "err" value of a transaction status
// into an *InstructionError or a *SubmissionError. A nil value yields nil.
//
// Shapes handled:
//
//	"BlockhashNotFound"
//	{"InstructionError": [0, "InvalidAccountData"]}
//	{"InstructionError": [1, {"Custom": 3}]}
func ParseTransactionError(raw interface{}) error {
	if raw == nil {
		return nil
	}

	switch t := raw.(type) {
	case string:
		return &SubmissionError{Reason: t}
	case map[string]interface{}:
		if len(t) != 1 {
			return &SubmissionError{Reason: fmt.Sprintf("unhandled transaction error: %v", t)}
		}

		var k string
		var v interface{}
		for k, v = range t {
		}

		if k != "InstructionError" {
			return &SubmissionError{Reason: describeValue(k, v)}
		}

		instructionErr, err := parseInstructionError(v)
		if err != nil {
			return &SubmissionError{Reason: "unhandled InstructionError", Err: err}
		}
		return instructionErr
	default:
		return &SubmissionError{Reason: fmt.Sprintf("unhandled transaction error: %v", raw)}
	}
}

func parseInstructionError(v interface{}) (*InstructionError, error) {
	values, ok := v.([]interface{})
	if !ok {
		return nil, errors.New("unexpected instruction error format")
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("unexpected number of entries in InstructionError tuple: %d", len(values))
	}

	index, err := parseJSONNumber(values[0])
	if err != nil {
		return nil, err
	}

	e := &InstructionError{Index: int(index)}
	switch t := values[1].(type) {
	case string:
		e.Reason = t
	case map[string]interface{}:
		if len(t) != 1 {
			return nil, fmt.Errorf("invalid instruction result size: %d", len(t))
		}

		var k string
		var inner interface{}
		for k, inner = range t {
		}

		if k != "Custom" {
			e.Reason = describeValue(k, inner)
			break
		}

		code, err := parseJSONNumber(inner)
		if err != nil {
			return nil, err
		}
		custom := uint32(code)
		e.CustomCode = &custom
		e.Reason = fmt.Sprintf("custom program error: 0x%x", custom)
	default:
		return nil, fmt.Errorf("unexpected instruction error reason: %v", t)
	}

	return e, nil
}

// parseRPCError extracts the transaction error carried by a failed sendTransaction
// preflight, falling back to the RPC message.
func parseRPCError(rpcErr *jsonrpc.RPCError) error {
	if data, ok := rpcErr.Data.(map[string]interface{}); ok {
		if raw, ok := data["err"]; ok && raw != nil {
			if err := ParseTransactionError(raw); err != nil {
				return err
			}
		}
	}
	return &SubmissionError{Reason: rpcErr.Message}
}

// withSignature stamps the transaction signature onto typed submission errors.
func withSignature(err error, sig solana.Signature) error {
	var subErr *SubmissionError
	if errors.As(err, &subErr) {
		subErr.Signature = sig
	}
	var instErr *InstructionError
	if errors.As(err, &instErr) {
		instErr.Signature = sig
	}
	return err
}

func describeValue(key string, v interface{}) string {
	switch t := v.(type) {
	case nil:
		return key
	case string:
		return fmt.Sprintf("%s: %s", key, t)
	default:
		return fmt.Sprintf("%s: %v", key, t)
	}
}

func parseJSONNumber(v interface{}) (int64, error) {
	switch t := v.(type) {
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, fmt.Errorf("non int64 value in error tuple: %v", v)
		}
		return n, nil
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("non numeric value in error tuple: %v", v)
		}
		return n, nil
	case float64:
		return int64(t), nil
	}
	return 0, fmt.Errorf("non numeric value in error tuple: %v", v)
}
