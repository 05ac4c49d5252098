package client

import (
	"context"
	"errors"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// waitForConfirmation blocks until sig reaches the client's commitment, the
// transaction fails, or the confirmation timeout elapses.
func (c *SolanaClient) waitForConfirmation(ctx context.Context, sig solana.Signature) error {
	ctx, cancel := context.WithTimeout(ctx, c.confirmTimeout)
	defer cancel()

	var err error
	if c.wsClient != nil {
		err = c.awaitSignatureNotification(ctx, sig)
	} else {
		err = c.pollSignatureStatus(ctx, sig)
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return &SubmissionError{Signature: sig, Timeout: true, Err: err}
	case errors.Is(err, context.Canceled):
		return &SubmissionError{Signature: sig, Reason: "confirmation aborted", Err: err}
	case IsInstructionError(err), IsSubmissionError(err):
		return err
	default:
		return &SubmissionError{Signature: sig, Reason: "confirmation failed", Err: err}
	}
}

func (c *SolanaClient) awaitSignatureNotification(ctx context.Context, sig solana.Signature) error {
	sub, err := c.wsClient.SignatureSubscribe(sig, c.commitment)
	if err != nil {
		c.log.WithError(err).Warn("signature subscription failed, polling instead")
		return c.pollSignatureStatus(ctx, sig)
	}
	defer sub.Unsubscribe()

	// The transaction may have landed before the subscription was registered.
	reached, err := c.checkSignatureStatus(ctx, sig)
	if err != nil && !IsNetworkError(err) {
		return err
	}
	if reached {
		return nil
	}

	res, err := sub.Recv(ctx)
	if err != nil {
		return err
	}
	if res == nil {
		return errors.New("signature subscription closed")
	}
	return ParseTransactionError(res.Value.Err)
}

func (c *SolanaClient) pollSignatureStatus(ctx context.Context, sig solana.Signature) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		reached, err := c.checkSignatureStatus(ctx, sig)
		if err != nil {
			if !IsNetworkError(err) {
				return err
			}
			c.log.WithError(err).WithField("signature", sig.String()).Debug("signature status unavailable")
		}
		if reached {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// checkSignatureStatus reports whether sig has reached the commitment. A failed
// transaction is reported as reached together with its parsed error.
func (c *SolanaClient) checkSignatureStatus(ctx context.Context, sig solana.Signature) (bool, error) {
	out, err := c.rpcClient.GetSignatureStatuses(ctx, false, sig)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return false, nil
		}
		return false, &NetworkError{Op: "getSignatureStatuses", Err: err}
	}
	if len(out.Value) == 0 || out.Value[0] == nil {
		return false, nil
	}

	status := out.Value[0]
	if status.Err != nil {
		return true, ParseTransactionError(status.Err)
	}
	return commitmentReached(status, c.commitment), nil
}

// commitmentReached mirrors the ledger's confirmation levels: a nil Confirmations
// count means the slot is rooted.
func commitmentReached(status *rpc.SignatureStatusesResult, commitment rpc.CommitmentType) bool {
	finalized := status.Confirmations == nil || status.ConfirmationStatus == rpc.ConfirmationStatusFinalized

	switch commitment {
	case rpc.CommitmentProcessed:
		return true
	case rpc.CommitmentConfirmed:
		return finalized || status.ConfirmationStatus == rpc.ConfirmationStatusConfirmed
	default:
		return finalized
	}
}
