package greeter

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// GreetResult describes a confirmed greeting.
type GreetResult struct {
	Signature solana.Signature

	// Counter is the value read back after confirmation. When the read back
	// fails it holds the last known counter (nil if never read) and RefreshErr
	// carries the failure.
	Counter    *uint32
	RefreshErr error
}

// Greet submits a greeting to the provisioned account, waits for confirmation and
// then reads the counter back. A failed submission leaves the known counter untouched.
func (s *Session) Greet(ctx context.Context) (*GreetResult, error) {
	if !s.greetMu.TryLock() {
		return nil, ErrGreetInFlight
	}
	defer s.greetMu.Unlock()

	if state := s.Snapshot().State; !state.Ready() {
		return nil, &PreconditionError{State: state}
	}

	log := s.log.WithField("method", "Greet")

	sig, err := s.submit(ctx, greetInstruction(s.program, s.address))
	if err != nil {
		log.WithError(err).Warn("failed to send greeting")
		return nil, fmt.Errorf("failed to send greeting: %w", err)
	}
	log = log.WithField("signature", sig.String())

	result := &GreetResult{Signature: sig}

	acct, err := s.Refresh(ctx)
	if err != nil {
		log.WithError(err).Warn("greeting confirmed but the account could not be read back")
		result.Counter = s.Snapshot().Counter
		result.RefreshErr = err
		return result, nil
	}

	counter := acct.Counter
	result.Counter = &counter
	log.WithField("counter", counter).Info("greeting confirmed")
	return result, nil
}

// Refresh reads and decodes the greeting account, updating the known counter.
func (s *Session) Refresh(ctx context.Context) (GreetingAccount, error) {
	data, err := s.ledger.GetAccount(ctx, s.address)
	if err != nil {
		return GreetingAccount{}, fmt.Errorf("failed to read greeting account: %w", err)
	}

	acct, err := DecodeGreeting(data)
	if err != nil {
		return GreetingAccount{}, err
	}

	s.setCounter(acct.Counter)
	return acct, nil
}
