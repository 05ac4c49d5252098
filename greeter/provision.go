package greeter

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlexZinkM/hello-greeter/internal/client"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
)

// ProvisionResult describes the outcome of a successful Provision run.
type ProvisionResult struct {
	Address solana.PublicKey
	State   ProvisionState

	// Set only when the account was created by this run.
	Signature solana.Signature
	Lamports  uint64
}

// Provision makes sure the greeting account exists, creating it with rent-exempt
// funding when the ledger has no account at the derived address. It always checks
// before creating, so repeated runs never issue a second creation.
func (s *Session) Provision(ctx context.Context) (*ProvisionResult, error) {
	if !s.provisionMu.TryLock() {
		return nil, ErrProvisionInFlight
	}
	defer s.provisionMu.Unlock()

	log := s.log.WithField("method", "Provision")

	prior := s.setState(Checking)

	_, err := s.ledger.GetAccount(ctx, s.address)
	switch {
	case err == nil:
		s.setState(Exists)
		log.Debug("greeting account exists")
		return &ProvisionResult{Address: s.address, State: Exists}, nil
	case errors.Is(err, client.ErrAccountNotFound):
		log.Info("greeting account not found, creating")
	default:
		s.setState(prior)
		log.WithError(err).Warn("failed to check greeting account")
		return nil, fmt.Errorf("failed to check greeting account: %w", err)
	}

	s.setState(Creating)

	lamports, err := s.ledger.MinimumFundingFor(ctx, GreetingSize)
	if err != nil {
		s.setState(CreationFailed)
		log.WithError(err).Warn("failed to get minimum funding")
		return nil, fmt.Errorf("failed to get minimum funding: %w", err)
	}

	instruction := createAccountInstruction(s.payer.PublicKey(), s.seed, s.address, lamports, GreetingSize, s.program)

	sig, err := s.submit(ctx, instruction)
	if err != nil {
		s.setState(CreationFailed)
		log.WithError(err).Warn("failed to create greeting account")
		return nil, fmt.Errorf("failed to create greeting account: %w", err)
	}

	s.setState(Created)
	log.WithFields(logrus.Fields{
		"signature": sig.String(),
		"lamports":  lamports,
		"space":     GreetingSize,
	}).Info("greeting account created")

	return &ProvisionResult{
		Address:   s.address,
		State:     Created,
		Signature: sig,
		Lamports:  lamports,
	}, nil
}
