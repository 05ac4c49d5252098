package greeter

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
)

// Ledger is the subset of the network gateway the workflows depend on.
// *client.SolanaClient satisfies it.
type Ledger interface {
	GetAccount(ctx context.Context, address solana.PublicKey) ([]byte, error)
	MinimumFundingFor(ctx context.Context, size uint64) (uint64, error)
	SubmitAndConfirm(ctx context.Context, instructions []solana.Instruction, signers ...solana.PrivateKey) (solana.Signature, error)
}

// ProvisionState tracks the greeting account through provisioning.
type ProvisionState int

const (
	// Unchecked means the ledger has not been asked about the account yet.
	Unchecked ProvisionState = iota
	// Checking means an account lookup is in progress.
	Checking
	// Exists means the account was found on the ledger.
	Exists
	// Creating means a creation transaction is being built or confirmed.
	Creating
	// Created means this session created the account.
	Created
	// CreationFailed means the last creation attempt failed; Provision may be run again.
	CreationFailed
)

func (s ProvisionState) String() string {
	switch s {
	case Unchecked:
		return "unchecked"
	case Checking:
		return "checking"
	case Exists:
		return "exists"
	case Creating:
		return "creating"
	case Created:
		return "created"
	case CreationFailed:
		return "creation_failed"
	default:
		return "unknown"
	}
}

// Ready reports whether the account is known to exist on the ledger.
func (s ProvisionState) Ready() bool {
	return s == Exists || s == Created
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	State         ProvisionState
	Address       solana.PublicKey
	Counter       *uint32 // nil until the account has been read back
	LastSignature solana.Signature
	Pending       bool // a transaction is submitted and awaiting confirmation
}

// Session drives the provisioning and greeting workflows for one payer, program and seed.
// Provision and Greet are single-flight; all methods are safe for concurrent use.
type Session struct {
	ledger  Ledger
	payer   solana.PrivateKey
	program solana.PublicKey
	seed    string
	address solana.PublicKey

	provisionMu sync.Mutex
	greetMu     sync.Mutex

	mu            sync.RWMutex
	state         ProvisionState
	counter       *uint32
	lastSignature solana.Signature
	pending       bool

	log *logrus.Entry
}

// NewSession derives the greeting account address and returns a session in the
// Unchecked state. It fails with *InvalidSeedError if seed cannot be used.
func NewSession(ledger Ledger, payer solana.PrivateKey, program solana.PublicKey, seed string) (*Session, error) {
	address, err := DeriveAddress(payer.PublicKey(), seed, program)
	if err != nil {
		return nil, err
	}

	return &Session{
		ledger:  ledger,
		payer:   payer,
		program: program,
		seed:    seed,
		address: address,
		state:   Unchecked,
		log: logrus.StandardLogger().WithFields(logrus.Fields{
			"type":    "greeter/session",
			"address": address.String(),
		}),
	}, nil
}

// Address returns the derived greeting account address.
func (s *Session) Address() solana.PublicKey {
	return s.address
}

// Payer returns the public key that funds and signs transactions.
func (s *Session) Payer() solana.PublicKey {
	return s.payer.PublicKey()
}

// Program returns the greeter program that owns the account.
func (s *Session) Program() solana.PublicKey {
	return s.program
}

// Seed returns the seed used to derive the account address.
func (s *Session) Seed() string {
	return s.seed
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		State:         s.state,
		Address:       s.address,
		LastSignature: s.lastSignature,
		Pending:       s.pending,
	}
	if s.counter != nil {
		c := *s.counter
		snap.Counter = &c
	}
	return snap
}

// setState stores next and returns the state it replaced.
func (s *Session) setState(next ProvisionState) ProvisionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	s.state = next
	if prev != next {
		s.log.WithFields(logrus.Fields{
			"from": prev.String(),
			"to":   next.String(),
		}).Debug("provision state changed")
	}
	return prev
}

func (s *Session) setPending(pending bool) {
	s.mu.Lock()
	s.pending = pending
	s.mu.Unlock()
}

func (s *Session) recordSignature(sig solana.Signature) {
	s.mu.Lock()
	s.lastSignature = sig
	s.pending = false
	s.mu.Unlock()
}

func (s *Session) setCounter(counter uint32) {
	s.mu.Lock()
	s.counter = &counter
	s.mu.Unlock()
}

// submit sends instructions signed by the payer, flagging the session as pending
// until the ledger answers. The wait ignores cancellation of ctx and is bounded by
// the ledger's confirmation timeout, keeping the workflow guard held while the
// transaction can still land.
func (s *Session) submit(ctx context.Context, instructions ...solana.Instruction) (solana.Signature, error) {
	s.setPending(true)

	sig, err := s.ledger.SubmitAndConfirm(context.WithoutCancel(ctx), instructions, s.payer)
	if err != nil {
		s.setPending(false)
		return sig, err
	}

	s.recordSignature(sig)
	return sig, nil
}
