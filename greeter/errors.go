package greeter

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	// ErrProvisionInFlight is returned when Provision is called while another run is pending.
	ErrProvisionInFlight = errors.New("account provisioning already in progress")

	// ErrGreetInFlight is returned when Greet is called while another greeting is pending.
	ErrGreetInFlight = errors.New("greeting already in progress")
)

// InvalidSeedError is returned when a seed cannot be used for address derivation.
type InvalidSeedError struct {
	Seed string
	Err  error
}

func (e *InvalidSeedError) Error() string {
	return fmt.Sprintf("invalid seed %q (%d bytes, max %d): %v", e.Seed, len(e.Seed), solana.MaxSeedLength, e.Err)
}

func (e *InvalidSeedError) Unwrap() error {
	return e.Err
}

// MalformedRecordError is returned when account data does not match the greeting layout.
type MalformedRecordError struct {
	Expected uint64
	Actual   int
	Err      error
}

func (e *MalformedRecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed greeting record: %v", e.Err)
	}
	return fmt.Sprintf("malformed greeting record: expected %d bytes, got %d", e.Expected, e.Actual)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// PreconditionError is returned when a greeting is attempted before the account is provisioned.
type PreconditionError struct {
	State ProvisionState
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("greeting account is not provisioned (state: %s)", e.State)
}

// IsInvalidSeedError checks if error is InvalidSeedError
func IsInvalidSeedError(err error) bool {
	var target *InvalidSeedError
	return errors.As(err, &target)
}

// IsMalformedRecordError checks if error is MalformedRecordError
func IsMalformedRecordError(err error) bool {
	var target *MalformedRecordError
	return errors.As(err, &target)
}

// IsPreconditionError checks if error is PreconditionError
func IsPreconditionError(err error) bool {
	var target *PreconditionError
	return errors.As(err, &target)
}
