package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidChainID is returned when a chain ID is invalid
	ErrInvalidChainID = errors.New("invalid chain ID")

	// ErrDeploymentDeclined is returned when the operator refuses the deployment prompt
	ErrDeploymentDeclined = errors.New("deployment declined")
)

// Oracle failure kinds
var (
	ErrUnsupportedChain = errors.New("unsupported chain")
	ErrPriceUnavailable = errors.New("price source unavailable")
	ErrMalformedQuote   = errors.New("malformed price quote")
	ErrInvalidPrice     = errors.New("invalid price")
	ErrInvalidAmount    = errors.New("invalid funding amount")
)

// Deployment failure kinds
var (
	ErrConstructorRejected = errors.New("constructor rejected funding amount")
	ErrConfirmationTimeout = errors.New("timed out waiting for confirmation")
	ErrDeploymentCanceled  = errors.New("deployment wait canceled")
	ErrSubmission          = errors.New("failed to submit deployment transaction")
	ErrChainMismatch       = errors.New("chain ID mismatch")
	ErrInvalidArtifact     = errors.New("invalid contract artifact")
)

// OracleError reports a failure to resolve the funding amount. Nothing has
// been sent to the chain when it is returned.
type OracleError struct {
	ChainID ChainID
	Kind    error
	Err     error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("resolve funding for chain %d: %s", e.ChainID, describe(e.Kind, e.Err))
}

func (e *OracleError) Unwrap() []error {
	return nonNil(e.Kind, e.Err)
}

// DeploymentError reports a failed or unconfirmed deployment. Submitted tells
// whether a transaction reached the network; when it did, TxHash is set and
// the on-chain outcome must be checked before deploying again.
type DeploymentError struct {
	ChainID   ChainID
	Kind      error
	TxHash    string
	Submitted bool
	Err       error
}

func (e *DeploymentError) Error() string {
	msg := fmt.Sprintf("deploy on chain %d: %s", e.ChainID, describe(e.Kind, e.Err))
	if e.TxHash != "" {
		msg += fmt.Sprintf(" (tx %s)", e.TxHash)
	}
	return msg
}

func (e *DeploymentError) Unwrap() []error {
	return nonNil(e.Kind, e.Err)
}

// RegistryError reports registry content that exists but cannot be trusted.
type RegistryError struct {
	Path string
	Err  error
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("registry %s: %v", e.Path, e.Err)
}

func (e *RegistryError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a registry write failure. When Address is set the
// contract exists on chain but is not recorded.
type PersistenceError struct {
	ChainID ChainID
	Path    string
	Address ContractAddress
	TxHash  string
	Err     error
}

func (e *PersistenceError) Error() string {
	if e.Address == "" {
		return fmt.Sprintf("write registry %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("contract deployed at %s on chain %d (tx %s) but registry %s was not updated: %v",
		e.Address, e.ChainID, e.TxHash, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Outcome tells an operator what a failed run left behind.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	// OutcomeNothingHappened: no transaction was sent, re-running is safe
	OutcomeNothingHappened
	// OutcomeChainStateUnknown: a transaction was sent but not confirmed as a deployment
	OutcomeChainStateUnknown
	// OutcomeDeployedNotRecorded: the contract exists but the registry misses it
	OutcomeDeployedNotRecorded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNothingHappened:
		return "nothing happened"
	case OutcomeChainStateUnknown:
		return "chain state unknown"
	case OutcomeDeployedNotRecorded:
		return "deployed but not recorded"
	default:
		return "unknown"
	}
}

// Classify maps an orchestration error to the state it left behind.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeUnknown
	}

	var persistErr *PersistenceError
	if errors.As(err, &persistErr) && persistErr.Address != "" {
		return OutcomeDeployedNotRecorded
	}

	var deployErr *DeploymentError
	if errors.As(err, &deployErr) {
		if deployErr.Submitted {
			return OutcomeChainStateUnknown
		}
		return OutcomeNothingHappened
	}

	var oracleErr *OracleError
	var registryErr *RegistryError
	if errors.As(err, &oracleErr) || errors.As(err, &registryErr) || errors.Is(err, ErrDeploymentDeclined) {
		return OutcomeNothingHappened
	}

	return OutcomeUnknown
}

// describe avoids repeating kind when err already wraps it
func describe(kind, err error) string {
	switch {
	case err == nil && kind == nil:
		return "unknown failure"
	case err == nil:
		return kind.Error()
	case kind == nil || errors.Is(err, kind):
		return err.Error()
	default:
		return kind.Error() + ": " + err.Error()
	}
}

func nonNil(errs ...error) []error {
	out := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}
