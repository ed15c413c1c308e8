package app

import "errors"

var (
	// ErrWalletNotConnected is raised before any network call when no
	// wallet connector is attached.
	ErrWalletNotConnected = errors.New("app: wallet not connected")
	// ErrWalletMismatch is raised when the connected wallet is not the
	// member's bound wallet.
	ErrWalletMismatch = errors.New("app: connected wallet does not match bound wallet")
	// ErrJettonWalletNotInitialized is raised when a deposit is attempted
	// before the contract's jetton wallet discovery has completed.
	ErrJettonWalletNotInitialized = errors.New("app: contract jetton wallet not initialized")
	// ErrBusy is raised while a previous submission is still in flight.
	ErrBusy = errors.New("app: submission already in flight")
	// ErrActionUnavailable is raised when a liveness trigger's gate is
	// closed at submission time.
	ErrActionUnavailable = errors.New("app: action not currently available")
	// ErrNoSnapshot is raised when no mirror snapshot has loaded yet.
	ErrNoSnapshot = errors.New("app: no snapshot loaded")
	// ErrNoContract is raised when the circle has no attached contract.
	ErrNoContract = errors.New("app: circle has no contract attached")
)

// TransactionError wraps a wallet rejection or submission failure. The
// underlying cause may lack a message; Error always yields something usable.
type TransactionError struct {
	Cause error
}

func (e *TransactionError) Error() string {
	if e.Cause == nil || e.Cause.Error() == "" {
		return "transaction failed"
	}
	return e.Cause.Error()
}

func (e *TransactionError) Unwrap() error { return e.Cause }
