// Package app hosts the wallet-facing controller for one circle: it owns the
// current mirror snapshot, re-derives the decision object on every tick, and
// guards on-chain submissions. Everything derived is a pure function of
// (snapshot, member, now); the controller itself only holds the latest
// snapshot and the input fields the user can edit.
package app

import (
	"context"
	"log/slog"
	"time"

	"moneycircle/client"
	"moneycircle/native/circle"
	"moneycircle/native/token"
	"moneycircle/tonpayload"
	"moneycircle/wallet"
)

// attachTON is the TON value attached to every liveness call, enough to cover
// gas with the excess refunded by the contract.
const attachTON = "0.05"

// Backend is the slice of the API client the controller needs.
type Backend interface {
	CircleStatus(ctx context.Context, token, circleID string) (*client.StatusResponse, error)
	DepositIntent(ctx context.Context, token string, req client.DepositIntentRequest) (*client.DepositIntentResponse, error)
	AttachContract(ctx context.Context, token, circleID, contractAddress string) error
}

// View is the UI-facing decision object, recomputed wholesale on each tick or
// snapshot refresh.
type View struct {
	Loaded      bool
	Circle      *circle.Snapshot
	Member      *circle.Member
	Schedule    circle.Schedule
	Finance     circle.FinanceSummary
	Eligibility circle.Eligibility
	Staleness   circle.StalenessVerdict
	// WalletBound reports whether the connected wallet matches the
	// member's bound wallet. It gates deposits only, never the liveness
	// triggers.
	WalletBound     bool
	CollateralInput string
	PrefundInput    string
	Busy            string
}

// Controller drives one circle page. It is used from a single goroutine: the
// hosting UI calls Refresh on load and after submissions, View on every clock
// tick, and the submission methods from user actions. Snapshot replacement is
// last-write-wins; a slow fetch that resolves after a newer one is discarded.
type Controller struct {
	backend   Backend
	connector wallet.Connector
	logger    *slog.Logger

	circleID  string
	authToken string

	snapshot   *client.StatusResponse
	fetchSeq   uint64
	appliedSeq uint64

	collateralInput string
	prefundInput    string
	busy            string

	nowFn func() time.Time
}

// Config wires a controller.
type Config struct {
	Backend   Backend
	Connector wallet.Connector
	Logger    *slog.Logger
	CircleID  string
	AuthToken string
}

// New builds a controller for one circle.
func New(cfg Config) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		backend:         cfg.Backend,
		connector:       cfg.Connector,
		logger:          logger,
		circleID:        cfg.CircleID,
		authToken:       cfg.AuthToken,
		collateralInput: "0",
		prefundInput:    "0",
		nowFn:           time.Now,
	}
}

// SetNowFunc overrides the time source. Primarily for tests.
func (c *Controller) SetNowFunc(now func() time.Time) {
	if now == nil {
		c.nowFn = time.Now
		return
	}
	c.nowFn = now
}

// SetConnector attaches or detaches (nil) the wallet connector.
func (c *Controller) SetConnector(conn wallet.Connector) { c.connector = conn }

// Refresh fetches a fresh snapshot from the mirror. When several refreshes
// overlap, only the most recently started one may replace the snapshot.
func (c *Controller) Refresh(ctx context.Context) error {
	seq := c.fetchSeq + 1
	c.fetchSeq = seq
	res, err := c.backend.CircleStatus(ctx, c.authToken, c.circleID)
	if err != nil {
		return err
	}
	if seq < c.appliedSeq {
		c.logger.Debug("discarding stale snapshot", slog.Uint64("seq", seq))
		return nil
	}
	c.snapshot = res
	c.appliedSeq = seq
	c.fillSuggestions()
	return nil
}

// fillSuggestions seeds the deposit input fields from the finance summary.
// A field the user has edited away from its "0" default is never overwritten.
func (c *Controller) fillSuggestions() {
	if c.snapshot == nil || c.snapshot.Circle == nil {
		return
	}
	sum := circle.Summarize(c.snapshot.Circle, c.snapshot.Member)
	if c.collateralInput == "0" {
		if s := token.USDT.Format(sum.SuggestedCollateral); s != "0" {
			c.collateralInput = s
		}
	}
	if c.prefundInput == "0" {
		if s := token.USDT.Format(sum.SuggestedPrefund); s != "0" {
			c.prefundInput = s
		}
	}
}

// SetCollateralInput records a user edit of the collateral amount field.
func (c *Controller) SetCollateralInput(v string) { c.collateralInput = v }

// SetPrefundInput records a user edit of the prefund amount field.
func (c *Controller) SetPrefundInput(v string) { c.prefundInput = v }

// View derives the current decision object. Idempotent for a fixed snapshot
// and instant.
func (c *Controller) View() View {
	now := c.nowFn()
	v := View{
		CollateralInput: c.collateralInput,
		PrefundInput:    c.prefundInput,
		Busy:            c.busy,
		WalletBound:     true,
	}
	if c.snapshot == nil || c.snapshot.Circle == nil {
		return v
	}
	snap := c.snapshot.Circle
	member := c.snapshot.Member
	v.Loaded = true
	v.Circle = snap
	v.Member = member
	v.Schedule = circle.ReadSchedule(snap, now)
	v.Finance = circle.Summarize(snap, member)
	v.Eligibility = circle.Evaluate(snap, member, now)
	v.Staleness = circle.CheckFreshness(snap, now)
	if c.connector != nil && member != nil {
		v.WalletBound = wallet.Matches(c.connector.Address(), member.WalletAddress)
	}
	return v
}

// AttachContract binds a deployed contract to a recruiting circle (leader
// only; the backend verifies code hash and config) and refreshes the
// snapshot on success.
func (c *Controller) AttachContract(ctx context.Context, contractAddress string) error {
	if c.snapshot == nil || c.snapshot.Circle == nil {
		return ErrNoSnapshot
	}
	if err := c.backend.AttachContract(ctx, c.authToken, c.circleID, contractAddress); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// InitJettonWallet submits the one-time jetton wallet discovery call.
func (c *Controller) InitJettonWallet(ctx context.Context) error {
	snap, err := c.contractSnapshot()
	if err != nil {
		return err
	}
	payload, err := tonpayload.InitJettonWallet()
	if err != nil {
		return &TransactionError{Cause: err}
	}
	return c.submit(ctx, "init jetton wallet", snap.ContractAddress, attachValueNano(), payload)
}

// RunDebit triggers the funding-round debit for all members. The gate is
// re-checked at submission time; the contract remains the final authority.
func (c *Controller) RunDebit(ctx context.Context) error {
	return c.liveness(ctx, "run debit", tonpayload.TriggerDebitAll, func(e circle.Eligibility) bool {
		return e.CanRunDebit
	})
}

// FinalizeAuction settles the sealed-bid auction after reveal end.
func (c *Controller) FinalizeAuction(ctx context.Context) error {
	return c.liveness(ctx, "finalize auction", tonpayload.FinalizeAuction, func(e circle.Eligibility) bool {
		return e.CanFinalizeAuction
	})
}

// TerminateDefault terminates the circle for default after grace end.
func (c *Controller) TerminateDefault(ctx context.Context) error {
	return c.liveness(ctx, "terminate default", tonpayload.TerminateDefault, func(e circle.Eligibility) bool {
		return e.CanTerminateDefault
	})
}

func (c *Controller) liveness(ctx context.Context, label string, build func() (string, error), allowed func(circle.Eligibility) bool) error {
	snap, err := c.contractSnapshot()
	if err != nil {
		return err
	}
	if !allowed(circle.Evaluate(snap, c.memberSnapshot(), c.nowFn())) {
		return ErrActionUnavailable
	}
	payload, err := build()
	if err != nil {
		return &TransactionError{Cause: err}
	}
	return c.submit(ctx, label, snap.ContractAddress, attachValueNano(), payload)
}

// Deposit prepares and submits a collateral or prefund jetton transfer. The
// wallet-binding and jetton-wallet guards run before any network call.
func (c *Controller) Deposit(ctx context.Context, purpose client.DepositPurpose, amount string) error {
	snap, err := c.contractSnapshot()
	if err != nil {
		return err
	}
	if c.connector == nil || c.connector.Address() == "" {
		return ErrWalletNotConnected
	}
	member := c.memberSnapshot()
	if member != nil && !wallet.Matches(c.connector.Address(), member.WalletAddress) {
		return ErrWalletMismatch
	}
	if snap.JettonWallet == "" {
		return ErrJettonWalletNotInitialized
	}
	intent, err := c.backend.DepositIntent(ctx, c.authToken, client.DepositIntentRequest{
		CircleID:   c.circleID,
		Purpose:    purpose,
		AmountUSDT: amount,
	})
	if err != nil {
		return err
	}
	return c.submit(ctx, "deposit "+string(purpose), intent.JettonWallet, intent.TxValueNano, intent.PayloadBase64)
}

// submit sends one message through the wallet connector. Only one submission
// may be in flight at a time; the busy flag is a client-side courtesy, the
// contract enforces true mutual exclusion.
func (c *Controller) submit(ctx context.Context, label, address, amountNano, payload string) error {
	if c.connector == nil || c.connector.Address() == "" {
		return ErrWalletNotConnected
	}
	if c.busy != "" {
		return ErrBusy
	}
	c.busy = label
	defer func() { c.busy = "" }()

	tx := wallet.Tx{
		ValidUntil: c.nowFn().Add(wallet.ValidityWindow).Unix(),
		Messages:   []wallet.Message{{Address: address, Amount: amountNano, Payload: payload}},
	}
	if err := c.connector.Send(ctx, tx); err != nil {
		c.logger.Warn("submission rejected", slog.String("action", label), slog.Any("error", err))
		return &TransactionError{Cause: err}
	}
	c.logger.Info("submission accepted", slog.String("action", label))
	return nil
}

func (c *Controller) contractSnapshot() (*circle.Snapshot, error) {
	if c.snapshot == nil || c.snapshot.Circle == nil {
		return nil, ErrNoSnapshot
	}
	if c.snapshot.Circle.ContractAddress == "" {
		return nil, ErrNoContract
	}
	return c.snapshot.Circle, nil
}

func (c *Controller) memberSnapshot() *circle.Member {
	if c.snapshot == nil {
		return nil
	}
	return c.snapshot.Member
}

func attachValueNano() string {
	return token.TON.ToMinorUnits(attachTON).String()
}
