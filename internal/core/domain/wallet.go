package domain

import (
	"sort"

	"teen-wallet-service/pkg/apperror"
)

// WalletType discriminates the two wallet variants.
type WalletType string

const (
	WalletTypeStandard WalletType = "STANDARD"
	WalletTypeTeen     WalletType = "TEEN"
)

// adultAge is the owner age at which a teen wallet becomes upgradeable.
const adultAge = 18

// spendOp identifies the balance-reducing operation running the spend guard.
type spendOp int

const (
	spendWithdraw spendOp = iota
	spendTransfer
	spendPay
)

// TeenRules carries the restrictions attached to a teen wallet.
// A nil PerTransactionLimit means unlimited; an empty whitelist means any
// destination is permitted.
type TeenRules struct {
	ParentWalletID       WalletID
	PerTransactionLimit  *int64
	WhitelistedWalletIDs []WalletID
}

// Wallet is the aggregate root enforcing all balance and spending
// invariants. The teen-only fields exist only on the TEEN variant.
type Wallet struct {
	id         WalletID
	currency   Currency
	balance    Money
	walletType WalletType

	// Teen variant only.
	parentWalletID WalletID
	limit          *Money
	whitelist      map[WalletID]struct{}
}

// NewWalletParams holds construction input. Zero-value InitialBalance and
// Type default to an empty standard wallet.
type NewWalletParams struct {
	ID             WalletID
	Currency       Currency
	InitialBalance int64
	Type           WalletType
	TeenRules      *TeenRules
}

// NewWallet constructs a wallet, validating all construction invariants.
func NewWallet(p NewWalletParams) (*Wallet, error) {
	if p.ID.IsZero() {
		return nil, apperror.ErrInvalidID("wallet")
	}
	if p.Currency == (Currency{}) {
		return nil, apperror.ErrInvalidCurrency()
	}
	if p.InitialBalance < 0 {
		return nil, apperror.ErrNegativeInitialBalance()
	}

	walletType := p.Type
	if walletType == "" {
		walletType = WalletTypeStandard
	}

	w := &Wallet{
		id:         p.ID,
		currency:   p.Currency,
		balance:    Money{cents: p.InitialBalance},
		walletType: walletType,
	}

	if walletType == WalletTypeTeen {
		if p.TeenRules == nil {
			return nil, apperror.ErrMissingTeenRules()
		}
		if p.TeenRules.ParentWalletID.IsZero() {
			return nil, apperror.ErrMissingTeenRules()
		}
		if p.TeenRules.PerTransactionLimit != nil {
			if *p.TeenRules.PerTransactionLimit <= 0 {
				return nil, apperror.ErrNonPositiveLimit()
			}
			w.limit = &Money{cents: *p.TeenRules.PerTransactionLimit}
		}
		w.parentWalletID = p.TeenRules.ParentWalletID
		w.whitelist = make(map[WalletID]struct{}, len(p.TeenRules.WhitelistedWalletIDs))
		for _, id := range p.TeenRules.WhitelistedWalletIDs {
			w.whitelist[id] = struct{}{}
		}
	}

	return w, nil
}

func (w *Wallet) ID() WalletID       { return w.id }
func (w *Wallet) Currency() Currency { return w.currency }
func (w *Wallet) Balance() Money     { return w.balance }
func (w *Wallet) Type() WalletType   { return w.walletType }
func (w *Wallet) IsTeen() bool       { return w.walletType == WalletTypeTeen }

// ParentWalletID returns the teen wallet's parent reference; ok is false
// for standard wallets.
func (w *Wallet) ParentWalletID() (WalletID, bool) {
	if !w.IsTeen() {
		return WalletID{}, false
	}
	return w.parentWalletID, true
}

// PerTransactionLimit returns the teen spending limit; ok is false when
// no limit applies.
func (w *Wallet) PerTransactionLimit() (Money, bool) {
	if w.limit == nil {
		return Money{}, false
	}
	return *w.limit, true
}

// WhitelistedWalletIDs returns the whitelist in deterministic order.
func (w *Wallet) WhitelistedWalletIDs() []WalletID {
	if len(w.whitelist) == 0 {
		return nil
	}
	ids := make([]WalletID, 0, len(w.whitelist))
	for id := range w.whitelist {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// Deposit credits the wallet. Allowed for every wallet type.
func (w *Wallet) Deposit(amount Money) error {
	if amount.IsZero() {
		return apperror.ErrNonPositiveAmount()
	}
	w.balance = w.balance.Add(amount)
	return nil
}

// Withdraw debits the wallet after running the spend guard. A withdrawal
// has no destination, so the teen whitelist is never consulted.
func (w *Wallet) Withdraw(amount Money) error {
	if amount.IsZero() {
		return apperror.ErrNonPositiveAmount()
	}
	if err := w.ensureSpendAllowed(amount, nil, spendWithdraw); err != nil {
		return err
	}
	newBalance, err := w.balance.Subtract(amount)
	if err != nil {
		return err
	}
	w.balance = newBalance
	return nil
}

// Transfer debits this wallet and credits the target. Both new states are
// computed before either wallet is mutated, so a failure leaves both
// untouched.
func (w *Wallet) Transfer(amount Money, target *Wallet) error {
	if amount.IsZero() {
		return apperror.ErrNonPositiveAmount()
	}
	if !w.currency.Equals(target.currency) {
		return apperror.ErrCurrencyMismatch()
	}
	targetID := target.ID()
	if err := w.ensureSpendAllowed(amount, &targetID, spendTransfer); err != nil {
		return err
	}
	newBalance, err := w.balance.Subtract(amount)
	if err != nil {
		return err
	}
	if err := target.Deposit(amount); err != nil {
		return err
	}
	w.balance = newBalance
	return nil
}

// Pay debits the wallet without crediting any tracked destination; it
// models an external settlement and is available to teen wallets only.
func (w *Wallet) Pay(amount Money, targetWalletID *WalletID) error {
	if amount.IsZero() {
		return apperror.ErrNonPositiveAmount()
	}
	if err := w.ensureSpendAllowed(amount, targetWalletID, spendPay); err != nil {
		return err
	}
	newBalance, err := w.balance.Subtract(amount)
	if err != nil {
		return err
	}
	w.balance = newBalance
	return nil
}

// ensureSpendAllowed is the shared precondition check for every
// balance-reducing operation. The first failing check wins:
//  1. insufficient funds
//  2. teen per-transaction limit
//  3. teen destination whitelist (only when a target id is given)
//  4. pay is rejected for standard wallets
func (w *Wallet) ensureSpendAllowed(amount Money, targetWalletID *WalletID, op spendOp) error {
	if amount.GreaterThan(w.balance) {
		return apperror.ErrInsufficientFunds()
	}

	if w.IsTeen() {
		if w.limit != nil && amount.GreaterThan(*w.limit) {
			return apperror.ErrTransactionLimitExceeded()
		}
		if targetWalletID != nil && len(w.whitelist) > 0 {
			if _, ok := w.whitelist[*targetWalletID]; !ok {
				return apperror.ErrTargetNotWhitelisted()
			}
		}
	}

	if !w.IsTeen() && op == spendPay {
		return apperror.ErrPayNotAllowedForStandard()
	}

	return nil
}

// CanAutoUpgradeGivenAge reports whether the wallet is a teen wallet whose
// owner has reached the adult threshold. Pure predicate, no mutation.
func (w *Wallet) CanAutoUpgradeGivenAge(age int) bool {
	return w.IsTeen() && age >= adultAge
}

// AutoUpgrade returns a standard wallet with the same id, currency and
// balance. The teen rules are dropped; the transition is one-way and the
// caller persists the returned wallet in place of the original.
func (w *Wallet) AutoUpgrade() (*Wallet, error) {
	if !w.IsTeen() {
		return nil, apperror.ErrNotATeenWallet()
	}
	return &Wallet{
		id:         w.id,
		currency:   w.currency,
		balance:    w.balance,
		walletType: WalletTypeStandard,
	}, nil
}

// WalletSnapshot is the flat, serializable projection of a wallet used by
// the persistence and cache adapters.
type WalletSnapshot struct {
	ID                   string   `json:"id"`
	Currency             string   `json:"currency"`
	Balance              int64    `json:"balance"`
	Type                 string   `json:"type"`
	ParentWalletID       *string  `json:"parent_wallet_id,omitempty"`
	PerTransactionLimit  *int64   `json:"per_transaction_limit,omitempty"`
	WhitelistedWalletIDs []string `json:"whitelisted_wallet_ids,omitempty"`
}

// Snapshot projects the wallet's current state.
func (w *Wallet) Snapshot() WalletSnapshot {
	s := WalletSnapshot{
		ID:       w.id.String(),
		Currency: w.currency.Code(),
		Balance:  w.balance.Value(),
		Type:     string(w.walletType),
	}
	if w.IsTeen() {
		parent := w.parentWalletID.String()
		s.ParentWalletID = &parent
		if w.limit != nil {
			limit := w.limit.Value()
			s.PerTransactionLimit = &limit
		}
		for _, id := range w.WhitelistedWalletIDs() {
			s.WhitelistedWalletIDs = append(s.WhitelistedWalletIDs, id.String())
		}
	}
	return s
}

// WalletFromSnapshot rehydrates a wallet, running the same validation as
// NewWallet.
func WalletFromSnapshot(s WalletSnapshot) (*Wallet, error) {
	id, err := ParseWalletID(s.ID)
	if err != nil {
		return nil, err
	}
	currency, err := ParseCurrency(s.Currency)
	if err != nil {
		return nil, err
	}

	params := NewWalletParams{
		ID:             id,
		Currency:       currency,
		InitialBalance: s.Balance,
		Type:           WalletType(s.Type),
	}

	if WalletType(s.Type) == WalletTypeTeen {
		if s.ParentWalletID == nil {
			return nil, apperror.ErrMissingTeenRules()
		}
		parentID, err := ParseWalletID(*s.ParentWalletID)
		if err != nil {
			return nil, err
		}
		rules := &TeenRules{
			ParentWalletID:      parentID,
			PerTransactionLimit: s.PerTransactionLimit,
		}
		for _, raw := range s.WhitelistedWalletIDs {
			wid, err := ParseWalletID(raw)
			if err != nil {
				return nil, err
			}
			rules.WhitelistedWalletIDs = append(rules.WhitelistedWalletIDs, wid)
		}
		params.TeenRules = rules
	}

	return NewWallet(params)
}
