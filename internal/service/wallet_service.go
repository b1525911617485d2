package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"teen-wallet-service/internal/core/domain"
	"teen-wallet-service/internal/core/ports"
	"teen-wallet-service/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const idempotencyTTL = 24 * time.Hour

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
	userRepo   ports.UserRepository
	idempCache ports.IdempotencyCache
	transactor ports.DBTransactor
	log        zerolog.Logger
	now        func() time.Time
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	walletRepo ports.WalletRepository,
	userRepo ports.UserRepository,
	idempCache ports.IdempotencyCache,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		userRepo:   userRepo,
		idempCache: idempCache,
		transactor: transactor,
		log:        log,
		now:        time.Now,
	}
}

// CreateWallet constructs and persists a wallet. The teen parent checks
// live here: the wallet entity itself never performs repository lookups.
func (s *WalletServiceImpl) CreateWallet(ctx context.Context, req ports.CreateWalletRequest) (*domain.Wallet, error) {
	currency, err := domain.ParseCurrency(req.Currency)
	if err != nil {
		return nil, err
	}

	owner, err := s.userRepo.FindByID(ctx, req.OwnerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find owner: %w", err))
	}
	if owner == nil {
		return nil, apperror.ErrUserNotFound()
	}

	walletType := domain.WalletType(req.Type)
	if walletType == "" {
		walletType = domain.WalletTypeStandard
	}

	params := domain.NewWalletParams{
		ID:             domain.NewWalletID(),
		Currency:       currency,
		InitialBalance: req.InitialBalance,
		Type:           walletType,
	}

	if walletType == domain.WalletTypeTeen {
		rules, err := s.buildTeenRules(ctx, req)
		if err != nil {
			return nil, err
		}
		params.TeenRules = rules
	}

	wallet, err := domain.NewWallet(params)
	if err != nil {
		return nil, err
	}

	if err := s.walletRepo.Save(ctx, wallet, req.OwnerID); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save wallet: %w", err))
	}

	s.log.Info().
		Str("wallet_id", wallet.ID().String()).
		Str("owner_id", req.OwnerID.String()).
		Str("type", string(wallet.Type())).
		Msg("wallet created")

	return wallet, nil
}

// buildTeenRules validates the teen-specific creation input, including the
// cross-aggregate parent checks.
func (s *WalletServiceImpl) buildTeenRules(ctx context.Context, req ports.CreateWalletRequest) (*domain.TeenRules, error) {
	if req.ParentWalletID == nil {
		return nil, apperror.ErrMissingTeenRules()
	}
	parentID, err := domain.ParseWalletID(*req.ParentWalletID)
	if err != nil {
		return nil, err
	}

	parent, err := s.walletRepo.FindByID(ctx, parentID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find parent wallet: %w", err))
	}
	if parent == nil {
		return nil, apperror.ErrParentWalletNotFound()
	}
	if parent.IsTeen() {
		return nil, apperror.ErrParentMustBeStandard()
	}

	rules := &domain.TeenRules{
		ParentWalletID:      parentID,
		PerTransactionLimit: req.PerTransactionLimit,
	}
	for _, raw := range req.WhitelistedWalletIDs {
		id, err := domain.ParseWalletID(raw)
		if err != nil {
			return nil, err
		}
		rules.WhitelistedWalletIDs = append(rules.WhitelistedWalletIDs, id)
	}
	return rules, nil
}

// GetWallet loads a wallet by id.
func (s *WalletServiceImpl) GetWallet(ctx context.Context, id domain.WalletID) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	return wallet, nil
}

// Deposit credits a wallet under a row lock. Deposits never trigger an
// auto-upgrade check.
func (s *WalletServiceImpl) Deposit(ctx context.Context, req ports.DepositRequest) (*domain.Wallet, error) {
	amount, err := s.parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	idempKey := idempotencyKey(req.WalletID, "deposit", req.ReferenceID)
	if cached := s.cachedWallet(ctx, idempKey); cached != nil {
		return cached, nil
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.lockWallet(ctx, dbTx, req.WalletID, apperror.ErrWalletNotFound())
	if err != nil {
		return nil, err
	}

	if err := wallet.Deposit(amount); err != nil {
		return nil, err
	}

	if err := s.walletRepo.SaveTx(ctx, dbTx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save wallet: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.cacheWallet(ctx, idempKey, wallet)
	s.log.Info().
		Str("wallet_id", wallet.ID().String()).
		Int64("amount", req.Amount).
		Msg("deposit processed")

	return wallet, nil
}

// Withdraw debits a wallet under a row lock and applies the post-operation
// auto-upgrade check.
func (s *WalletServiceImpl) Withdraw(ctx context.Context, req ports.WithdrawRequest) (*domain.Wallet, error) {
	amount, err := s.parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	idempKey := idempotencyKey(req.WalletID, "withdraw", req.ReferenceID)
	if cached := s.cachedWallet(ctx, idempKey); cached != nil {
		return cached, nil
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.lockWallet(ctx, dbTx, req.WalletID, apperror.ErrWalletNotFound())
	if err != nil {
		return nil, err
	}

	if err := wallet.Withdraw(amount); err != nil {
		return nil, err
	}

	wallet, err = s.maybeUpgrade(ctx, wallet)
	if err != nil {
		return nil, err
	}

	if err := s.walletRepo.SaveTx(ctx, dbTx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save wallet: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.cacheWallet(ctx, idempKey, wallet)
	s.log.Info().
		Str("wallet_id", wallet.ID().String()).
		Int64("amount", req.Amount).
		Msg("withdrawal processed")

	return wallet, nil
}

// Transfer moves funds between two wallets inside a single transaction.
// Both rows are locked in deterministic id order so two opposing transfers
// cannot deadlock.
func (s *WalletServiceImpl) Transfer(ctx context.Context, req ports.TransferRequest) (*ports.TransferResult, error) {
	amount, err := s.parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if req.SourceWalletID == req.DestinationWalletID {
		return nil, apperror.Validation("source and destination wallets must differ")
	}

	idempKey := idempotencyKey(req.SourceWalletID, "transfer", req.ReferenceID)
	if cached := s.cachedTransfer(ctx, idempKey); cached != nil {
		return cached, nil
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	var source, destination *domain.Wallet
	if req.SourceWalletID.String() < req.DestinationWalletID.String() {
		source, err = s.lockWallet(ctx, dbTx, req.SourceWalletID, apperror.ErrSourceWalletNotFound())
		if err != nil {
			return nil, err
		}
		destination, err = s.lockWallet(ctx, dbTx, req.DestinationWalletID, apperror.ErrDestinationWalletNotFound())
		if err != nil {
			return nil, err
		}
	} else {
		destination, err = s.lockWallet(ctx, dbTx, req.DestinationWalletID, apperror.ErrDestinationWalletNotFound())
		if err != nil {
			return nil, err
		}
		source, err = s.lockWallet(ctx, dbTx, req.SourceWalletID, apperror.ErrSourceWalletNotFound())
		if err != nil {
			return nil, err
		}
	}

	if err := source.Transfer(amount, destination); err != nil {
		return nil, err
	}

	source, err = s.maybeUpgrade(ctx, source)
	if err != nil {
		return nil, err
	}

	if err := s.walletRepo.SaveTx(ctx, dbTx, source); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save source wallet: %w", err))
	}
	if err := s.walletRepo.SaveTx(ctx, dbTx, destination); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save destination wallet: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	result := &ports.TransferResult{Source: source, Destination: destination}
	s.cacheTransfer(ctx, idempKey, result)
	s.log.Info().
		Str("source_wallet_id", source.ID().String()).
		Str("destination_wallet_id", destination.ID().String()).
		Int64("amount", req.Amount).
		Msg("transfer processed")

	return result, nil
}

// Pay debits a teen wallet for an external settlement.
func (s *WalletServiceImpl) Pay(ctx context.Context, req ports.PayRequest) (*domain.Wallet, error) {
	amount, err := s.parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	var targetID *domain.WalletID
	if req.TargetWalletID != nil {
		id, err := domain.ParseWalletID(*req.TargetWalletID)
		if err != nil {
			return nil, err
		}
		targetID = &id
	}

	idempKey := idempotencyKey(req.WalletID, "pay", req.ReferenceID)
	if cached := s.cachedWallet(ctx, idempKey); cached != nil {
		return cached, nil
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.lockWallet(ctx, dbTx, req.WalletID, apperror.ErrWalletNotFound())
	if err != nil {
		return nil, err
	}

	if err := wallet.Pay(amount, targetID); err != nil {
		return nil, err
	}

	wallet, err = s.maybeUpgrade(ctx, wallet)
	if err != nil {
		return nil, err
	}

	if err := s.walletRepo.SaveTx(ctx, dbTx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save wallet: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.cacheWallet(ctx, idempKey, wallet)
	s.log.Info().
		Str("wallet_id", wallet.ID().String()).
		Int64("amount", req.Amount).
		Msg("payment processed")

	return wallet, nil
}

// UpgradeIfEligible force-checks a single wallet's upgrade eligibility.
// Used by the periodic sweep; a standard wallet passes through unchanged.
func (s *WalletServiceImpl) UpgradeIfEligible(ctx context.Context, walletID domain.WalletID) (*domain.Wallet, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.lockWallet(ctx, dbTx, walletID, apperror.ErrWalletNotFound())
	if err != nil {
		return nil, err
	}
	if !wallet.IsTeen() {
		return wallet, nil
	}

	upgraded, err := s.maybeUpgrade(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if upgraded == wallet {
		return wallet, nil
	}

	if err := s.walletRepo.SaveTx(ctx, dbTx, upgraded); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save wallet: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("wallet_id", upgraded.ID().String()).
		Msg("teen wallet upgraded to standard")

	return upgraded, nil
}

// maybeUpgrade re-checks upgrade eligibility against the owner's current
// age and returns the replacement wallet when eligible, the original
// otherwise.
func (s *WalletServiceImpl) maybeUpgrade(ctx context.Context, wallet *domain.Wallet) (*domain.Wallet, error) {
	if !wallet.IsTeen() {
		return wallet, nil
	}

	ownerID, err := s.walletRepo.FindOwnerID(ctx, wallet.ID())
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find wallet owner: %w", err))
	}
	owner, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find owner: %w", err))
	}
	if owner == nil {
		return nil, apperror.ErrUserNotFound()
	}

	if !wallet.CanAutoUpgradeGivenAge(owner.Age(s.now().UTC())) {
		return wallet, nil
	}
	return wallet.AutoUpgrade()
}

// lockWallet loads a wallet under FOR UPDATE, mapping a miss to the
// caller-specific not-found error.
func (s *WalletServiceImpl) lockWallet(ctx context.Context, dbTx pgx.Tx, id domain.WalletID, notFound *apperror.AppError) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.FindByIDForUpdate(ctx, dbTx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, notFound
	}
	return wallet, nil
}

func (s *WalletServiceImpl) parseAmount(amount int64) (domain.Money, error) {
	if amount <= 0 {
		return domain.Money{}, apperror.ErrNonPositiveAmount()
	}
	m, err := domain.NewMoney(amount)
	if err != nil {
		return domain.Money{}, err
	}
	return m, nil
}

// idempotencyKey builds the cache key for an operation carrying a client
// reference id. Empty when no reference was supplied.
func idempotencyKey(walletID domain.WalletID, op, referenceID string) string {
	if referenceID == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s:%s", walletID.String(), op, referenceID)
}

// cachedWallet returns the previously cached result for an idempotency
// key, or nil on miss. Cache errors are logged, never surfaced.
func (s *WalletServiceImpl) cachedWallet(ctx context.Context, key string) *domain.Wallet {
	if key == "" {
		return nil
	}
	cached, err := s.idempCache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("redis idempotency check failed")
		return nil
	}
	if cached == nil {
		return nil
	}

	var snap domain.WalletSnapshot
	if err := json.Unmarshal(cached, &snap); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("corrupt idempotency cache entry")
		return nil
	}
	wallet, err := domain.WalletFromSnapshot(snap)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("corrupt idempotency cache entry")
		return nil
	}
	return wallet
}

func (s *WalletServiceImpl) cacheWallet(ctx context.Context, key string, wallet *domain.Wallet) {
	if key == "" {
		return
	}
	raw, err := json.Marshal(wallet.Snapshot())
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("marshal idempotency entry failed")
		return
	}
	if err := s.idempCache.Set(ctx, key, raw, idempotencyTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to cache idempotency entry")
	}
}

// transferSnapshots is the cached representation of a transfer result.
type transferSnapshots struct {
	Source      domain.WalletSnapshot `json:"source"`
	Destination domain.WalletSnapshot `json:"destination"`
}

func (s *WalletServiceImpl) cachedTransfer(ctx context.Context, key string) *ports.TransferResult {
	if key == "" {
		return nil
	}
	cached, err := s.idempCache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("redis idempotency check failed")
		return nil
	}
	if cached == nil {
		return nil
	}

	var snaps transferSnapshots
	if err := json.Unmarshal(cached, &snaps); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("corrupt idempotency cache entry")
		return nil
	}
	source, err := domain.WalletFromSnapshot(snaps.Source)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("corrupt idempotency cache entry")
		return nil
	}
	destination, err := domain.WalletFromSnapshot(snaps.Destination)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("corrupt idempotency cache entry")
		return nil
	}
	return &ports.TransferResult{Source: source, Destination: destination}
}

func (s *WalletServiceImpl) cacheTransfer(ctx context.Context, key string, result *ports.TransferResult) {
	if key == "" {
		return
	}
	raw, err := json.Marshal(transferSnapshots{
		Source:      result.Source.Snapshot(),
		Destination: result.Destination.Snapshot(),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("marshal idempotency entry failed")
		return
	}
	if err := s.idempCache.Set(ctx, key, raw, idempotencyTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to cache idempotency entry")
	}
}
