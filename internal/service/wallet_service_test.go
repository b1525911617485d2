package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"teen-wallet-service/internal/core/domain"
	"teen-wallet-service/internal/core/ports"
	"teen-wallet-service/internal/core/ports/mocks"
	"teen-wallet-service/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type walletTestDeps struct {
	svc        *WalletServiceImpl
	walletRepo *mocks.MockWalletRepository
	userRepo   *mocks.MockUserRepository
	idempCache *mocks.MockIdempotencyCache
	transactor *mocks.MockDBTransactor
	ctrl       *gomock.Controller
}

func setupWalletService(t *testing.T) *walletTestDeps {
	ctrl := gomock.NewController(t)
	d := &walletTestDeps{
		walletRepo: mocks.NewMockWalletRepository(ctrl),
		userRepo:   mocks.NewMockUserRepository(ctrl),
		idempCache: mocks.NewMockIdempotencyCache(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewWalletService(d.walletRepo, d.userRepo, d.idempCache, d.transactor, zerolog.Nop())
	d.svc.now = func() time.Time {
		return time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	}
	return d
}

// mockTx implements pgx.Tx for testing
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

func testUser(t *testing.T, birthDate time.Time) *domain.User {
	t.Helper()
	u, err := domain.NewUser(domain.NewUserParams{
		ID:           domain.NewUserID(),
		FirstName:    "Ana",
		LastName:     "Garcia",
		BirthDate:    birthDate,
		Email:        "ana@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return u
}

func testStandardWallet(t *testing.T, balance int64) *domain.Wallet {
	t.Helper()
	w, err := domain.NewWallet(domain.NewWalletParams{
		ID:             domain.NewWalletID(),
		Currency:       domain.USD,
		InitialBalance: balance,
	})
	require.NoError(t, err)
	return w
}

func testTeenWallet(t *testing.T, balance int64, limit *int64, whitelist ...domain.WalletID) *domain.Wallet {
	t.Helper()
	w, err := domain.NewWallet(domain.NewWalletParams{
		ID:             domain.NewWalletID(),
		Currency:       domain.USD,
		InitialBalance: balance,
		Type:           domain.WalletTypeTeen,
		TeenRules: &domain.TeenRules{
			ParentWalletID:       domain.NewWalletID(),
			PerTransactionLimit:  limit,
			WhitelistedWalletIDs: whitelist,
		},
	})
	require.NoError(t, err)
	return w
}

func int64Ptr(v int64) *int64 { return &v }
func strPtr(s string) *string { return &s }

// ==================== CreateWallet Tests ====================

func TestWalletService_CreateWallet_Standard(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()

	owner := testUser(t, time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC))

	d.userRepo.EXPECT().FindByID(ctx, owner.ID()).Return(owner, nil)
	d.walletRepo.EXPECT().Save(ctx, gomock.Any(), owner.ID()).Return(nil)

	wallet, err := d.svc.CreateWallet(ctx, ports.CreateWalletRequest{
		OwnerID:        owner.ID(),
		Currency:       "USD",
		InitialBalance: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.WalletTypeStandard, wallet.Type())
	assert.Equal(t, int64(500), wallet.Balance().Value())
}

func TestWalletService_CreateWallet_InvalidCurrency(t *testing.T) {
	d := setupWalletService(t)

	_, err := d.svc.CreateWallet(context.Background(), ports.CreateWalletRequest{
		OwnerID:  domain.NewUserID(),
		Currency: "EUR",
	})
	require.ErrorIs(t, err, apperror.ErrInvalidCurrency())
}

func TestWalletService_CreateWallet_OwnerNotFound(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()
	ownerID := domain.NewUserID()

	d.userRepo.EXPECT().FindByID(ctx, ownerID).Return(nil, nil)

	_, err := d.svc.CreateWallet(ctx, ports.CreateWalletRequest{
		OwnerID:  ownerID,
		Currency: "USD",
	})
	require.ErrorIs(t, err, apperror.ErrUserNotFound())
}

func TestWalletService_CreateWallet_Teen(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()

	owner := testUser(t, time.Date(2011, time.January, 1, 0, 0, 0, 0, time.UTC))
	parent := testStandardWallet(t, 0)

	d.userRepo.EXPECT().FindByID(ctx, owner.ID()).Return(owner, nil)
	d.walletRepo.EXPECT().FindByID(ctx, parent.ID()).Return(parent, nil)
	d.walletRepo.EXPECT().Save(ctx, gomock.Any(), owner.ID()).Return(nil)

	wallet, err := d.svc.CreateWallet(ctx, ports.CreateWalletRequest{
		OwnerID:             owner.ID(),
		Currency:            "USD",
		Type:                string(domain.WalletTypeTeen),
		ParentWalletID:      strPtr(parent.ID().String()),
		PerTransactionLimit: int64Ptr(5000),
	})
	require.NoError(t, err)
	assert.True(t, wallet.IsTeen())

	parentID, ok := wallet.ParentWalletID()
	require.True(t, ok)
	assert.Equal(t, parent.ID(), parentID)
}

func TestWalletService_CreateWallet_TeenParentChecks(t *testing.T) {
	t.Run("missing parent id", func(t *testing.T) {
		d := setupWalletService(t)
		ctx := context.Background()
		owner := testUser(t, time.Date(2011, time.January, 1, 0, 0, 0, 0, time.UTC))

		d.userRepo.EXPECT().FindByID(ctx, owner.ID()).Return(owner, nil)

		_, err := d.svc.CreateWallet(ctx, ports.CreateWalletRequest{
			OwnerID:  owner.ID(),
			Currency: "USD",
			Type:     string(domain.WalletTypeTeen),
		})
		require.ErrorIs(t, err, apperror.ErrMissingTeenRules())
	})

	t.Run("parent not found", func(t *testing.T) {
		d := setupWalletService(t)
		ctx := context.Background()
		owner := testUser(t, time.Date(2011, time.January, 1, 0, 0, 0, 0, time.UTC))
		parentID := domain.NewWalletID()

		d.userRepo.EXPECT().FindByID(ctx, owner.ID()).Return(owner, nil)
		d.walletRepo.EXPECT().FindByID(ctx, parentID).Return(nil, nil)

		_, err := d.svc.CreateWallet(ctx, ports.CreateWalletRequest{
			OwnerID:        owner.ID(),
			Currency:       "USD",
			Type:           string(domain.WalletTypeTeen),
			ParentWalletID: strPtr(parentID.String()),
		})
		require.ErrorIs(t, err, apperror.ErrParentWalletNotFound())
	})

	t.Run("parent is teen", func(t *testing.T) {
		d := setupWalletService(t)
		ctx := context.Background()
		owner := testUser(t, time.Date(2011, time.January, 1, 0, 0, 0, 0, time.UTC))
		parent := testTeenWallet(t, 0, nil)

		d.userRepo.EXPECT().FindByID(ctx, owner.ID()).Return(owner, nil)
		d.walletRepo.EXPECT().FindByID(ctx, parent.ID()).Return(parent, nil)

		_, err := d.svc.CreateWallet(ctx, ports.CreateWalletRequest{
			OwnerID:        owner.ID(),
			Currency:       "USD",
			Type:           string(domain.WalletTypeTeen),
			ParentWalletID: strPtr(parent.ID().String()),
		})
		require.ErrorIs(t, err, apperror.ErrParentMustBeStandard())
	})
}

// ==================== GetWallet Tests ====================

func TestWalletService_GetWallet(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()
	wallet := testStandardWallet(t, 100)

	d.walletRepo.EXPECT().FindByID(ctx, wallet.ID()).Return(wallet, nil)

	got, err := d.svc.GetWallet(ctx, wallet.ID())
	require.NoError(t, err)
	assert.Equal(t, wallet.ID(), got.ID())
}

func TestWalletService_GetWallet_NotFound(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()
	id := domain.NewWalletID()

	d.walletRepo.EXPECT().FindByID(ctx, id).Return(nil, nil)

	_, err := d.svc.GetWallet(ctx, id)
	require.ErrorIs(t, err, apperror.ErrWalletNotFound())
}

// ==================== Deposit Tests ====================

func TestWalletService_Deposit(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()
	wallet := testStandardWallet(t, 100)
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().FindByIDForUpdate(ctx, tx, wallet.ID()).Return(wallet, nil)
	d.walletRepo.EXPECT().SaveTx(ctx, tx, wallet).Return(nil)

	got, err := d.svc.Deposit(ctx, ports.DepositRequest{WalletID: wallet.ID(), Amount: 400})
	require.NoError(t, err)
	assert.Equal(t, int64(500), got.Balance().Value())
}

func TestWalletService_Deposit_NonPositiveAmount(t *testing.T) {
	d := setupWalletService(t)

	for _, amount := range []int64{0, -100} {
		_, err := d.svc.Deposit(context.Background(), ports.DepositRequest{
			WalletID: domain.NewWalletID(),
			Amount:   amount,
		})
		require.ErrorIs(t, err, apperror.ErrNonPositiveAmount())
	}
}

func TestWalletService_Deposit_WalletNotFound(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()
	id := domain.NewWalletID()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().FindByIDForUpdate(ctx, tx, id).Return(nil, nil)

	_, err := d.svc.Deposit(ctx, ports.DepositRequest{WalletID: id, Amount: 100})
	require.ErrorIs(t, err, apperror.ErrWalletNotFound())
}

func TestWalletService_Deposit_IdempotencyHit(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()
	wallet := testStandardWallet(t, 500)

	cached, err := json.Marshal(wallet.Snapshot())
	require.NoError(t, err)

	key := wallet.ID().String() + ":deposit:REF-1"
	d.idempCache.EXPECT().Get(ctx, key).Return(cached, nil)

	got, err := d.svc.Deposit(ctx, ports.DepositRequest{
		WalletID:    wallet.ID(),
		Amount:      400,
		ReferenceID: "REF-1",
	})
	require.NoError(t, err)
	// The cached result is returned as-is; no transaction runs.
	assert.Equal(t, int64(500), got.Balance().Value())
}

func TestWalletService_Deposit_IdempotencyMissCachesResult(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()
	wallet := testStandardWallet(t, 100)
	tx := &mockTx{}

	key := wallet.ID().String() + ":deposit:REF-2"
	d.idempCache.EXPECT().Get(ctx, key).Return(nil, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().FindByIDForUpdate(ctx, tx, wallet.ID()).Return(wallet, nil)
	d.walletRepo.EXPECT().SaveTx(ctx, tx, wallet).Return(nil)
	d.idempCache.EXPECT().Set(ctx, key, gomock.Any(), idempotencyTTL).
		DoAndReturn(func(_ context.Context, _ string, value []byte, _ time.Duration) error {
			var snap domain.WalletSnapshot
			require.NoError(t, json.Unmarshal(value, &snap))
			assert.Equal(t, int64(500), snap.Balance)
			return nil
		})

	_, err := d.svc.Deposit(ctx, ports.DepositRequest{
		WalletID:    wallet.ID(),
		Amount:      400,
		ReferenceID: "REF-2",
	})
	require.NoError(t, err)
}

// ==================== Withdraw Tests ====================

func TestWalletService_Withdraw(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()
	wallet := testStandardWallet(t, 1000)
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().FindByIDForUpdate(ctx, tx, wallet.ID()).Return(wallet, nil)
	d.walletRepo.EXPECT().SaveTx(ctx, tx, wallet).Return(nil)

	got, err := d.svc.Withdraw(ctx, ports.WithdrawRequest{WalletID: wallet.ID(), Amount: 400})
	require.NoError(t, err)
	assert.Equal(t, int64(600), got.Balance().Value())
}

func TestWalletService_Withdraw_InsufficientFunds(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()
	wallet := testStandardWallet(t, 100)
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().FindByIDForUpdate(ctx, tx, wallet.ID()).Return(wallet, nil)

	_, err := d.svc.Withdraw(ctx, ports.WithdrawRequest{WalletID: wallet.ID(), Amount: 200})
	require.ErrorIs(t, err, apperror.ErrInsufficientFunds())
}

func TestWalletService_Withdraw_AutoUpgrade(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()

	// Owner turned 18 before the fixed test clock.
	owner := testUser(t, time.Date(2008, time.January, 1, 0, 0, 0, 0, time.UTC))
	wallet := testTeenWallet(t, 1000, nil)
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().FindByIDForUpdate(ctx, tx, wallet.ID()).Return(wallet, nil)
	d.walletRepo.EXPECT().FindOwnerID(ctx, wallet.ID()).Return(owner.ID(), nil)
	d.userRepo.EXPECT().FindByID(ctx, owner.ID()).Return(owner, nil)
	d.walletRepo.EXPECT().SaveTx(ctx, tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, w *domain.Wallet) error {
			assert.Equal(t, domain.WalletTypeStandard, w.Type())
			return nil
		})

	got, err := d.svc.Withdraw(ctx, ports.WithdrawRequest{WalletID: wallet.ID(), Amount: 400})
	require.NoError(t, err)
	assert.Equal(t, domain.WalletTypeStandard, got.Type())
	assert.Equal(t, int64(600), got.Balance().Value())
	assert.Equal(t, wallet.ID(), got.ID())
}

func TestWalletService_Withdraw_NoUpgradeUnderage(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()

	owner := testUser(t, time.Date(2011, time.January, 1, 0, 0, 0, 0, time.UTC))
	wallet := testTeenWallet(t, 1000, nil)
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().FindByIDForUpdate(ctx, tx, wallet.ID()).Return(wallet, nil)
	d.walletRepo.EXPECT().FindOwnerID(ctx, wallet.ID()).Return(owner.ID(), nil)
	d.userRepo.EXPECT().FindByID(ctx, owner.ID()).Return(owner, nil)
	d.walletRepo.EXPECT().SaveTx(ctx, tx, wallet).Return(nil)

	got, err := d.svc.Withdraw(ctx, ports.WithdrawRequest{WalletID: wallet.ID(), Amount: 400})
	require.NoError(t, err)
	assert.True(t, got.IsTeen())
}

// ==================== Transfer Tests ====================

func TestWalletService_Transfer(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()
	source := testStandardWallet(t, 1000)
	destination := testStandardWallet(t, 50)
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().FindByIDForUpdate(ctx, tx, source.ID()).Return(source, nil)
	d.walletRepo.EXPECT().FindByIDForUpdate(ctx, tx, destination.ID()).Return(destination, nil)
	d.walletRepo.EXPECT().SaveTx(ctx, tx, source).Return(nil)
	d.walletRepo.EXPECT().SaveTx(ctx, tx, destination).Return(nil)

	result, err := d.svc.Transfer(ctx, ports.TransferRequest{
		SourceWalletID:      source.ID(),
		DestinationWalletID: destination.ID(),
		Amount:              300,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(700), result.Source.Balance().Value())
	assert.Equal(t, int64(350), result.Destination.Balance().Value())

	// Total balance is conserved across the pair.
	assert.Equal(t, int64(1050), result.Source.Balance().Value()+result.Destination.Balance().Value())
}

func TestWalletService_Transfer_SameWallet(t *testing.T) {
	d := setupWalletService(t)
	id := domain.NewWalletID()

	_, err := d.svc.Transfer(context.Background(), ports.TransferRequest{
		SourceWalletID:      id,
		DestinationWalletID: id,
		Amount:              100,
	})
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
}

func TestWalletService_Transfer_SourceNotFound(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()
	sourceID := domain.NewWalletID()
	destination := testStandardWallet(t, 0)
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().FindByIDForUpdate(ctx, tx, sourceID).Return(nil, nil)
	d.walletRepo.EXPECT().FindByIDForUpdate(ctx, tx, destination.ID()).Return(destination, nil).AnyTimes()

	_, err := d.svc.Transfer(ctx, ports.TransferRequest{
		SourceWalletID:      sourceID,
		DestinationWalletID: destination.ID(),
		Amount:              100,
	})
	require.ErrorIs(t, err, apperror.ErrSourceWalletNotFound())
}

func TestWalletService_Transfer_DestinationNotFound(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()
	source := testStandardWallet(t, 1000)
	destinationID := domain.NewWalletID()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().FindByIDForUpdate(ctx, tx, source.ID()).Return(source, nil).AnyTimes()
	d.walletRepo.EXPECT().FindByIDForUpdate(ctx, tx, destinationID).Return(nil, nil)

	_, err := d.svc.Transfer(ctx, ports.TransferRequest{
		SourceWalletID:      source.ID(),
		DestinationWalletID: destinationID,
		Amount:              100,
	})
	require.ErrorIs(t, err, apperror.ErrDestinationWalletNotFound())
}

func TestWalletService_Transfer_TeenWhitelistRejection(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()
	destination := testStandardWallet(t, 0)
	source := testTeenWallet(t, 10000, nil, domain.NewWalletID())
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().FindByIDForUpdate(ctx, tx, source.ID()).Return(source, nil)
	d.walletRepo.EXPECT().FindByIDForUpdate(ctx, tx, destination.ID()).Return(destination, nil)

	_, err := d.svc.Transfer(ctx, ports.TransferRequest{
		SourceWalletID:      source.ID(),
		DestinationWalletID: destination.ID(),
		Amount:              100,
	})
	require.ErrorIs(t, err, apperror.ErrTargetNotWhitelisted())
}

// ==================== Pay Tests ====================

func TestWalletService_Pay(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()

	owner := testUser(t, time.Date(2011, time.January, 1, 0, 0, 0, 0, time.UTC))
	wallet := testTeenWallet(t, 10000, int64Ptr(5000))
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().FindByIDForUpdate(ctx, tx, wallet.ID()).Return(wallet, nil)
	d.walletRepo.EXPECT().FindOwnerID(ctx, wallet.ID()).Return(owner.ID(), nil)
	d.userRepo.EXPECT().FindByID(ctx, owner.ID()).Return(owner, nil)
	d.walletRepo.EXPECT().SaveTx(ctx, tx, wallet).Return(nil)

	got, err := d.svc.Pay(ctx, ports.PayRequest{WalletID: wallet.ID(), Amount: 3000})
	require.NoError(t, err)
	assert.Equal(t, int64(7000), got.Balance().Value())
}

func TestWalletService_Pay_StandardRejected(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()
	wallet := testStandardWallet(t, 10000)
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().FindByIDForUpdate(ctx, tx, wallet.ID()).Return(wallet, nil)

	_, err := d.svc.Pay(ctx, ports.PayRequest{WalletID: wallet.ID(), Amount: 100})
	require.ErrorIs(t, err, apperror.ErrPayNotAllowedForStandard())
}

func TestWalletService_Pay_InvalidTargetID(t *testing.T) {
	d := setupWalletService(t)

	_, err := d.svc.Pay(context.Background(), ports.PayRequest{
		WalletID:       domain.NewWalletID(),
		Amount:         100,
		TargetWalletID: strPtr("not-a-uuid"),
	})
	require.ErrorIs(t, err, apperror.ErrInvalidID("wallet"))
}

// ==================== UpgradeIfEligible Tests ====================

func TestWalletService_UpgradeIfEligible(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()

	owner := testUser(t, time.Date(2008, time.January, 1, 0, 0, 0, 0, time.UTC))
	wallet := testTeenWallet(t, 2500, int64Ptr(1000))
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().FindByIDForUpdate(ctx, tx, wallet.ID()).Return(wallet, nil)
	d.walletRepo.EXPECT().FindOwnerID(ctx, wallet.ID()).Return(owner.ID(), nil)
	d.userRepo.EXPECT().FindByID(ctx, owner.ID()).Return(owner, nil)
	d.walletRepo.EXPECT().SaveTx(ctx, tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, w *domain.Wallet) error {
			assert.Equal(t, domain.WalletTypeStandard, w.Type())
			assert.Equal(t, int64(2500), w.Balance().Value())
			return nil
		})

	got, err := d.svc.UpgradeIfEligible(ctx, wallet.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.WalletTypeStandard, got.Type())
}

func TestWalletService_UpgradeIfEligible_Underage(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()

	owner := testUser(t, time.Date(2011, time.January, 1, 0, 0, 0, 0, time.UTC))
	wallet := testTeenWallet(t, 2500, nil)
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().FindByIDForUpdate(ctx, tx, wallet.ID()).Return(wallet, nil)
	d.walletRepo.EXPECT().FindOwnerID(ctx, wallet.ID()).Return(owner.ID(), nil)
	d.userRepo.EXPECT().FindByID(ctx, owner.ID()).Return(owner, nil)

	got, err := d.svc.UpgradeIfEligible(ctx, wallet.ID())
	require.NoError(t, err)
	assert.True(t, got.IsTeen())
}

func TestWalletService_UpgradeIfEligible_StandardPassthrough(t *testing.T) {
	d := setupWalletService(t)
	ctx := context.Background()
	wallet := testStandardWallet(t, 100)
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().FindByIDForUpdate(ctx, tx, wallet.ID()).Return(wallet, nil)

	got, err := d.svc.UpgradeIfEligible(ctx, wallet.ID())
	require.NoError(t, err)
	assert.Equal(t, wallet.ID(), got.ID())
	assert.False(t, got.IsTeen())
}
