package worker

import (
	"context"
	"time"

	"teen-wallet-service/internal/core/ports"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const sweepTimeout = 2 * time.Minute

// UpgradeSweeper periodically scans teen wallets and upgrades the ones
// whose owners have come of age. It backstops the on-operation upgrade
// check for wallets that sit idle past the owner's 18th birthday.
type UpgradeSweeper struct {
	cron       *cron.Cron
	schedule   string
	walletRepo ports.WalletRepository
	userRepo   ports.UserRepository
	walletSvc  ports.WalletService
	log        zerolog.Logger
	now        func() time.Time
}

// NewUpgradeSweeper creates a sweeper with the given cron schedule.
func NewUpgradeSweeper(
	schedule string,
	walletRepo ports.WalletRepository,
	userRepo ports.UserRepository,
	walletSvc ports.WalletService,
	log zerolog.Logger,
) *UpgradeSweeper {
	return &UpgradeSweeper{
		cron:       cron.New(),
		schedule:   schedule,
		walletRepo: walletRepo,
		userRepo:   userRepo,
		walletSvc:  walletSvc,
		log:        log,
		now:        time.Now,
	}
}

// Start registers the sweep job and starts the cron scheduler.
func (s *UpgradeSweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		s.Sweep(ctx)
	}); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("schedule", s.schedule).Msg("upgrade sweeper started")
	return nil
}

// Stop gracefully stops the cron scheduler and returns a context that
// completes once any running sweep has finished.
func (s *UpgradeSweeper) Stop() context.Context {
	return s.cron.Stop()
}

// Sweep runs a single pass over all teen wallets, upgrading the eligible
// ones. Per-wallet failures are logged and skipped so one bad row cannot
// stall the pass.
func (s *UpgradeSweeper) Sweep(ctx context.Context) {
	refs, err := s.walletRepo.ListTeenWalletOwners(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("upgrade sweep: listing teen wallets failed")
		return
	}

	var upgraded, failed int
	ref := s.now().UTC()

	for _, r := range refs {
		owner, err := s.userRepo.FindByID(ctx, r.OwnerID)
		if err != nil {
			s.log.Error().Err(err).Str("wallet_id", r.WalletID.String()).Msg("upgrade sweep: owner lookup failed")
			failed++
			continue
		}
		if owner == nil || owner.Age(ref) < 18 {
			continue
		}

		if _, err := s.walletSvc.UpgradeIfEligible(ctx, r.WalletID); err != nil {
			s.log.Error().Err(err).Str("wallet_id", r.WalletID.String()).Msg("upgrade sweep: upgrade failed")
			failed++
			continue
		}
		upgraded++
	}

	s.log.Info().
		Int("scanned", len(refs)).
		Int("upgraded", upgraded).
		Int("failed", failed).
		Msg("upgrade sweep finished")
}
