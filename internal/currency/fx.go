package currency

import (
	"context"

	currencydomain "github.com/tallybook/tallybook/internal/currency/domain"
	"github.com/tallybook/tallybook/internal/currency/repository"
	"github.com/tallybook/tallybook/internal/currency/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("currency.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewResolver),
	fx.Provide(service.NewService),
	fx.Invoke(ensureSeeded),
)

// ensureSeeded backfills the built-in currency rows when the table is empty,
// covering deployments that skip SQL migrations.
func ensureSeeded(lc fx.Lifecycle, repo currencydomain.Repository, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			existing, err := repo.List(ctx)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				return nil
			}
			for _, cur := range currencydomain.Seed() {
				cur := cur
				if err := repo.Upsert(ctx, &cur); err != nil {
					return err
				}
			}
			log.Info("seeded currency reference data", zap.Int("count", len(currencydomain.Seed())))
			return nil
		},
	})
}
