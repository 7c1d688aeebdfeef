package service

import (
	"context"
	"strings"

	currencydomain "github.com/tallybook/tallybook/internal/currency/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type serviceParam struct {
	fx.In

	Logger     *zap.Logger
	Repository currencydomain.Repository
}

type service struct {
	log  *zap.Logger
	repo currencydomain.Repository
}

func NewService(p serviceParam) currencydomain.Service {
	return &service{
		log:  p.Logger.Named("currency.service"),
		repo: p.Repository,
	}
}

func (s *service) Get(ctx context.Context, code string) (*currencydomain.Currency, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, currencydomain.ErrInvalidCurrencyCode
	}
	cur, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, currencydomain.ErrCurrencyNotFound
	}
	return cur, nil
}

func (s *service) List(ctx context.Context) ([]currencydomain.Currency, error) {
	return s.repo.List(ctx)
}

type resolverParam struct {
	fx.In

	Logger     *zap.Logger
	Repository currencydomain.Repository
}

type resolver struct {
	log  *zap.Logger
	repo currencydomain.Repository
}

func NewResolver(p resolverParam) currencydomain.Resolver {
	return &resolver{
		log:  p.Logger.Named("currency.resolver"),
		repo: p.Repository,
	}
}

// Resolve never fails a totals computation on missing reference data. A
// document priced in an unseeded currency rounds at DefaultPrecision.
func (r *resolver) Resolve(ctx context.Context, code string) (*currencydomain.Currency, error) {
	normalized := normalizeCode(code)
	if normalized != "" {
		cur, err := r.repo.FindByCode(ctx, normalized)
		if err != nil {
			return nil, err
		}
		if cur != nil {
			return cur, nil
		}
		r.log.Debug("unknown currency code, using default precision", zap.String("currency_code", normalized))
	}
	return &currencydomain.Currency{
		Code:              normalized,
		Precision:         currencydomain.DefaultPrecision,
		ThousandSeparator: ",",
		DecimalSeparator:  ".",
	}, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
