package domain

import "context"

// Resolver returns the currency governing a document's rounding. Unknown
// codes resolve to a synthetic currency with DefaultPrecision so totals
// can always be computed.
type Resolver interface {
	Resolve(ctx context.Context, code string) (*Currency, error)
}

type Service interface {
	Get(ctx context.Context, code string) (*Currency, error)
	List(ctx context.Context) ([]Currency, error)
}
