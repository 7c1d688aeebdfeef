package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallybook/tallybook/internal/clock"
	"github.com/tallybook/tallybook/internal/config"
	currencydomain "github.com/tallybook/tallybook/internal/currency/domain"
	documentdomain "github.com/tallybook/tallybook/internal/document/domain"
	documentrepo "github.com/tallybook/tallybook/internal/document/repository"
	documentservice "github.com/tallybook/tallybook/internal/document/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type usdResolver struct{}

func (usdResolver) Resolve(_ context.Context, code string) (*currencydomain.Currency, error) {
	return &currencydomain.Currency{Code: code, Precision: 2}, nil
}

func newTestScheduler(t *testing.T, fake *clock.FakeClock) (*Scheduler, documentdomain.Service, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&documentdomain.Document{},
		&documentdomain.LineItem{},
		&documentdomain.TaxLine{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo := documentrepo.NewRepository(db)
	docSvc := documentservice.NewService(documentservice.ServiceParam{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Repo:     repo,
		Currency: usdResolver{},
		Defaults: config.NewStaticDefaultsHolder(config.DefaultDefaults()),
	})

	sched := New(Params{
		Log:         zap.NewNop(),
		Clock:       fake,
		DocumentSvc: docSvc,
		Repo:        repo,
	})
	return sched, docSvc, node
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func activeRecurring(t *testing.T, docSvc documentdomain.Service, node *snowflake.Node, start time.Time, cycles int) *documentdomain.Document {
	t.Helper()

	doc, err := docSvc.Create(context.Background(), documentdomain.CreateRequest{
		CompanyID:       node.Generate().String(),
		ClientID:        node.Generate().String(),
		DocType:         documentdomain.DocTypeRecurringInvoice,
		CurrencyCode:    "USD",
		FrequencyDays:   30,
		RemainingCycles: &cycles,
		NextSendAt:      &start,
		LineItems: []documentdomain.LineItemInput{
			{Quantity: dec("1"), Cost: dec("99.95")},
		},
	})
	require.NoError(t, err)

	activated, err := docSvc.MarkSent(context.Background(), documentdomain.TransitionRequest{
		CompanyID: doc.CompanyID.String(),
		ID:        doc.ID.String(),
	})
	require.NoError(t, err)
	require.Equal(t, documentdomain.StatusActive, activated.Status)
	return activated
}

func listInvoices(t *testing.T, docSvc documentdomain.Service, companyID string) []documentdomain.Document {
	t.Helper()
	resp, err := docSvc.List(context.Background(), documentdomain.ListRequest{
		CompanyID: companyID,
		DocType:   documentdomain.DocTypeInvoice,
	})
	require.NoError(t, err)
	return resp.Documents
}

func TestMaterialize_DueRecurringCreatesInvoice(t *testing.T) {
	start := time.Date(2026, time.January, 1, 9, 0, 0, 0, time.UTC)
	fake := clock.NewFakeClock(start.Add(time.Hour))
	sched, docSvc, node := newTestScheduler(t, fake)

	recurring := activeRecurring(t, docSvc, node, start, -1)

	require.NoError(t, sched.RunOnce(context.Background()))

	invoices := listInvoices(t, docSvc, recurring.CompanyID.String())
	require.Len(t, invoices, 1)
	assert.Equal(t, documentdomain.StatusDraft, invoices[0].Status)
	assert.True(t, dec("99.95").Equal(invoices[0].Amount), "amount %s", invoices[0].Amount)

	updated, err := docSvc.Get(context.Background(), documentdomain.GetRequest{
		CompanyID: recurring.CompanyID.String(),
		ID:        recurring.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, documentdomain.StatusActive, updated.Status)
	require.NotNil(t, updated.NextSendAt)
	assert.True(t, updated.NextSendAt.After(fake.Now()))
}

func TestMaterialize_NotDueYet(t *testing.T) {
	start := time.Date(2026, time.January, 1, 9, 0, 0, 0, time.UTC)
	fake := clock.NewFakeClock(start.Add(-time.Hour))
	sched, docSvc, node := newTestScheduler(t, fake)

	recurring := activeRecurring(t, docSvc, node, start, -1)

	require.NoError(t, sched.RunOnce(context.Background()))

	invoices := listInvoices(t, docSvc, recurring.CompanyID.String())
	assert.Empty(t, invoices)
}

func TestMaterialize_LastCycleCompletes(t *testing.T) {
	start := time.Date(2026, time.January, 1, 9, 0, 0, 0, time.UTC)
	fake := clock.NewFakeClock(start.Add(time.Hour))
	sched, docSvc, node := newTestScheduler(t, fake)

	recurring := activeRecurring(t, docSvc, node, start, 1)

	require.NoError(t, sched.RunOnce(context.Background()))

	updated, err := docSvc.Get(context.Background(), documentdomain.GetRequest{
		CompanyID: recurring.CompanyID.String(),
		ID:        recurring.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, documentdomain.StatusCompleted, updated.Status)
	assert.Nil(t, updated.NextSendAt)

	// A later sweep produces nothing new.
	fake.Advance(48 * time.Hour)
	require.NoError(t, sched.RunOnce(context.Background()))
	invoices := listInvoices(t, docSvc, recurring.CompanyID.String())
	assert.Len(t, invoices, 1)
}

func TestMaterialize_SkipsMissedPeriodsWithoutBurst(t *testing.T) {
	start := time.Date(2026, time.January, 1, 9, 0, 0, 0, time.UTC)
	// Three periods behind.
	fake := clock.NewFakeClock(start.AddDate(0, 0, 95))
	sched, docSvc, node := newTestScheduler(t, fake)

	recurring := activeRecurring(t, docSvc, node, start, -1)

	require.NoError(t, sched.RunOnce(context.Background()))

	// One catch-up invoice, schedule moved past now.
	invoices := listInvoices(t, docSvc, recurring.CompanyID.String())
	require.Len(t, invoices, 1)

	updated, err := docSvc.Get(context.Background(), documentdomain.GetRequest{
		CompanyID: recurring.CompanyID.String(),
		ID:        recurring.ID.String(),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.NextSendAt)
	assert.True(t, updated.NextSendAt.After(fake.Now()))
}
