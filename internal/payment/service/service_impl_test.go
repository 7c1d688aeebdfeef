package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallybook/tallybook/internal/config"
	currencydomain "github.com/tallybook/tallybook/internal/currency/domain"
	documentdomain "github.com/tallybook/tallybook/internal/document/domain"
	documentrepo "github.com/tallybook/tallybook/internal/document/repository"
	documentservice "github.com/tallybook/tallybook/internal/document/service"
	paymentdomain "github.com/tallybook/tallybook/internal/payment/domain"
	paymentrepo "github.com/tallybook/tallybook/internal/payment/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type usdResolver struct{}

func (usdResolver) Resolve(_ context.Context, code string) (*currencydomain.Currency, error) {
	return &currencydomain.Currency{Code: code, Precision: 2}, nil
}

func newTestServices(t *testing.T) (paymentdomain.Service, documentdomain.Service, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&documentdomain.Document{},
		&documentdomain.LineItem{},
		&documentdomain.TaxLine{},
		&paymentdomain.Payment{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	docSvc := documentservice.NewService(documentservice.ServiceParam{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Repo:     documentrepo.NewRepository(db),
		Currency: usdResolver{},
		Defaults: config.NewStaticDefaultsHolder(config.DefaultDefaults()),
	})

	paySvc := NewService(ServiceParam{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Repo:      paymentrepo.NewRepository(db),
		Documents: docSvc,
	})
	return paySvc, docSvc, node
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newInvoice(t *testing.T, docSvc documentdomain.Service, node *snowflake.Node) *documentdomain.Document {
	t.Helper()
	doc, err := docSvc.Create(context.Background(), documentdomain.CreateRequest{
		CompanyID:    node.Generate().String(),
		ClientID:     node.Generate().String(),
		DocType:      documentdomain.DocTypeInvoice,
		CurrencyCode: "USD",
		LineItems: []documentdomain.LineItemInput{
			{Quantity: dec("1"), Cost: dec("100")},
		},
	})
	require.NoError(t, err)

	_, err = docSvc.MarkSent(context.Background(), documentdomain.TransitionRequest{
		CompanyID: doc.CompanyID.String(),
		ID:        doc.ID.String(),
	})
	require.NoError(t, err)
	return doc
}

func TestRecord_UpdatesDocumentBalance(t *testing.T) {
	paySvc, docSvc, node := newTestServices(t)
	doc := newInvoice(t, docSvc, node)

	payment, err := paySvc.Record(context.Background(), paymentdomain.RecordRequest{
		CompanyID:  doc.CompanyID.String(),
		DocumentID: doc.ID.String(),
		Amount:     dec("40"),
		Method:     "bank_transfer",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, payment.Reference)
	assert.Equal(t, "USD", payment.CurrencyCode)
	assert.Equal(t, doc.ClientID, payment.ClientID)

	updated, err := docSvc.Get(context.Background(), documentdomain.GetRequest{
		CompanyID: doc.CompanyID.String(),
		ID:        doc.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, documentdomain.StatusPartial, updated.Status)
	assert.True(t, dec("40").Equal(updated.PaidToDate), "paid %s", updated.PaidToDate)
	assert.True(t, dec("60").Equal(updated.Balance), "balance %s", updated.Balance)
}

func TestRecord_FullPaymentMarksPaid(t *testing.T) {
	paySvc, docSvc, node := newTestServices(t)
	doc := newInvoice(t, docSvc, node)

	_, err := paySvc.Record(context.Background(), paymentdomain.RecordRequest{
		CompanyID:  doc.CompanyID.String(),
		DocumentID: doc.ID.String(),
		Amount:     dec("100"),
	})
	require.NoError(t, err)

	updated, err := docSvc.Get(context.Background(), documentdomain.GetRequest{
		CompanyID: doc.CompanyID.String(),
		ID:        doc.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, documentdomain.StatusPaid, updated.Status)
	assert.True(t, updated.Balance.IsZero(), "balance %s", updated.Balance)
}

func TestRecord_RejectsZeroAmount(t *testing.T) {
	paySvc, docSvc, node := newTestServices(t)
	doc := newInvoice(t, docSvc, node)

	_, err := paySvc.Record(context.Background(), paymentdomain.RecordRequest{
		CompanyID:  doc.CompanyID.String(),
		DocumentID: doc.ID.String(),
		Amount:     decimal.Zero,
	})
	assert.ErrorIs(t, err, paymentdomain.ErrZeroAmount)
}

func TestDelete_ReversesPayment(t *testing.T) {
	paySvc, docSvc, node := newTestServices(t)
	doc := newInvoice(t, docSvc, node)

	payment, err := paySvc.Record(context.Background(), paymentdomain.RecordRequest{
		CompanyID:  doc.CompanyID.String(),
		DocumentID: doc.ID.String(),
		Amount:     dec("100"),
	})
	require.NoError(t, err)

	err = paySvc.Delete(context.Background(), paymentdomain.DeleteRequest{
		CompanyID: doc.CompanyID.String(),
		ID:        payment.ID.String(),
	})
	require.NoError(t, err)

	updated, err := docSvc.Get(context.Background(), documentdomain.GetRequest{
		CompanyID: doc.CompanyID.String(),
		ID:        doc.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, documentdomain.StatusSent, updated.Status)
	assert.True(t, updated.PaidToDate.IsZero(), "paid %s", updated.PaidToDate)
	assert.True(t, dec("100").Equal(updated.Balance), "balance %s", updated.Balance)

	payments, err := paySvc.List(context.Background(), paymentdomain.ListRequest{
		CompanyID:  doc.CompanyID.String(),
		DocumentID: doc.ID.String(),
	})
	require.NoError(t, err)
	assert.Empty(t, payments)
}
