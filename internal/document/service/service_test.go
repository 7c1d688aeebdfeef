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
	"github.com/tallybook/tallybook/internal/document/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type staticResolver struct {
	currencies map[string]*currencydomain.Currency
}

func (r *staticResolver) Resolve(_ context.Context, code string) (*currencydomain.Currency, error) {
	if cur, ok := r.currencies[code]; ok {
		return cur, nil
	}
	return &currencydomain.Currency{Code: code, Precision: currencydomain.DefaultPrecision}, nil
}

func newTestService(t *testing.T) (documentdomain.Service, *snowflake.Node) {
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

	resolver := &staticResolver{currencies: map[string]*currencydomain.Currency{
		"USD": {Code: "USD", Precision: 2},
		"JPY": {Code: "JPY", Precision: 0},
	}}

	svc := NewService(ServiceParam{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Repo:     repository.NewRepository(db),
		Currency: resolver,
		Defaults: config.NewStaticDefaultsHolder(config.DefaultDefaults()),
	})
	return svc, node
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func createInvoice(t *testing.T, svc documentdomain.Service, node *snowflake.Node, lines []documentdomain.LineItemInput) *documentdomain.Document {
	t.Helper()
	doc, err := svc.Create(context.Background(), documentdomain.CreateRequest{
		CompanyID:    node.Generate().String(),
		ClientID:     node.Generate().String(),
		DocType:      documentdomain.DocTypeInvoice,
		CurrencyCode: "USD",
		LineItems:    lines,
	})
	require.NoError(t, err)
	return doc
}

func TestCreate_ComputesTotalsAndAssignsNumber(t *testing.T) {
	svc, node := newTestService(t)

	doc := createInvoice(t, svc, node, []documentdomain.LineItemInput{
		{Quantity: dec("2"), Cost: dec("50"), TaxName1: "VAT", TaxRate1: dec("10")},
	})

	assert.Equal(t, documentdomain.StatusDraft, doc.Status)
	assert.Regexp(t, `^INV-\d{6}-\d{6}$`, doc.Number)
	assert.True(t, dec("100").Equal(doc.Subtotal), "subtotal %s", doc.Subtotal)
	assert.True(t, dec("10").Equal(doc.TotalTaxes), "taxes %s", doc.TotalTaxes)
	assert.True(t, dec("110").Equal(doc.Amount), "amount %s", doc.Amount)
	assert.True(t, dec("110").Equal(doc.Balance), "balance %s", doc.Balance)
	require.Len(t, doc.TaxLines, 1)
	assert.Equal(t, "VAT", doc.TaxLines[0].Name)
}

func TestCreate_RejectsUnknownDocType(t *testing.T) {
	svc, node := newTestService(t)

	_, err := svc.Create(context.Background(), documentdomain.CreateRequest{
		CompanyID: node.Generate().String(),
		ClientID:  node.Generate().String(),
		DocType:   documentdomain.DocType("purchase_order"),
	})
	assert.ErrorIs(t, err, documentdomain.ErrInvalidDocType)
}

func TestCreate_RecurringRequiresFrequency(t *testing.T) {
	svc, node := newTestService(t)

	_, err := svc.Create(context.Background(), documentdomain.CreateRequest{
		CompanyID: node.Generate().String(),
		ClientID:  node.Generate().String(),
		DocType:   documentdomain.DocTypeRecurringInvoice,
	})
	assert.ErrorIs(t, err, documentdomain.ErrInvalidFrequency)
}

func TestUpsertLineItem_Recomputes(t *testing.T) {
	svc, node := newTestService(t)

	doc := createInvoice(t, svc, node, []documentdomain.LineItemInput{
		{Quantity: dec("1"), Cost: dec("100")},
	})

	updated, err := svc.UpsertLineItem(context.Background(), documentdomain.UpsertLineItemRequest{
		CompanyID:  doc.CompanyID.String(),
		DocumentID: doc.ID.String(),
		Line:       documentdomain.LineItemInput{Quantity: dec("3"), Cost: dec("10")},
	})
	require.NoError(t, err)

	require.Len(t, updated.LineItems, 2)
	assert.True(t, dec("130").Equal(updated.Subtotal), "subtotal %s", updated.Subtotal)
	assert.True(t, dec("130").Equal(updated.Balance), "balance %s", updated.Balance)
}

func TestUpsertLineItem_UpdatesExistingLine(t *testing.T) {
	svc, node := newTestService(t)

	doc := createInvoice(t, svc, node, []documentdomain.LineItemInput{
		{Quantity: dec("1"), Cost: dec("100")},
	})
	lineID := doc.LineItems[0].ID

	updated, err := svc.UpsertLineItem(context.Background(), documentdomain.UpsertLineItemRequest{
		CompanyID:  doc.CompanyID.String(),
		DocumentID: doc.ID.String(),
		Line: documentdomain.LineItemInput{
			ID:       lineID.String(),
			Quantity: dec("2"),
			Cost:     dec("100"),
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.LineItems, 1)
	assert.Equal(t, lineID, updated.LineItems[0].ID)
	assert.True(t, dec("200").Equal(updated.Subtotal), "subtotal %s", updated.Subtotal)
}

func TestDeleteLineItem_Recomputes(t *testing.T) {
	svc, node := newTestService(t)

	doc := createInvoice(t, svc, node, []documentdomain.LineItemInput{
		{Quantity: dec("1"), Cost: dec("100")},
		{Quantity: dec("1"), Cost: dec("40")},
	})

	updated, err := svc.DeleteLineItem(context.Background(), documentdomain.DeleteLineItemRequest{
		CompanyID:  doc.CompanyID.String(),
		DocumentID: doc.ID.String(),
		LineID:     doc.LineItems[1].ID.String(),
	})
	require.NoError(t, err)

	require.Len(t, updated.LineItems, 1)
	assert.True(t, dec("100").Equal(updated.Subtotal), "subtotal %s", updated.Subtotal)
}

func TestUpdate_ChangingCurrencyRerounds(t *testing.T) {
	svc, node := newTestService(t)

	doc := createInvoice(t, svc, node, []documentdomain.LineItemInput{
		{Quantity: dec("1.2"), Cost: dec("27.78")}, // 33.336
	})
	assert.True(t, dec("33.34").Equal(doc.Subtotal), "subtotal %s", doc.Subtotal)

	jpy := "JPY"
	updated, err := svc.Update(context.Background(), documentdomain.UpdateRequest{
		CompanyID:    doc.CompanyID.String(),
		ID:           doc.ID.String(),
		CurrencyCode: &jpy,
	})
	require.NoError(t, err)

	assert.True(t, dec("33").Equal(updated.Subtotal), "subtotal %s", updated.Subtotal)
}

func TestMarkSentAndVoid(t *testing.T) {
	svc, node := newTestService(t)

	doc := createInvoice(t, svc, node, []documentdomain.LineItemInput{
		{Quantity: dec("1"), Cost: dec("10")},
	})

	sent, err := svc.MarkSent(context.Background(), documentdomain.TransitionRequest{
		CompanyID: doc.CompanyID.String(),
		ID:        doc.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, documentdomain.StatusSent, sent.Status)

	_, err = svc.MarkSent(context.Background(), documentdomain.TransitionRequest{
		CompanyID: doc.CompanyID.String(),
		ID:        doc.ID.String(),
	})
	assert.ErrorIs(t, err, documentdomain.ErrInvalidStatus)

	voided, err := svc.VoidDocument(context.Background(), documentdomain.TransitionRequest{
		CompanyID: doc.CompanyID.String(),
		ID:        doc.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, documentdomain.StatusVoid, voided.Status)

	_, err = svc.UpsertLineItem(context.Background(), documentdomain.UpsertLineItemRequest{
		CompanyID:  doc.CompanyID.String(),
		DocumentID: doc.ID.String(),
		Line:       documentdomain.LineItemInput{Quantity: dec("1"), Cost: dec("1")},
	})
	assert.ErrorIs(t, err, documentdomain.ErrDocumentVoided)
}

func TestConvertQuote(t *testing.T) {
	svc, node := newTestService(t)
	companyID := node.Generate().String()

	quote, err := svc.Create(context.Background(), documentdomain.CreateRequest{
		CompanyID:    companyID,
		ClientID:     node.Generate().String(),
		DocType:      documentdomain.DocTypeQuote,
		CurrencyCode: "USD",
		LineItems: []documentdomain.LineItemInput{
			{Quantity: dec("4"), Cost: dec("25")},
		},
	})
	require.NoError(t, err)
	assert.Regexp(t, `^QTE-`, quote.Number)

	invoice, err := svc.ConvertQuote(context.Background(), documentdomain.TransitionRequest{
		CompanyID: companyID,
		ID:        quote.ID.String(),
	})
	require.NoError(t, err)

	assert.Equal(t, documentdomain.DocTypeInvoice, invoice.DocType)
	assert.Equal(t, documentdomain.StatusDraft, invoice.Status)
	assert.Regexp(t, `^INV-`, invoice.Number)
	assert.True(t, dec("100").Equal(invoice.Amount), "amount %s", invoice.Amount)
	require.Len(t, invoice.LineItems, 1)

	converted, err := svc.Get(context.Background(), documentdomain.GetRequest{
		CompanyID: companyID,
		ID:        quote.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, documentdomain.StatusConverted, converted.Status)

	_, err = svc.ConvertQuote(context.Background(), documentdomain.TransitionRequest{
		CompanyID: companyID,
		ID:        quote.ID.String(),
	})
	assert.ErrorIs(t, err, documentdomain.ErrAlreadyConverted)
}

func TestConvertQuote_RejectsInvoices(t *testing.T) {
	svc, node := newTestService(t)

	doc := createInvoice(t, svc, node, nil)

	_, err := svc.ConvertQuote(context.Background(), documentdomain.TransitionRequest{
		CompanyID: doc.CompanyID.String(),
		ID:        doc.ID.String(),
	})
	assert.ErrorIs(t, err, documentdomain.ErrNotAQuote)
}

func TestApplyPayment_StatusTransitions(t *testing.T) {
	svc, node := newTestService(t)

	doc := createInvoice(t, svc, node, []documentdomain.LineItemInput{
		{Quantity: dec("1"), Cost: dec("100")},
	})

	_, err := svc.MarkSent(context.Background(), documentdomain.TransitionRequest{
		CompanyID: doc.CompanyID.String(),
		ID:        doc.ID.String(),
	})
	require.NoError(t, err)

	partial, err := svc.ApplyPayment(context.Background(), documentdomain.ApplyPaymentRequest{
		CompanyID: doc.CompanyID.String(),
		ID:        doc.ID.String(),
		Delta:     dec("40"),
	})
	require.NoError(t, err)
	assert.Equal(t, documentdomain.StatusPartial, partial.Status)
	assert.True(t, dec("60").Equal(partial.Balance), "balance %s", partial.Balance)

	paid, err := svc.ApplyPayment(context.Background(), documentdomain.ApplyPaymentRequest{
		CompanyID: doc.CompanyID.String(),
		ID:        doc.ID.String(),
		Delta:     dec("60"),
	})
	require.NoError(t, err)
	assert.Equal(t, documentdomain.StatusPaid, paid.Status)
	assert.True(t, paid.Balance.IsZero(), "balance %s", paid.Balance)

	reverted, err := svc.ApplyPayment(context.Background(), documentdomain.ApplyPaymentRequest{
		CompanyID: doc.CompanyID.String(),
		ID:        doc.ID.String(),
		Delta:     dec("-100"),
	})
	require.NoError(t, err)
	assert.Equal(t, documentdomain.StatusSent, reverted.Status)
	assert.True(t, dec("100").Equal(reverted.Balance), "balance %s", reverted.Balance)
}

func TestGet_NotFound(t *testing.T) {
	svc, node := newTestService(t)

	_, err := svc.Get(context.Background(), documentdomain.GetRequest{
		CompanyID: node.Generate().String(),
		ID:        node.Generate().String(),
	})
	assert.ErrorIs(t, err, documentdomain.ErrDocumentNotFound)
}

func TestList_FiltersByDocType(t *testing.T) {
	svc, node := newTestService(t)
	companyID := node.Generate().String()

	for _, docType := range []documentdomain.DocType{
		documentdomain.DocTypeInvoice,
		documentdomain.DocTypeQuote,
	} {
		_, err := svc.Create(context.Background(), documentdomain.CreateRequest{
			CompanyID:    companyID,
			ClientID:     node.Generate().String(),
			DocType:      docType,
			CurrencyCode: "USD",
		})
		require.NoError(t, err)
	}

	resp, err := svc.List(context.Background(), documentdomain.ListRequest{
		CompanyID: companyID,
		DocType:   documentdomain.DocTypeQuote,
	})
	require.NoError(t, err)

	require.Len(t, resp.Documents, 1)
	assert.Equal(t, documentdomain.DocTypeQuote, resp.Documents[0].DocType)
	assert.False(t, resp.PageInfo.HasMore)
}
