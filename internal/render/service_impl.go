// Package render assembles display-ready document views and produces PDFs.
package render

import (
	"context"
	"io"
	"strings"

	clientdomain "github.com/tallybook/tallybook/internal/client/domain"
	companydomain "github.com/tallybook/tallybook/internal/company/domain"
	currencydomain "github.com/tallybook/tallybook/internal/currency/domain"
	currencyservice "github.com/tallybook/tallybook/internal/currency/service"
	documentdomain "github.com/tallybook/tallybook/internal/document/domain"
	"github.com/tallybook/tallybook/internal/observability/metrics"
	"github.com/tallybook/tallybook/internal/render/pdf"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service interface {
	RenderDocument(ctx context.Context, companyID, documentID string) (io.Reader, error)
}

type ServiceParam struct {
	fx.In

	Log       *zap.Logger
	Documents documentdomain.Service
	Companies companydomain.Repository
	Clients   clientdomain.Repository
	Currency  currencydomain.Resolver
	Renderer  pdf.Renderer
	Metrics   *metrics.Metrics `optional:"true"`
}

type service struct {
	log       *zap.Logger
	documents documentdomain.Service
	companies companydomain.Repository
	clients   clientdomain.Repository
	currency  currencydomain.Resolver
	renderer  pdf.Renderer
	metrics   *metrics.Metrics
}

func NewService(p ServiceParam) Service {
	return &service{
		log:       p.Log.Named("render.service"),
		documents: p.Documents,
		companies: p.Companies,
		clients:   p.Clients,
		currency:  p.Currency,
		renderer:  p.Renderer,
		metrics:   p.Metrics,
	}
}

func (s *service) RenderDocument(ctx context.Context, companyID, documentID string) (io.Reader, error) {
	doc, err := s.documents.Get(ctx, documentdomain.GetRequest{
		CompanyID: companyID,
		ID:        documentID,
	})
	if err != nil {
		return nil, err
	}

	cur, err := s.currency.Resolve(ctx, doc.CurrencyCode)
	if err != nil {
		return nil, err
	}

	data := pdf.DocumentData{
		Title:  title(doc.DocType),
		Number: doc.Number,

		Subtotal:  currencyservice.FormatAmount(cur, doc.Subtotal),
		Total:     currencyservice.FormatAmount(cur, doc.Amount),
		Paid:      currencyservice.FormatAmount(cur, doc.PaidToDate),
		AmountDue: currencyservice.FormatAmount(cur, doc.Balance),

		Notes: doc.Notes,
		Terms: doc.Terms,
	}
	if doc.Date != nil {
		data.IssueDate = doc.Date.Format("2006-01-02")
	}
	if doc.DueDate != nil {
		data.DueDate = doc.DueDate.Format("2006-01-02")
	}

	if company, err := s.companies.FindByID(ctx, doc.CompanyID); err == nil && company != nil {
		data.CompanyName = company.Name
		data.CompanyAddress = address(company.AddressLine1, company.AddressLine2, company.City, company.State, company.PostalCode, company.CountryCode)
		data.CompanyEmail = company.Email
	}
	if client, err := s.clients.FindByID(ctx, doc.CompanyID, doc.ClientID); err == nil && client != nil {
		data.BillToName = client.Name
		data.BillToAddress = address(client.AddressLine1, client.AddressLine2, client.City, client.State, client.PostalCode, client.CountryCode)
		data.BillToEmail = client.Email
	}

	for _, line := range doc.LineItems {
		description := line.ProductKey
		if line.Notes != "" {
			if description != "" {
				description += " - "
			}
			description += line.Notes
		}
		data.Lines = append(data.Lines, pdf.LineData{
			Description: description,
			Quantity:    line.Quantity.String(),
			UnitPrice:   currencyservice.FormatAmount(cur, line.Cost),
			Amount:      currencyservice.FormatAmount(cur, line.LineTotal),
		})
	}

	for _, tax := range doc.TaxLines {
		data.Taxes = append(data.Taxes, pdf.TaxRowData{
			Label:  tax.Name + " " + tax.Rate.String() + "%",
			Amount: currencyservice.FormatAmount(cur, tax.Amount),
		})
	}

	reader, err := s.renderer.RenderDocument(ctx, data)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordDocumentRendered(ctx, string(doc.DocType))
	s.log.Debug("document rendered",
		zap.String("document_id", documentID),
		zap.String("doc_type", string(doc.DocType)),
	)
	return reader, nil
}

func title(docType documentdomain.DocType) string {
	switch docType {
	case documentdomain.DocTypeQuote:
		return "Quote"
	case documentdomain.DocTypeCredit:
		return "Credit Note"
	case documentdomain.DocTypeRecurringInvoice:
		return "Recurring Invoice"
	default:
		return "Invoice"
	}
}

func address(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
