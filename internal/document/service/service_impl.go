package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	clientdomain "github.com/tallybook/tallybook/internal/client/domain"
	companydomain "github.com/tallybook/tallybook/internal/company/domain"
	"github.com/tallybook/tallybook/internal/config"
	currencydomain "github.com/tallybook/tallybook/internal/currency/domain"
	"github.com/tallybook/tallybook/internal/docnumber"
	documentdomain "github.com/tallybook/tallybook/internal/document/domain"
	"github.com/tallybook/tallybook/internal/document/totals"
	"github.com/tallybook/tallybook/internal/observability/metrics"
	"github.com/tallybook/tallybook/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      documentdomain.Repository
	Currency  currencydomain.Resolver
	Defaults  *config.DefaultsHolder
	Clients   clientdomain.Repository  `optional:"true"`
	Companies companydomain.Repository `optional:"true"`
	Metrics   *metrics.Metrics         `optional:"true"`
}

type service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      documentdomain.Repository
	currency  currencydomain.Resolver
	defaults  *config.DefaultsHolder
	clients   clientdomain.Repository
	companies companydomain.Repository
	metrics   *metrics.Metrics
}

func NewService(p ServiceParam) documentdomain.Service {
	return &service{
		db:        p.DB,
		log:       p.Log.Named("document.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		currency:  p.Currency,
		defaults:  p.Defaults,
		clients:   p.Clients,
		companies: p.Companies,
		metrics:   p.Metrics,
	}
}

func (s *service) Create(ctx context.Context, req documentdomain.CreateRequest) (*documentdomain.Document, error) {
	if !req.DocType.Valid() {
		return nil, documentdomain.ErrInvalidDocType
	}
	companyID, err := parseID(req.CompanyID)
	if err != nil {
		return nil, err
	}
	clientID, err := parseID(req.ClientID)
	if err != nil {
		return nil, documentdomain.ErrInvalidClient
	}
	if req.DocType == documentdomain.DocTypeRecurringInvoice && req.FrequencyDays <= 0 {
		return nil, documentdomain.ErrInvalidFrequency
	}

	defaults := s.defaults.Get()
	currencyCode := strings.ToUpper(strings.TrimSpace(req.CurrencyCode))
	if currencyCode == "" {
		currencyCode = s.fallbackCurrency(ctx, companyID, clientID, defaults)
	}

	now := time.Now().UTC()
	doc := &documentdomain.Document{
		ID:        s.genID.Generate(),
		CompanyID: companyID,
		ClientID:  clientID,
		DocType:   req.DocType,
		Status:    documentdomain.StatusDraft,

		CurrencyCode: currencyCode,
		Date:         req.Date,
		DueDate:      req.DueDate,

		Discount:         req.Discount,
		IsAmountDiscount: req.IsAmountDiscount,

		TaxName1: req.TaxName1,
		TaxRate1: req.TaxRate1,
		TaxName2: req.TaxName2,
		TaxRate2: req.TaxRate2,
		TaxName3: req.TaxName3,
		TaxRate3: req.TaxRate3,

		UsesInclusiveTaxes: req.UsesInclusiveTaxes,

		CustomSurcharge1:    req.CustomSurcharge1,
		CustomSurcharge2:    req.CustomSurcharge2,
		CustomSurcharge3:    req.CustomSurcharge3,
		CustomSurcharge4:    req.CustomSurcharge4,
		CustomSurchargeTax1: req.CustomSurchargeTax1,
		CustomSurchargeTax2: req.CustomSurchargeTax2,
		CustomSurchargeTax3: req.CustomSurchargeTax3,
		CustomSurchargeTax4: req.CustomSurchargeTax4,

		FrequencyDays: req.FrequencyDays,
		NextSendAt:    req.NextSendAt,

		Notes: req.Notes,
		Terms: req.Terms,

		CreatedAt: now,
		UpdatedAt: now,
	}
	doc.RemainingCycles = -1
	if req.RemainingCycles != nil {
		doc.RemainingCycles = *req.RemainingCycles
	}
	if doc.Date == nil {
		doc.Date = &now
	}
	if doc.DueDate == nil && defaults.PaymentTermDays > 0 && req.DocType == documentdomain.DocTypeInvoice {
		due := now.AddDate(0, 0, defaults.PaymentTermDays)
		doc.DueDate = &due
	}

	for i, input := range req.LineItems {
		line := lineFromInput(input, doc.ID, s.genID, now)
		if line.SortOrder == 0 {
			line.SortOrder = i
		}
		doc.LineItems = append(doc.LineItems, *line)
	}

	cur, err := s.currency.Resolve(ctx, doc.CurrencyCode)
	if err != nil {
		return nil, err
	}

	var created *documentdomain.Document
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTrx(tx)

		seq, err := repo.NextSequence(ctx, companyID, req.DocType)
		if err != nil {
			return err
		}
		number, err := docnumber.Format(s.numberTemplate(req.DocType), now, seq)
		if err != nil {
			return err
		}
		doc.Number = number

		computed := totals.Compute(doc, cur)
		if err := repo.Create(ctx, computed); err != nil {
			return err
		}
		if err := repo.ReplaceDerived(ctx, computed); err != nil {
			return err
		}
		created = computed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordDocumentComputed(ctx, string(doc.DocType))
	s.log.Info("document created",
		zap.String("document_id", created.ID.String()),
		zap.String("doc_type", string(created.DocType)),
		zap.String("number", created.Number),
	)
	return created, nil
}

func (s *service) Get(ctx context.Context, req documentdomain.GetRequest) (*documentdomain.Document, error) {
	companyID, id, err := parseIDs(req.CompanyID, req.ID)
	if err != nil {
		return nil, err
	}
	doc, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, documentdomain.ErrDocumentNotFound
	}
	return doc, nil
}

func (s *service) List(ctx context.Context, req documentdomain.ListRequest) (*documentdomain.ListResponse, error) {
	companyID, err := parseID(req.CompanyID)
	if err != nil {
		return nil, err
	}
	filter := documentdomain.ListFilter{
		DocType: req.DocType,
		Status:  req.Status,
		SortBy:  req.SortBy,
		OrderBy: req.OrderBy,
	}
	if req.ClientID != "" {
		clientID, err := parseID(req.ClientID)
		if err != nil {
			return nil, documentdomain.ErrInvalidClient
		}
		filter.ClientID = clientID
	}

	docs, err := s.repo.List(ctx, companyID, filter, req.Pagination)
	if err != nil {
		return nil, err
	}

	size := req.Pagination.PageSize
	if size <= 0 {
		size = 10
	}
	docs, pageInfo := pagination.BuildCursorPageInfo(docs, size, func(d documentdomain.Document) pagination.Cursor {
		return pagination.Cursor{
			ID:        d.ID.String(),
			CreatedAt: d.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
	})

	return &documentdomain.ListResponse{Documents: docs, PageInfo: pageInfo}, nil
}

func (s *service) Update(ctx context.Context, req documentdomain.UpdateRequest) (*documentdomain.Document, error) {
	companyID, id, err := parseIDs(req.CompanyID, req.ID)
	if err != nil {
		return nil, err
	}

	var updated *documentdomain.Document
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTrx(tx)

		doc, err := repo.FindByID(ctx, companyID, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return documentdomain.ErrDocumentNotFound
		}
		if doc.Status == documentdomain.StatusVoid {
			return documentdomain.ErrDocumentVoided
		}

		if err := applyUpdate(doc, req); err != nil {
			return err
		}
		doc.UpdatedAt = time.Now().UTC()

		cur, err := s.currency.Resolve(ctx, doc.CurrencyCode)
		if err != nil {
			return err
		}
		computed := totals.Compute(doc, cur)

		if err := repo.Update(ctx, computed); err != nil {
			return err
		}
		if err := repo.ReplaceDerived(ctx, computed); err != nil {
			return err
		}
		updated = computed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordDocumentComputed(ctx, string(updated.DocType))
	return updated, nil
}

func (s *service) UpsertLineItem(ctx context.Context, req documentdomain.UpsertLineItemRequest) (*documentdomain.Document, error) {
	companyID, docID, err := parseIDs(req.CompanyID, req.DocumentID)
	if err != nil {
		return nil, err
	}

	var updated *documentdomain.Document
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTrx(tx)

		doc, err := repo.FindByID(ctx, companyID, docID)
		if err != nil {
			return err
		}
		if doc == nil {
			return documentdomain.ErrDocumentNotFound
		}
		if doc.Status == documentdomain.StatusVoid {
			return documentdomain.ErrDocumentVoided
		}

		now := time.Now().UTC()
		line := lineFromInput(req.Line, docID, s.genID, now)
		if req.Line.ID != "" {
			lineID, err := parseID(req.Line.ID)
			if err != nil {
				return documentdomain.ErrLineItemNotFound
			}
			existing := findLine(doc.LineItems, lineID)
			if existing == nil {
				return documentdomain.ErrLineItemNotFound
			}
			line.ID = lineID
			line.CreatedAt = existing.CreatedAt
		}
		if err := repo.UpsertLineItem(ctx, line); err != nil {
			return err
		}

		return s.recomputeLocked(ctx, repo, companyID, docID, &updated)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordDocumentComputed(ctx, string(updated.DocType))
	return updated, nil
}

func (s *service) DeleteLineItem(ctx context.Context, req documentdomain.DeleteLineItemRequest) (*documentdomain.Document, error) {
	companyID, docID, err := parseIDs(req.CompanyID, req.DocumentID)
	if err != nil {
		return nil, err
	}
	lineID, err := parseID(req.LineID)
	if err != nil {
		return nil, documentdomain.ErrLineItemNotFound
	}

	var updated *documentdomain.Document
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTrx(tx)

		doc, err := repo.FindByID(ctx, companyID, docID)
		if err != nil {
			return err
		}
		if doc == nil {
			return documentdomain.ErrDocumentNotFound
		}
		if doc.Status == documentdomain.StatusVoid {
			return documentdomain.ErrDocumentVoided
		}

		if err := repo.DeleteLineItem(ctx, docID, lineID); err != nil {
			return err
		}

		return s.recomputeLocked(ctx, repo, companyID, docID, &updated)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordDocumentComputed(ctx, string(updated.DocType))
	return updated, nil
}

func (s *service) MarkSent(ctx context.Context, req documentdomain.TransitionRequest) (*documentdomain.Document, error) {
	return s.transition(ctx, req, func(doc *documentdomain.Document) error {
		if doc.Status != documentdomain.StatusDraft {
			return documentdomain.ErrInvalidStatus
		}
		if doc.DocType == documentdomain.DocTypeRecurringInvoice {
			if doc.FrequencyDays <= 0 {
				return documentdomain.ErrInvalidFrequency
			}
			doc.Status = documentdomain.StatusActive
			if doc.NextSendAt == nil {
				next := time.Now().UTC()
				doc.NextSendAt = &next
			}
			return nil
		}
		doc.Status = documentdomain.StatusSent
		return nil
	})
}

func (s *service) VoidDocument(ctx context.Context, req documentdomain.TransitionRequest) (*documentdomain.Document, error) {
	return s.transition(ctx, req, func(doc *documentdomain.Document) error {
		switch doc.Status {
		case documentdomain.StatusVoid:
			return documentdomain.ErrDocumentVoided
		case documentdomain.StatusPaid:
			return documentdomain.ErrInvalidStatus
		}
		doc.Status = documentdomain.StatusVoid
		return nil
	})
}

func (s *service) ConvertQuote(ctx context.Context, req documentdomain.TransitionRequest) (*documentdomain.Document, error) {
	companyID, id, err := parseIDs(req.CompanyID, req.ID)
	if err != nil {
		return nil, err
	}

	var invoice *documentdomain.Document
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTrx(tx)

		quote, err := repo.FindByID(ctx, companyID, id)
		if err != nil {
			return err
		}
		if quote == nil {
			return documentdomain.ErrDocumentNotFound
		}
		if quote.DocType != documentdomain.DocTypeQuote {
			return documentdomain.ErrNotAQuote
		}
		if quote.Status == documentdomain.StatusConverted {
			return documentdomain.ErrAlreadyConverted
		}
		if quote.Status == documentdomain.StatusVoid {
			return documentdomain.ErrDocumentVoided
		}

		now := time.Now().UTC()
		draft := cloneAsInvoice(quote, s.genID, now)

		seq, err := repo.NextSequence(ctx, companyID, documentdomain.DocTypeInvoice)
		if err != nil {
			return err
		}
		number, err := docnumber.Format(s.numberTemplate(documentdomain.DocTypeInvoice), now, seq)
		if err != nil {
			return err
		}
		draft.Number = number

		cur, err := s.currency.Resolve(ctx, draft.CurrencyCode)
		if err != nil {
			return err
		}
		computed := totals.Compute(draft, cur)
		if err := repo.Create(ctx, computed); err != nil {
			return err
		}
		if err := repo.ReplaceDerived(ctx, computed); err != nil {
			return err
		}

		quote.Status = documentdomain.StatusConverted
		quote.UpdatedAt = now
		if err := repo.Update(ctx, quote); err != nil {
			return err
		}

		invoice = computed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("quote converted",
		zap.String("quote_id", req.ID),
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.Number),
	)
	return invoice, nil
}

func (s *service) Recompute(ctx context.Context, req documentdomain.GetRequest) (*documentdomain.Document, error) {
	companyID, id, err := parseIDs(req.CompanyID, req.ID)
	if err != nil {
		return nil, err
	}

	var updated *documentdomain.Document
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTrx(tx)
		return s.recomputeLocked(ctx, repo, companyID, id, &updated)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordDocumentComputed(ctx, string(updated.DocType))
	return updated, nil
}

func (s *service) ApplyPayment(ctx context.Context, req documentdomain.ApplyPaymentRequest) (*documentdomain.Document, error) {
	companyID, id, err := parseIDs(req.CompanyID, req.ID)
	if err != nil {
		return nil, err
	}

	var updated *documentdomain.Document
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTrx(tx)

		doc, err := repo.FindByID(ctx, companyID, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return documentdomain.ErrDocumentNotFound
		}
		if doc.Status == documentdomain.StatusVoid {
			return documentdomain.ErrDocumentVoided
		}

		doc.PaidToDate = doc.PaidToDate.Add(req.Delta)
		doc.UpdatedAt = time.Now().UTC()

		cur, err := s.currency.Resolve(ctx, doc.CurrencyCode)
		if err != nil {
			return err
		}
		computed := totals.Compute(doc, cur)
		computed.Status = paymentStatus(computed)

		if err := repo.Update(ctx, computed); err != nil {
			return err
		}
		if err := repo.ReplaceDerived(ctx, computed); err != nil {
			return err
		}
		updated = computed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordDocumentComputed(ctx, string(updated.DocType))
	return updated, nil
}

// recomputeLocked reloads the document inside the caller's transaction,
// re-derives totals, and persists the derived columns.
func (s *service) recomputeLocked(ctx context.Context, repo documentdomain.Repository, companyID, id snowflake.ID, out **documentdomain.Document) error {
	doc, err := repo.FindByID(ctx, companyID, id)
	if err != nil {
		return err
	}
	if doc == nil {
		return documentdomain.ErrDocumentNotFound
	}

	cur, err := s.currency.Resolve(ctx, doc.CurrencyCode)
	if err != nil {
		return err
	}
	computed := totals.Compute(doc, cur)
	if err := repo.ReplaceDerived(ctx, computed); err != nil {
		return err
	}
	*out = computed
	return nil
}

func (s *service) transition(ctx context.Context, req documentdomain.TransitionRequest, mutate func(*documentdomain.Document) error) (*documentdomain.Document, error) {
	companyID, id, err := parseIDs(req.CompanyID, req.ID)
	if err != nil {
		return nil, err
	}

	var updated *documentdomain.Document
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTrx(tx)

		doc, err := repo.FindByID(ctx, companyID, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return documentdomain.ErrDocumentNotFound
		}
		if err := mutate(doc); err != nil {
			return err
		}
		doc.UpdatedAt = time.Now().UTC()
		if err := repo.Update(ctx, doc); err != nil {
			return err
		}
		updated = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// fallbackCurrency walks client override, then company default, then the
// configured default.
func (s *service) fallbackCurrency(ctx context.Context, companyID, clientID snowflake.ID, defaults config.Defaults) string {
	if s.clients != nil {
		if client, err := s.clients.FindByID(ctx, companyID, clientID); err == nil && client != nil && client.CurrencyCode != "" {
			return client.CurrencyCode
		}
	}
	if s.companies != nil {
		if company, err := s.companies.FindByID(ctx, companyID); err == nil && company != nil && company.CurrencyCode != "" {
			return company.CurrencyCode
		}
	}
	return defaults.CurrencyCode
}

func (s *service) numberTemplate(docType documentdomain.DocType) string {
	defaults := s.defaults.Get()
	var template string
	switch docType {
	case documentdomain.DocTypeQuote:
		template = defaults.QuoteNumberTemplate
		if template == "" {
			template = docnumber.DefaultQuoteTemplate
		}
	case documentdomain.DocTypeCredit:
		template = defaults.CreditNumberTemplate
		if template == "" {
			template = docnumber.DefaultCreditTemplate
		}
	case documentdomain.DocTypeRecurringInvoice:
		template = docnumber.DefaultRecurringTemplate
	default:
		template = defaults.InvoiceNumberTemplate
		if template == "" {
			template = docnumber.DefaultInvoiceTemplate
		}
	}
	return template
}

// paymentStatus derives the post-payment lifecycle state from the balance.
func paymentStatus(doc *documentdomain.Document) documentdomain.Status {
	switch {
	case doc.Balance.Sign() <= 0 && doc.Amount.Sign() > 0:
		return documentdomain.StatusPaid
	case doc.PaidToDate.Sign() > 0 && doc.Balance.Sign() > 0:
		return documentdomain.StatusPartial
	case doc.Status == documentdomain.StatusPaid || doc.Status == documentdomain.StatusPartial:
		// All payments removed again.
		return documentdomain.StatusSent
	default:
		return doc.Status
	}
}

// applyUpdate copies the set fields of req onto doc. Nil pointers keep
// the stored value.
func applyUpdate(doc *documentdomain.Document, req documentdomain.UpdateRequest) error {
	if req.ClientID != nil {
		clientID, err := snowflake.ParseString(strings.TrimSpace(*req.ClientID))
		if err != nil {
			return documentdomain.ErrInvalidClient
		}
		doc.ClientID = clientID
	}
	if req.CurrencyCode != nil {
		doc.CurrencyCode = strings.ToUpper(strings.TrimSpace(*req.CurrencyCode))
	}
	if req.Date != nil {
		doc.Date = req.Date
	}
	if req.DueDate != nil {
		doc.DueDate = req.DueDate
	}

	if req.Discount != nil {
		doc.Discount = *req.Discount
	}
	if req.IsAmountDiscount != nil {
		doc.IsAmountDiscount = *req.IsAmountDiscount
	}

	if req.TaxName1 != nil {
		doc.TaxName1 = *req.TaxName1
	}
	if req.TaxRate1 != nil {
		doc.TaxRate1 = *req.TaxRate1
	}
	if req.TaxName2 != nil {
		doc.TaxName2 = *req.TaxName2
	}
	if req.TaxRate2 != nil {
		doc.TaxRate2 = *req.TaxRate2
	}
	if req.TaxName3 != nil {
		doc.TaxName3 = *req.TaxName3
	}
	if req.TaxRate3 != nil {
		doc.TaxRate3 = *req.TaxRate3
	}

	if req.UsesInclusiveTaxes != nil {
		doc.UsesInclusiveTaxes = *req.UsesInclusiveTaxes
	}

	if req.CustomSurcharge1 != nil {
		doc.CustomSurcharge1 = *req.CustomSurcharge1
	}
	if req.CustomSurcharge2 != nil {
		doc.CustomSurcharge2 = *req.CustomSurcharge2
	}
	if req.CustomSurcharge3 != nil {
		doc.CustomSurcharge3 = *req.CustomSurcharge3
	}
	if req.CustomSurcharge4 != nil {
		doc.CustomSurcharge4 = *req.CustomSurcharge4
	}
	if req.CustomSurchargeTax1 != nil {
		doc.CustomSurchargeTax1 = *req.CustomSurchargeTax1
	}
	if req.CustomSurchargeTax2 != nil {
		doc.CustomSurchargeTax2 = *req.CustomSurchargeTax2
	}
	if req.CustomSurchargeTax3 != nil {
		doc.CustomSurchargeTax3 = *req.CustomSurchargeTax3
	}
	if req.CustomSurchargeTax4 != nil {
		doc.CustomSurchargeTax4 = *req.CustomSurchargeTax4
	}

	if req.FrequencyDays != nil {
		if doc.DocType == documentdomain.DocTypeRecurringInvoice && *req.FrequencyDays <= 0 {
			return documentdomain.ErrInvalidFrequency
		}
		doc.FrequencyDays = *req.FrequencyDays
	}
	if req.RemainingCycles != nil {
		doc.RemainingCycles = *req.RemainingCycles
	}
	if req.NextSendAt != nil {
		doc.NextSendAt = req.NextSendAt
	}

	if req.Notes != nil {
		doc.Notes = *req.Notes
	}
	if req.Terms != nil {
		doc.Terms = *req.Terms
	}
	return nil
}

func lineFromInput(input documentdomain.LineItemInput, documentID snowflake.ID, genID *snowflake.Node, now time.Time) *documentdomain.LineItem {
	return &documentdomain.LineItem{
		ID:         genID.Generate(),
		DocumentID: documentID,
		SortOrder:  input.SortOrder,
		ProductKey: input.ProductKey,
		Notes:      input.Notes,
		Quantity:   input.Quantity,
		Cost:       input.Cost,

		Discount:         input.Discount,
		IsAmountDiscount: input.IsAmountDiscount,

		TaxName1: input.TaxName1,
		TaxRate1: input.TaxRate1,
		TaxName2: input.TaxName2,
		TaxRate2: input.TaxRate2,
		TaxName3: input.TaxName3,
		TaxRate3: input.TaxRate3,

		CreatedAt: now,
		UpdatedAt: now,
	}
}

func cloneAsInvoice(quote *documentdomain.Document, genID *snowflake.Node, now time.Time) *documentdomain.Document {
	draft := *quote
	draft.ID = genID.Generate()
	draft.DocType = documentdomain.DocTypeInvoice
	draft.Status = documentdomain.StatusDraft
	draft.Number = ""
	draft.PaidToDate = decimal.Zero
	draft.CreatedAt = now
	draft.UpdatedAt = now
	draft.Date = &now
	draft.TaxLines = nil

	draft.LineItems = make([]documentdomain.LineItem, len(quote.LineItems))
	for i, line := range quote.LineItems {
		copied := line
		copied.ID = genID.Generate()
		copied.DocumentID = draft.ID
		copied.CreatedAt = now
		copied.UpdatedAt = now
		draft.LineItems[i] = copied
	}
	return &draft
}

func findLine(lines []documentdomain.LineItem, id snowflake.ID) *documentdomain.LineItem {
	for i := range lines {
		if lines[i].ID == id {
			return &lines[i]
		}
	}
	return nil
}

func parseID(raw string) (snowflake.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, documentdomain.ErrMissingDocumentID
	}
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, documentdomain.ErrMissingDocumentID
	}
	return id, nil
}

func parseIDs(companyRaw, idRaw string) (snowflake.ID, snowflake.ID, error) {
	companyID, err := parseID(companyRaw)
	if err != nil {
		return 0, 0, err
	}
	id, err := parseID(idRaw)
	if err != nil {
		return 0, 0, err
	}
	return companyID, id, nil
}
