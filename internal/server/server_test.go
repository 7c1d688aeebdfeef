package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clientdomain "github.com/tallybook/tallybook/internal/client/domain"
	clientrepo "github.com/tallybook/tallybook/internal/client/repository"
	clientservice "github.com/tallybook/tallybook/internal/client/service"
	companydomain "github.com/tallybook/tallybook/internal/company/domain"
	companyrepo "github.com/tallybook/tallybook/internal/company/repository"
	companyservice "github.com/tallybook/tallybook/internal/company/service"
	"github.com/tallybook/tallybook/internal/config"
	currencydomain "github.com/tallybook/tallybook/internal/currency/domain"
	documentdomain "github.com/tallybook/tallybook/internal/document/domain"
	documentrepo "github.com/tallybook/tallybook/internal/document/repository"
	documentservice "github.com/tallybook/tallybook/internal/document/service"
	"github.com/tallybook/tallybook/internal/observability"
	paymentdomain "github.com/tallybook/tallybook/internal/payment/domain"
	paymentrepo "github.com/tallybook/tallybook/internal/payment/repository"
	paymentservice "github.com/tallybook/tallybook/internal/payment/service"
	"github.com/tallybook/tallybook/internal/render"
	"github.com/tallybook/tallybook/internal/render/pdf"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubRenderer struct{}

func (stubRenderer) RenderDocument(_ context.Context, _ pdf.DocumentData) (io.Reader, error) {
	return strings.NewReader("%PDF-1.4 stub"), nil
}

type staticCurrencySvc struct{}

func (staticCurrencySvc) Resolve(_ context.Context, code string) (*currencydomain.Currency, error) {
	return &currencydomain.Currency{Code: strings.ToUpper(code), Precision: 2}, nil
}

func (staticCurrencySvc) Get(_ context.Context, code string) (*currencydomain.Currency, error) {
	return &currencydomain.Currency{Code: strings.ToUpper(code), Precision: 2}, nil
}

func (staticCurrencySvc) List(_ context.Context) ([]currencydomain.Currency, error) {
	return []currencydomain.Currency{{Code: "USD", Precision: 2}}, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&companydomain.Company{},
		&clientdomain.Client{},
		&documentdomain.Document{},
		&documentdomain.LineItem{},
		&documentdomain.TaxLine{},
		&paymentdomain.Payment{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	currencies := staticCurrencySvc{}

	companyRepo := companyrepo.NewRepository(db)
	companySvc := companyservice.NewService(companyservice.ServiceParam{
		Log: log, GenID: node, Repo: companyRepo,
	})
	clientRepo := clientrepo.NewRepository(db)
	clientSvc := clientservice.NewService(clientservice.ServiceParam{
		Log: log, GenID: node, Repo: clientRepo,
	})
	documentRepo := documentrepo.NewRepository(db)
	documentSvc := documentservice.NewService(documentservice.ServiceParam{
		DB:        db,
		Log:       log,
		GenID:     node,
		Repo:      documentRepo,
		Currency:  currencies,
		Defaults:  config.NewStaticDefaultsHolder(config.DefaultDefaults()),
		Clients:   clientRepo,
		Companies: companyRepo,
	})
	paymentSvc := paymentservice.NewService(paymentservice.ServiceParam{
		DB: db, Log: log, GenID: node,
		Repo:      paymentrepo.NewRepository(db),
		Documents: documentSvc,
	})
	renderSvc := render.NewService(render.ServiceParam{
		Log:       log,
		Documents: documentSvc,
		Companies: companyRepo,
		Clients:   clientRepo,
		Currency:  currencies,
		Renderer:  stubRenderer{},
	})

	return NewServer(ServerParams{
		Gin:         NewEngine(observability.Config{}),
		Cfg:         config.Config{},
		CompanySvc:  companySvc,
		ClientSvc:   clientSvc,
		DocumentSvc: documentSvc,
		PaymentSvc:  paymentSvc,
		CurrencySvc: currencies,
		RenderSvc:   renderSvc,
	})
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func createCompanyAndClient(t *testing.T, srv *Server) (string, string) {
	t.Helper()

	rec := doJSON(t, srv, http.MethodPost, "/api/companies", gin.H{"name": "Acme Studio"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	companyID := decodeBody(t, rec)["id"].(string)

	rec = doJSON(t, srv, http.MethodPost, "/api/clients", gin.H{
		"company_id": companyID,
		"name":       "Globex",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	clientID := decodeBody(t, rec)["id"].(string)

	return companyID, clientID
}

func TestCreateInvoiceEndToEnd(t *testing.T) {
	srv := newTestServer(t)
	companyID, clientID := createCompanyAndClient(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/documents", gin.H{
		"company_id":    companyID,
		"client_id":     clientID,
		"doc_type":      "invoice",
		"currency_code": "USD",
		"tax_name1":     "VAT",
		"tax_rate1":     "10",
		"line_items": []gin.H{
			{"quantity": "2", "cost": "50"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, "draft", body["status"])
	assert.Equal(t, "110", body["amount"])
	assert.Regexp(t, `^INV-\d{6}-\d{6}$`, body["number"])

	docID := body["id"].(string)
	rec = doJSON(t, srv, http.MethodGet, "/api/documents/"+docID+"?company_id="+companyID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "110", decodeBody(t, rec)["balance"])
}

func TestDocumentNotFoundReturns404(t *testing.T) {
	srv := newTestServer(t)
	companyID, _ := createCompanyAndClient(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/api/documents/123456789?company_id="+companyID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeBody(t, rec)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "not_found", errBody["type"])
}

func TestInvalidDocTypeReturns400(t *testing.T) {
	srv := newTestServer(t)
	companyID, clientID := createCompanyAndClient(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/documents", gin.H{
		"company_id": companyID,
		"client_id":  clientID,
		"doc_type":   "purchase_order",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPaymentLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	companyID, clientID := createCompanyAndClient(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/documents", gin.H{
		"company_id": companyID,
		"client_id":  clientID,
		"doc_type":   "invoice",
		"line_items": []gin.H{{"quantity": "1", "cost": "100"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	docID := decodeBody(t, rec)["id"].(string)

	rec = doJSON(t, srv, http.MethodPost, "/api/documents/"+docID+"/mark-sent?company_id="+companyID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodPost, "/api/payments", gin.H{
		"company_id":  companyID,
		"document_id": docID,
		"amount":      "100",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodGet, "/api/documents/"+docID+"?company_id="+companyID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "paid", body["status"])
	assert.Equal(t, "0", body["balance"])

	rec = doJSON(t, srv, http.MethodGet, "/api/documents/"+docID+"/payments?company_id="+companyID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	payments := decodeBody(t, rec)["payments"].([]any)
	assert.Len(t, payments, 1)
}

func TestVoidedDocumentRejectsUpdates(t *testing.T) {
	srv := newTestServer(t)
	companyID, clientID := createCompanyAndClient(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/documents", gin.H{
		"company_id": companyID,
		"client_id":  clientID,
		"doc_type":   "invoice",
		"line_items": []gin.H{{"quantity": "1", "cost": "25"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	docID := decodeBody(t, rec)["id"].(string)

	rec = doJSON(t, srv, http.MethodPost, "/api/documents/"+docID+"/void?company_id="+companyID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodPatch, "/api/documents/"+docID, gin.H{
		"company_id": companyID,
		"notes":      "updated",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestRenderDocumentReturnsPDF(t *testing.T) {
	srv := newTestServer(t)
	companyID, clientID := createCompanyAndClient(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/documents", gin.H{
		"company_id": companyID,
		"client_id":  clientID,
		"doc_type":   "invoice",
		"line_items": []gin.H{{"quantity": "1", "cost": "25"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	docID := decodeBody(t, rec)["id"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/documents/"+docID+"/render?company_id="+companyID, nil)
	out := httptest.NewRecorder()
	srv.Engine().ServeHTTP(out, req)

	require.Equal(t, http.StatusOK, out.Code)
	assert.Equal(t, "application/pdf", out.Header().Get("Content-Type"))
	assert.NotEmpty(t, out.Body.Bytes())
}
