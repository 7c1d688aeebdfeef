// Package server exposes the HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tallybook/tallybook/internal/client"
	clientdomain "github.com/tallybook/tallybook/internal/client/domain"
	"github.com/tallybook/tallybook/internal/company"
	companydomain "github.com/tallybook/tallybook/internal/company/domain"
	"github.com/tallybook/tallybook/internal/config"
	"github.com/tallybook/tallybook/internal/currency"
	currencydomain "github.com/tallybook/tallybook/internal/currency/domain"
	"github.com/tallybook/tallybook/internal/document"
	documentdomain "github.com/tallybook/tallybook/internal/document/domain"
	"github.com/tallybook/tallybook/internal/observability"
	obsmiddleware "github.com/tallybook/tallybook/internal/observability/logger"
	obstracing "github.com/tallybook/tallybook/internal/observability/tracing"
	"github.com/tallybook/tallybook/internal/payment"
	paymentdomain "github.com/tallybook/tallybook/internal/payment/domain"
	"github.com/tallybook/tallybook/internal/render"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	currency.Module,
	company.Module,
	client.Module,
	document.Module,
	payment.Module,
	render.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config) *gin.Engine {
	return NewEngine(obsCfg)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	companySvc  companydomain.Service
	clientSvc   clientdomain.Service
	documentSvc documentdomain.Service
	paymentSvc  paymentdomain.Service
	currencySvc currencydomain.Service
	renderSvc   render.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	CompanySvc  companydomain.Service
	ClientSvc   clientdomain.Service
	DocumentSvc documentdomain.Service
	PaymentSvc  paymentdomain.Service
	CurrencySvc currencydomain.Service
	RenderSvc   render.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		companySvc:  p.CompanySvc,
		clientSvc:   p.ClientSvc,
		documentSvc: p.DocumentSvc,
		paymentSvc:  p.PaymentSvc,
		currencySvc: p.CurrencySvc,
		renderSvc:   p.RenderSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.GET("/currencies", s.ListCurrencies)
	api.GET("/currencies/:code", s.GetCurrency)

	// -------- Companies --------
	api.GET("/companies", s.ListCompanies)
	api.POST("/companies", s.CreateCompany)
	api.GET("/companies/:id", s.GetCompanyByID)
	api.PATCH("/companies/:id", s.UpdateCompany)

	// -------- Clients --------
	api.GET("/clients", s.ListClients)
	api.POST("/clients", s.CreateClient)
	api.GET("/clients/:id", s.GetClientByID)
	api.PATCH("/clients/:id", s.UpdateClient)
	api.POST("/clients/:id/archive", s.ArchiveClient)

	// -------- Documents --------
	// Invoices, quotes, credits, and recurring invoices share one
	// resource; doc_type discriminates.
	api.GET("/documents", s.ListDocuments)
	api.POST("/documents", s.CreateDocument)
	api.GET("/documents/:id", s.GetDocumentByID)
	api.PATCH("/documents/:id", s.UpdateDocument)
	api.PUT("/documents/:id/lines", s.UpsertDocumentLine)
	api.DELETE("/documents/:id/lines/:lineId", s.DeleteDocumentLine)
	api.POST("/documents/:id/mark-sent", s.MarkDocumentSent)
	api.POST("/documents/:id/void", s.VoidDocument)
	api.POST("/documents/:id/convert", s.ConvertQuote)
	api.POST("/documents/:id/recompute", s.RecomputeDocument)
	api.GET("/documents/:id/render", s.RenderDocument)
	api.GET("/documents/:id/payments", s.ListDocumentPayments)

	// -------- Payments --------
	api.POST("/payments", s.RecordPayment)
	api.DELETE("/payments/:id", s.DeletePayment)
}
