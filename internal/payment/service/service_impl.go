package service

import (
	"context"
	"crypto/rand"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	documentdomain "github.com/tallybook/tallybook/internal/document/domain"
	"github.com/tallybook/tallybook/internal/observability/metrics"
	paymentdomain "github.com/tallybook/tallybook/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      paymentdomain.Repository
	Documents documentdomain.Service
	Metrics   *metrics.Metrics `optional:"true"`
}

type service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      paymentdomain.Repository
	documents documentdomain.Service
	metrics   *metrics.Metrics
}

func NewService(p ServiceParam) paymentdomain.Service {
	return &service{
		db:        p.DB,
		log:       p.Log.Named("payment.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		documents: p.Documents,
		metrics:   p.Metrics,
	}
}

func (s *service) Record(ctx context.Context, req paymentdomain.RecordRequest) (*paymentdomain.Payment, error) {
	companyID, err := snowflake.ParseString(strings.TrimSpace(req.CompanyID))
	if err != nil {
		return nil, paymentdomain.ErrMissingDocument
	}
	documentID, err := snowflake.ParseString(strings.TrimSpace(req.DocumentID))
	if err != nil {
		return nil, paymentdomain.ErrMissingDocument
	}
	if req.Amount.IsZero() {
		return nil, paymentdomain.ErrZeroAmount
	}

	now := time.Now().UTC()
	paidAt := now
	if req.PaidAt != nil {
		paidAt = req.PaidAt.UTC()
	}

	doc, err := s.documents.ApplyPayment(ctx, documentdomain.ApplyPaymentRequest{
		CompanyID: req.CompanyID,
		ID:        req.DocumentID,
		Delta:     req.Amount,
	})
	if err != nil {
		return nil, err
	}

	payment := &paymentdomain.Payment{
		ID:         s.genID.Generate(),
		CompanyID:  companyID,
		ClientID:   doc.ClientID,
		DocumentID: documentID,

		Reference:    ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		Amount:       req.Amount,
		CurrencyCode: doc.CurrencyCode,

		Method: strings.TrimSpace(req.Method),
		Notes:  req.Notes,

		PaidAt:    paidAt,
		CreatedAt: now,
	}
	if err := payment.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, payment); err != nil {
		// Roll the paid_to_date change back; the payment row never landed.
		if _, revertErr := s.documents.ApplyPayment(ctx, documentdomain.ApplyPaymentRequest{
			CompanyID: req.CompanyID,
			ID:        req.DocumentID,
			Delta:     req.Amount.Neg(),
		}); revertErr != nil {
			s.log.Error("failed to revert paid_to_date after payment insert failure",
				zap.String("document_id", req.DocumentID),
				zap.Error(revertErr),
			)
		}
		return nil, err
	}

	s.metrics.RecordPaymentRecorded(ctx, payment.CurrencyCode)
	s.log.Info("payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("document_id", payment.DocumentID.String()),
		zap.String("reference", payment.Reference),
	)
	return payment, nil
}

func (s *service) Delete(ctx context.Context, req paymentdomain.DeleteRequest) error {
	companyID, err := snowflake.ParseString(strings.TrimSpace(req.CompanyID))
	if err != nil {
		return paymentdomain.ErrPaymentNotFound
	}
	paymentID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return paymentdomain.ErrPaymentNotFound
	}

	payment, err := s.repo.FindByID(ctx, companyID, paymentID)
	if err != nil {
		return err
	}
	if payment == nil {
		return paymentdomain.ErrPaymentNotFound
	}

	if err := s.repo.Delete(ctx, companyID, paymentID); err != nil {
		return err
	}

	if _, err := s.documents.ApplyPayment(ctx, documentdomain.ApplyPaymentRequest{
		CompanyID: req.CompanyID,
		ID:        payment.DocumentID.String(),
		Delta:     payment.Amount.Neg(),
	}); err != nil {
		return err
	}

	s.log.Info("payment deleted",
		zap.String("payment_id", payment.ID.String()),
		zap.String("document_id", payment.DocumentID.String()),
	)
	return nil
}

func (s *service) List(ctx context.Context, req paymentdomain.ListRequest) ([]paymentdomain.Payment, error) {
	companyID, err := snowflake.ParseString(strings.TrimSpace(req.CompanyID))
	if err != nil {
		return nil, paymentdomain.ErrPaymentNotFound
	}
	documentID, err := snowflake.ParseString(strings.TrimSpace(req.DocumentID))
	if err != nil {
		return nil, paymentdomain.ErrMissingDocument
	}
	return s.repo.ListByDocument(ctx, companyID, documentID)
}
