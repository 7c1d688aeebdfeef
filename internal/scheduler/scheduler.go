// Package scheduler materializes due recurring invoices on an interval.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tallybook/tallybook/internal/clock"
	documentdomain "github.com/tallybook/tallybook/internal/document/domain"
	"github.com/tallybook/tallybook/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log         *zap.Logger
	Clock       clock.Clock
	DocumentSvc documentdomain.Service
	Repo        documentdomain.Repository
	Metrics     *metrics.Metrics `optional:"true"`
	Config      Config           `optional:"true"`
}

type Scheduler struct {
	log     *zap.Logger
	cfg     Config
	clock   clock.Clock
	docSvc  documentdomain.Service
	repo    documentdomain.Repository
	metrics *metrics.Metrics
}

func New(p Params) *Scheduler {
	return &Scheduler{
		log:     p.Log.Named("scheduler"),
		cfg:     p.Config.withDefaults(),
		clock:   p.Clock,
		docSvc:  p.DocumentSvc,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

// RunOnce executes a single materialization sweep.
func (s *Scheduler) RunOnce(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	if err := s.MaterializeRecurringJob(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			s.log.Warn("materialization sweep timed out", zap.Error(err))
			return nil
		}
		return fmt.Errorf("materialize_recurring: %w", err)
	}
	return nil
}

// RunForever sweeps on the configured interval until the context ends.
func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// MaterializeRecurringJob turns every due active recurring invoice into a
// draft invoice and advances its schedule.
func (s *Scheduler) MaterializeRecurringJob(ctx context.Context) error {
	now := s.clock.Now()

	due, err := s.repo.FindDueRecurring(ctx, now, s.cfg.BatchSize)
	if err != nil {
		return err
	}

	var errs error
	for i := range due {
		recurring := &due[i]
		if err := s.materializeOne(ctx, recurring, now); err != nil {
			s.metrics.RecordRecurringMaterialized(ctx, "error")
			s.log.Error("failed to materialize recurring invoice",
				zap.String("recurring_id", recurring.ID.String()),
				zap.Error(err),
			)
			errs = errors.Join(errs, err)
			continue
		}
		s.metrics.RecordRecurringMaterialized(ctx, "ok")
	}
	return errs
}

func (s *Scheduler) materializeOne(ctx context.Context, recurring *documentdomain.Document, now time.Time) error {
	invoice, err := s.docSvc.Create(ctx, invoiceRequestFrom(recurring))
	if err != nil {
		return err
	}

	next := nextSendAt(recurring, now)
	recurring.NextSendAt = next
	if recurring.RemainingCycles > 0 {
		recurring.RemainingCycles--
	}
	if recurring.RemainingCycles == 0 || next == nil {
		recurring.Status = documentdomain.StatusCompleted
		recurring.NextSendAt = nil
	}
	recurring.UpdatedAt = now

	if err := s.repo.Update(ctx, recurring); err != nil {
		return err
	}

	s.log.Info("recurring invoice materialized",
		zap.String("recurring_id", recurring.ID.String()),
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.Number),
	)
	return nil
}

// nextSendAt advances the schedule by whole frequency periods until it is
// in the future, so a scheduler outage does not emit a backlog burst.
func nextSendAt(recurring *documentdomain.Document, now time.Time) *time.Time {
	if recurring.FrequencyDays <= 0 || recurring.NextSendAt == nil {
		return nil
	}
	next := *recurring.NextSendAt
	for !next.After(now) {
		next = next.AddDate(0, 0, recurring.FrequencyDays)
	}
	return &next
}

func invoiceRequestFrom(recurring *documentdomain.Document) documentdomain.CreateRequest {
	req := documentdomain.CreateRequest{
		CompanyID: recurring.CompanyID.String(),
		ClientID:  recurring.ClientID.String(),
		DocType:   documentdomain.DocTypeInvoice,

		CurrencyCode: recurring.CurrencyCode,

		Discount:         recurring.Discount,
		IsAmountDiscount: recurring.IsAmountDiscount,

		TaxName1: recurring.TaxName1,
		TaxRate1: recurring.TaxRate1,
		TaxName2: recurring.TaxName2,
		TaxRate2: recurring.TaxRate2,
		TaxName3: recurring.TaxName3,
		TaxRate3: recurring.TaxRate3,

		UsesInclusiveTaxes: recurring.UsesInclusiveTaxes,

		CustomSurcharge1:    recurring.CustomSurcharge1,
		CustomSurcharge2:    recurring.CustomSurcharge2,
		CustomSurcharge3:    recurring.CustomSurcharge3,
		CustomSurcharge4:    recurring.CustomSurcharge4,
		CustomSurchargeTax1: recurring.CustomSurchargeTax1,
		CustomSurchargeTax2: recurring.CustomSurchargeTax2,
		CustomSurchargeTax3: recurring.CustomSurchargeTax3,
		CustomSurchargeTax4: recurring.CustomSurchargeTax4,

		Notes: recurring.Notes,
		Terms: recurring.Terms,
	}

	for _, line := range recurring.LineItems {
		req.LineItems = append(req.LineItems, documentdomain.LineItemInput{
			SortOrder:  line.SortOrder,
			ProductKey: line.ProductKey,
			Notes:      line.Notes,
			Quantity:   line.Quantity,
			Cost:       line.Cost,

			Discount:         line.Discount,
			IsAmountDiscount: line.IsAmountDiscount,

			TaxName1: line.TaxName1,
			TaxRate1: line.TaxRate1,
			TaxName2: line.TaxName2,
			TaxRate2: line.TaxRate2,
			TaxName3: line.TaxName3,
			TaxRate3: line.TaxRate3,
		})
	}
	return req
}
