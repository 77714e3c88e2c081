package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"estate-ledger/internal/reporting/models"
	dErrors "estate-ledger/pkg/domain-errors"
	"estate-ledger/pkg/platform/middleware/requesttime"
	"estate-ledger/pkg/requestcontext"
	"estate-ledger/pkg/validation"
)

// PeriodQuery is a month and year as received from the client. Blank values
// mean the current month or year.
type PeriodQuery struct {
	Month string
	Year  string
}

// Resolve validates the query against now.
func (q PeriodQuery) Resolve(now time.Time) (models.Period, error) {
	fields := validation.Errors{}
	month, year := int(now.Month()), now.Year()

	if raw := strings.TrimSpace(q.Month); raw != "" {
		v, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			fields.Add("month", "must be an integer")
		case v < 1 || v > 12:
			fields.Add("month", "must be between 1 and 12")
		default:
			month = v
		}
	}
	if raw := strings.TrimSpace(q.Year); raw != "" {
		v, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			fields.Add("year", "must be an integer")
		case v < 1 || v > 9999:
			fields.Add("year", "must be between 1 and 9999")
		default:
			year = v
		}
	}
	if err := fields.Err(""); err != nil {
		return models.Period{}, err
	}
	return models.NewPeriod(year, time.Month(month)), nil
}

// MonthlySummary totals the estate's expenses (by date spent) and payments
// (by payment date) for one month.
func (s *Service) MonthlySummary(ctx context.Context, p *requestcontext.Principal, q PeriodQuery) (*models.MonthlySummary, error) {
	if err := requireMember(p); err != nil {
		return nil, err
	}
	period, err := q.Resolve(requesttime.Now(ctx))
	if err != nil {
		return nil, err
	}

	summary := &models.MonthlySummary{Period: period}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.reader.SumExpensesBetween(gctx, p.EstateID, period.From, period.To)
		if err != nil {
			return err
		}
		summary.TotalExpenses = total
		return nil
	})
	g.Go(func() error {
		total, err := s.reader.SumPaymentsBetween(gctx, p.EstateID, period.From, period.To)
		if err != nil {
			return err
		}
		summary.TotalPayments = total
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load monthly summary")
	}
	return summary, nil
}

// TotalSummary is the estate's all-time position.
func (s *Service) TotalSummary(ctx context.Context, p *requestcontext.Principal) (*models.TotalSummary, error) {
	if err := requireMember(p); err != nil {
		return nil, err
	}
	totals, err := s.reader.EstateTotals(ctx, p.EstateID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load totals")
	}
	return &models.TotalSummary{
		TotalPayments: totals.TotalPayments,
		TotalExpenses: totals.TotalExpenses,
		NetBalance:    totals.NetBalance(),
		Outstanding:   totals.Outstanding,
		OwingTenants:  totals.OwingTenants,
	}, nil
}
