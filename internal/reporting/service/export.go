package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	ledgermodels "estate-ledger/internal/ledger/models"
	"estate-ledger/internal/reporting/models"
	id "estate-ledger/pkg/domain"
	dErrors "estate-ledger/pkg/domain-errors"
	"estate-ledger/pkg/platform/middleware/requesttime"
	"estate-ledger/pkg/platform/tracer"
	"estate-ledger/pkg/requestcontext"
)

const (
	sheetExpenses = "Expenses"
	sheetPayments = "Payments"
	sheetSummary  = "Summary"

	dateLayout = "2006-01-02"
	// moneyFormat is the built-in "#,##0.00" number format.
	moneyFormat = 4
)

type exportData struct {
	expenses []*ledgermodels.Expense
	payments []*ledgermodels.Payment
	tenants  map[id.TenantID]string
}

// ExportWorkbook renders one month of expenses and payments as an xlsx file
// with a Summary sheet and charts. A month with neither is not found.
func (s *Service) ExportWorkbook(ctx context.Context, p *requestcontext.Principal, q PeriodQuery) (workbook *models.Workbook, err error) {
	if err := requireMember(p); err != nil {
		return nil, err
	}
	period, err := q.Resolve(requesttime.Now(ctx))
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanExportWorkbook,
		tracer.String(tracer.AttrEstateID, p.EstateID.String()),
	)
	defer func() { span.End(err) }()

	data, err := s.loadExport(ctx, p, period)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load export data")
	}
	if len(data.expenses) == 0 && len(data.payments) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "no data found for the given month/year")
	}

	content, err := renderWorkbook(data)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render workbook")
	}

	s.logger.InfoContext(ctx, "workbook exported",
		"estate_id", p.EstateID.String(),
		"year", period.Year,
		"month", int(period.Month),
		"expenses", len(data.expenses),
		"payments", len(data.payments),
		"request_id", requestcontext.RequestID(ctx),
	)
	return &models.Workbook{
		Filename: fmt.Sprintf("financial_report_%d_%d.xlsx", period.Year, int(period.Month)),
		Content:  content,
	}, nil
}

func (s *Service) loadExport(ctx context.Context, p *requestcontext.Principal, period models.Period) (*exportData, error) {
	data := &exportData{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		expenses, err := s.reader.ExpensesBetween(gctx, p.EstateID, period.From, period.To)
		data.expenses = expenses
		return err
	})
	g.Go(func() error {
		payments, err := s.reader.PaymentsBetween(gctx, p.EstateID, period.From, period.To)
		data.payments = payments
		return err
	})
	g.Go(func() error {
		tenants, err := s.reader.ListTenants(gctx, p.EstateID)
		if err != nil {
			return err
		}
		data.tenants = make(map[id.TenantID]string, len(tenants))
		for _, t := range tenants {
			data.tenants[t.ID] = t.FullName
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

func renderWorkbook(data *exportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetExpenses); err != nil {
		return nil, err
	}
	for _, name := range []string{sheetPayments, sheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: moneyFormat})
	if err != nil {
		return nil, err
	}

	totalExpenses, err := writeExpenses(f, data.expenses, bold, money)
	if err != nil {
		return nil, fmt.Errorf("expenses sheet: %w", err)
	}
	totalPayments, err := writePayments(f, data.payments, data.tenants, bold, money)
	if err != nil {
		return nil, fmt.Errorf("payments sheet: %w", err)
	}
	if err := writeSummary(f, totalExpenses, totalPayments, bold, money); err != nil {
		return nil, fmt.Errorf("summary sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeExpenses lists expenses in A:D and per-category totals in F:G, which
// feed the pie chart.
func writeExpenses(f *excelize.File, expenses []*ledgermodels.Expense, bold, money int) (decimal.Decimal, error) {
	if err := writeHeader(f, sheetExpenses, "A1", bold, "Category", "Amount", "Date Spent", "Description"); err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	byCategory := make(map[ledgermodels.ExpenseCategory]decimal.Decimal)
	for i, e := range expenses {
		row := &[]any{e.Category.Label(), e.Amount.InexactFloat64(), e.DateSpent.Format(dateLayout), e.Description}
		if err := f.SetSheetRow(sheetExpenses, cell(1, i+2), row); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(e.Amount)
		byCategory[e.Category] = byCategory[e.Category].Add(e.Amount)
	}
	if len(expenses) > 0 {
		if err := f.SetCellStyle(sheetExpenses, "B2", cell(2, len(expenses)+1), money); err != nil {
			return decimal.Zero, err
		}
	}

	if err := writeHeader(f, sheetExpenses, "F1", bold, "Category", "Total"); err != nil {
		return decimal.Zero, err
	}
	rows := 0
	for _, c := range ledgermodels.ExpenseCategories {
		sum, ok := byCategory[c]
		if !ok {
			continue
		}
		rows++
		if err := f.SetSheetRow(sheetExpenses, cell(6, rows+1), &[]any{c.Label(), sum.InexactFloat64()}); err != nil {
			return decimal.Zero, err
		}
	}
	if rows == 0 {
		return total, nil
	}
	if err := f.SetCellStyle(sheetExpenses, "G2", cell(7, rows+1), money); err != nil {
		return decimal.Zero, err
	}
	err := f.AddChart(sheetExpenses, "I2", &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{{
			Name:       "Expense Categories",
			Categories: fmt.Sprintf("%s!$F$2:$F$%d", sheetExpenses, rows+1),
			Values:     fmt.Sprintf("%s!$G$2:$G$%d", sheetExpenses, rows+1),
		}},
		Title: []excelize.RichTextRun{{Text: "Expenses by Category"}},
	})
	return total, err
}

func writePayments(f *excelize.File, payments []*ledgermodels.Payment, tenants map[id.TenantID]string, bold, money int) (decimal.Decimal, error) {
	if err := writeHeader(f, sheetPayments, "A1", bold, "Tenant", "Amount", "Date", "Category", "Description"); err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for i, p := range payments {
		row := &[]any{tenants[p.TenantID], p.Amount.InexactFloat64(), p.Date.Format(dateLayout), p.Category, p.Description}
		if err := f.SetSheetRow(sheetPayments, cell(1, i+2), row); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(p.Amount)
	}
	if len(payments) > 0 {
		if err := f.SetCellStyle(sheetPayments, "B2", cell(2, len(payments)+1), money); err != nil {
			return decimal.Zero, err
		}
	}
	return total, nil
}

func writeSummary(f *excelize.File, totalExpenses, totalPayments decimal.Decimal, bold, money int) error {
	if err := writeHeader(f, sheetSummary, "A1", bold, "Item", "Amount"); err != nil {
		return err
	}
	rows := [][]any{
		{"Total Expenses", totalExpenses.InexactFloat64()},
		{"Total Payments", totalPayments.InexactFloat64()},
		{"Net Balance", totalPayments.Sub(totalExpenses).InexactFloat64()},
	}
	for i, row := range rows {
		if err := f.SetSheetRow(sheetSummary, cell(1, i+2), &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheetSummary, "B2", "B4", money); err != nil {
		return err
	}
	return f.AddChart(sheetSummary, "D2", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       "Expenses vs Payments",
			Categories: sheetSummary + "!$A$2:$A$3",
			Values:     sheetSummary + "!$B$2:$B$3",
		}},
		Title: []excelize.RichTextRun{{Text: "Expenses vs Payments"}},
	})
}

func writeHeader(f *excelize.File, sheet, start string, style int, titles ...string) error {
	row := make([]any, len(titles))
	for i, t := range titles {
		row[i] = t
	}
	if err := f.SetSheetRow(sheet, start, &row); err != nil {
		return err
	}
	col, rowNum, err := excelize.CellNameToCoordinates(start)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, start, cell(col+len(titles)-1, rowNum), style)
}

// cell panics only on coordinates below 1, which callers never pass.
func cell(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		panic(err)
	}
	return name
}
