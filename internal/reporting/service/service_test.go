package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Reader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"

	ledgermodels "estate-ledger/internal/ledger/models"
	"estate-ledger/internal/reporting/service/mocks"
	id "estate-ledger/pkg/domain"
	dErrors "estate-ledger/pkg/domain-errors"
	"estate-ledger/pkg/platform/middleware/requesttime"
	"estate-ledger/pkg/requestcontext"
)

type ReportingServiceSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	reader *mocks.MockReader
	svc    *Service
	ctx    context.Context
	member *requestcontext.Principal
}

func TestReportingServiceSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceSuite))
}

func (s *ReportingServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.reader = mocks.NewMockReader(s.ctrl)
	s.svc = New(s.reader, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.ctx = requesttime.WithTime(context.Background(), time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC))
	s.member = &requestcontext.Principal{UserID: id.NewUserID(), AccountID: id.NewAccountID(), EstateID: id.NewEstateID()}
}

func (s *ReportingServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func money(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func (s *ReportingServiceSuite) fieldErrors(err error) map[string]string {
	s.T().Helper()
	s.Require().True(dErrors.HasCode(err, dErrors.CodeValidation), "expected validation error, got %v", err)
	return dErrors.FieldsOf(err)
}

func (s *ReportingServiceSuite) TestPeriodQueryResolve() {
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	s.Run("blank values default to now", func() {
		p, err := PeriodQuery{}.Resolve(now)
		s.Require().NoError(err)
		s.Equal(2024, p.Year)
		s.Equal(time.March, p.Month)
		s.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), p.From)
		s.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), p.To)
	})

	s.Run("december rolls into next year", func() {
		p, err := PeriodQuery{Month: "12", Year: "2023"}.Resolve(now)
		s.Require().NoError(err)
		s.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), p.To)
	})

	s.Run("month out of range", func() {
		_, err := PeriodQuery{Month: "13"}.Resolve(now)
		s.Equal("must be between 1 and 12", s.fieldErrors(err)["month"])
	})

	s.Run("non-integer values", func() {
		_, err := PeriodQuery{Month: "march", Year: "twenty"}.Resolve(now)
		fields := s.fieldErrors(err)
		s.Equal("must be an integer", fields["month"])
		s.Equal("must be an integer", fields["year"])
	})
}

func (s *ReportingServiceSuite) TestMonthlySummary() {
	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	s.reader.EXPECT().SumExpensesBetween(gomock.Any(), s.member.EstateID, from, to).Return(money("300.00"), nil)
	s.reader.EXPECT().SumPaymentsBetween(gomock.Any(), s.member.EstateID, from, to).Return(money("1000.00"), nil)

	summary, err := s.svc.MonthlySummary(s.ctx, s.member, PeriodQuery{Month: "2", Year: "2024"})
	s.Require().NoError(err)
	s.True(summary.TotalExpenses.Equal(money("300")))
	s.True(summary.TotalPayments.Equal(money("1000")))
	s.True(summary.NetBalance().Equal(money("700")))
}

func (s *ReportingServiceSuite) TestMonthlySummaryDefaultsToCurrentMonth() {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	s.reader.EXPECT().SumExpensesBetween(gomock.Any(), s.member.EstateID, from, to).Return(decimal.Zero, nil)
	s.reader.EXPECT().SumPaymentsBetween(gomock.Any(), s.member.EstateID, from, to).Return(decimal.Zero, nil)

	summary, err := s.svc.MonthlySummary(s.ctx, s.member, PeriodQuery{})
	s.Require().NoError(err)
	s.Equal(time.March, summary.Period.Month)
	s.True(summary.NetBalance().IsZero())
}

func (s *ReportingServiceSuite) TestMonthlySummaryRejectsBadMonthBeforeReading() {
	_, err := s.svc.MonthlySummary(s.ctx, s.member, PeriodQuery{Month: "13", Year: "2024"})
	s.Contains(s.fieldErrors(err), "month")
}

func (s *ReportingServiceSuite) TestMonthlySummaryReadFailure() {
	s.reader.EXPECT().SumExpensesBetween(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(decimal.Zero, errors.New("connection reset")).AnyTimes()
	s.reader.EXPECT().SumPaymentsBetween(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(decimal.Zero, nil).AnyTimes()

	_, err := s.svc.MonthlySummary(s.ctx, s.member, PeriodQuery{})
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ReportingServiceSuite) TestRequiresPrincipal() {
	_, err := s.svc.MonthlySummary(s.ctx, nil, PeriodQuery{})
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	_, err = s.svc.TotalSummary(s.ctx, nil)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	_, err = s.svc.ExportWorkbook(s.ctx, nil, PeriodQuery{})
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ReportingServiceSuite) TestTotalSummary() {
	s.reader.EXPECT().EstateTotals(gomock.Any(), s.member.EstateID).Return(ledgermodels.EstateTotals{
		TotalPayments: money("1500.00"),
		TotalExpenses: money("400.00"),
		Outstanding:   money("250.00"),
		OwingTenants:  2,
	}, nil)

	summary, err := s.svc.TotalSummary(s.ctx, s.member)
	s.Require().NoError(err)
	s.True(summary.NetBalance.Equal(money("1100")))
	s.True(summary.Outstanding.Equal(money("250")))
	s.Equal(2, summary.OwingTenants)
}

func (s *ReportingServiceSuite) TestExportWorkbook() {
	tenant := &ledgermodels.Tenant{ID: id.NewTenantID(), EstateID: s.member.EstateID, FullName: "Ada Obi"}
	spent := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	expenses := []*ledgermodels.Expense{
		{ID: id.NewExpenseID(), Category: ledgermodels.ExpenseDiesel, Amount: money("120.50"), DateSpent: spent, Description: "generator"},
		{ID: id.NewExpenseID(), Category: ledgermodels.ExpenseRepairs, Amount: money("80.00"), DateSpent: spent, Description: "gate"},
		{ID: id.NewExpenseID(), Category: ledgermodels.ExpenseDiesel, Amount: money("30.00"), DateSpent: spent},
	}
	payments := []*ledgermodels.Payment{
		{ID: id.NewPaymentID(), TenantID: tenant.ID, Amount: money("500.00"), Date: spent, Category: "service_charge"},
	}
	s.reader.EXPECT().ExpensesBetween(gomock.Any(), s.member.EstateID, gomock.Any(), gomock.Any()).Return(expenses, nil)
	s.reader.EXPECT().PaymentsBetween(gomock.Any(), s.member.EstateID, gomock.Any(), gomock.Any()).Return(payments, nil)
	s.reader.EXPECT().ListTenants(gomock.Any(), s.member.EstateID).Return([]*ledgermodels.Tenant{tenant}, nil)

	wb, err := s.svc.ExportWorkbook(s.ctx, s.member, PeriodQuery{Month: "2", Year: "2024"})
	s.Require().NoError(err)
	s.Equal("financial_report_2024_2.xlsx", wb.Filename)

	f, err := excelize.OpenReader(bytes.NewReader(wb.Content))
	s.Require().NoError(err)
	defer f.Close()
	s.Equal([]string{"Expenses", "Payments", "Summary"}, f.GetSheetList())

	s.cellEquals(f, "Expenses", "A1", "Category")
	s.cellEquals(f, "Expenses", "A2", "Diesel")
	s.cellEquals(f, "Expenses", "C2", "2024-02-10")
	s.cellEquals(f, "Expenses", "D3", "gate")
	// Category totals follow display order: Repairs before Diesel.
	s.cellEquals(f, "Expenses", "F2", "Repairs")
	s.cellEquals(f, "Expenses", "G2", "80")
	s.cellEquals(f, "Expenses", "F3", "Diesel")
	s.cellEquals(f, "Expenses", "G3", "150.5")

	s.cellEquals(f, "Payments", "A2", "Ada Obi")
	s.cellEquals(f, "Payments", "B2", "500")
	s.cellEquals(f, "Payments", "D2", "service_charge")

	s.cellEquals(f, "Summary", "A2", "Total Expenses")
	s.cellEquals(f, "Summary", "B2", "230.5")
	s.cellEquals(f, "Summary", "B3", "500")
	s.cellEquals(f, "Summary", "B4", "269.5")
}

func (s *ReportingServiceSuite) TestExportWorkbookWithOnlyPayments() {
	payments := []*ledgermodels.Payment{
		{ID: id.NewPaymentID(), TenantID: id.NewTenantID(), Amount: money("50.00"), Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Category: "levy"},
	}
	s.reader.EXPECT().ExpensesBetween(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	s.reader.EXPECT().PaymentsBetween(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(payments, nil)
	s.reader.EXPECT().ListTenants(gomock.Any(), gomock.Any()).Return(nil, nil)

	wb, err := s.svc.ExportWorkbook(s.ctx, s.member, PeriodQuery{})
	s.Require().NoError(err)
	s.Equal("financial_report_2024_3.xlsx", wb.Filename)

	f, err := excelize.OpenReader(bytes.NewReader(wb.Content))
	s.Require().NoError(err)
	defer f.Close()
	s.cellEquals(f, "Summary", "B2", "0")
	s.cellEquals(f, "Summary", "B4", "50")
}

func (s *ReportingServiceSuite) TestExportWorkbookEmptyMonth() {
	s.reader.EXPECT().ExpensesBetween(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	s.reader.EXPECT().PaymentsBetween(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	s.reader.EXPECT().ListTenants(gomock.Any(), gomock.Any()).Return(nil, nil)

	_, err := s.svc.ExportWorkbook(s.ctx, s.member, PeriodQuery{Month: "1", Year: "2024"})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.Equal("no data found for the given month/year", err.Error())
}

func (s *ReportingServiceSuite) TestExportWorkbookRejectsBadPeriod() {
	_, err := s.svc.ExportWorkbook(s.ctx, s.member, PeriodQuery{Month: "0"})
	s.Contains(s.fieldErrors(err), "month")
}

func (s *ReportingServiceSuite) cellEquals(f *excelize.File, sheet, axis, want string) {
	s.T().Helper()
	got, err := f.GetCellValue(sheet, axis, excelize.Options{RawCellValue: true})
	s.Require().NoError(err)
	s.Equal(want, got, "%s!%s", sheet, axis)
}
