package httptransport

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	accountshandler "estate-ledger/internal/accounts/handler"
	"estate-ledger/internal/accounts/revocation"
	accountsservice "estate-ledger/internal/accounts/service"
	accountsstore "estate-ledger/internal/accounts/store"
	"estate-ledger/internal/accounts/token"
	ledgerhandler "estate-ledger/internal/ledger/handler"
	ledgerservice "estate-ledger/internal/ledger/service"
	ledgerstore "estate-ledger/internal/ledger/store"
	"estate-ledger/internal/platform/health"
	ratelimitmw "estate-ledger/internal/ratelimit/middleware"
	ratelimitmodels "estate-ledger/internal/ratelimit/models"
	ratelimitservice "estate-ledger/internal/ratelimit/service"
	reportinghandler "estate-ledger/internal/reporting/handler"
	reportingservice "estate-ledger/internal/reporting/service"
	"estate-ledger/pkg/platform/middleware/request"
)

const authBudget = 5

type RouterSuite struct {
	suite.Suite
	router http.Handler
	trl    *revocation.InMemoryTRL
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := token.NewJWTService("router-test-key", time.Hour)
	s.trl = revocation.NewInMemoryTRL()

	accounts := accountsservice.New(accountsstore.NewInMemory(0), tokens, s.trl, accountsservice.WithLogger(logger))
	ledgerStore := ledgerstore.NewInMemory(0)
	ledger := ledgerservice.New(ledgerStore, ledgerservice.WithLogger(logger))
	reports := reportingservice.New(ledgerStore, reportingservice.WithLogger(logger))
	limiter := ratelimitservice.New(map[ratelimitmodels.EndpointClass]ratelimitmodels.Policy{
		ratelimitmodels.ClassAuth: {Requests: authBudget, Window: time.Minute},
	}, ratelimitservice.WithLogger(logger))

	s.router = NewRouter(Dependencies{
		Logger:         logger,
		Tokens:         tokens,
		Revocations:    s.trl,
		Principals:     accounts,
		RequestMetrics: request.NewMetrics(prometheus.NewRegistry()),
		RateLimit:      ratelimitmw.New(limiter, logger),
	}, Handlers{
		Accounts:  accountshandler.New(accounts, logger),
		Ledger:    ledgerhandler.New(ledger, logger),
		Reporting: reportinghandler.New(reports, logger),
		Health:    health.New("test"),
	})
}

func (s *RouterSuite) TearDownTest() {
	s.trl.Close()
}

func (s *RouterSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) decode(rec *httptest.ResponseRecorder, out any) {
	s.T().Helper()
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(out))
}

func (s *RouterSuite) login(username string) string {
	rec := s.do(http.MethodPost, "/login/", "", map[string]string{"username": username, "password": "securepass123"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Token string `json:"token"`
	}
	s.decode(rec, &body)
	return body.Token
}

func (s *RouterSuite) TestHealthIsPublic() {
	rec := s.do(http.MethodGet, "/health/live", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.NotEmpty(rec.Header().Get("X-Request-ID"))
}

func (s *RouterSuite) TestProtectedRoutesNeedToken() {
	for _, path := range []string{"/tenants/", "/list-due-payment/", "/monthly-summary/", "/export-data/"} {
		rec := s.do(http.MethodGet, path, "", nil)
		s.Equal(http.StatusUnauthorized, rec.Code, path)
	}
	rec := s.do(http.MethodGet, "/tenants/", "not-a-jwt", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *RouterSuite) TestRejectsNonJSONBody() {
	req := httptest.NewRequest(http.MethodPost, "/login/", bytes.NewBufferString("username=a"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusUnsupportedMediaType, rec.Code)
}

func (s *RouterSuite) TestBillingRoundTrip() {
	rec := s.do(http.MethodPost, "/register/", "", map[string]string{
		"username":    "admin1",
		"email":       "admin1@example.com",
		"password":    "securepass123",
		"estate_name": "Greenview",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	token := s.login("admin1")

	rec = s.do(http.MethodPost, "/tenants/add/", token, map[string]string{"full_name": "Ada Obi", "house_number": "12B"})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var tenant struct {
		ID string `json:"id"`
	}
	s.decode(rec, &tenant)

	rec = s.do(http.MethodPost, "/payment-issues/", token, map[string]string{"title": "Security levy", "amount": "5000.00"})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var issue struct {
		DuesCreated int `json:"dues_created"`
	}
	s.decode(rec, &issue)
	s.Equal(1, issue.DuesCreated)

	rec = s.do(http.MethodGet, "/list-due-payment/", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var dues []struct {
		ID        string `json:"id"`
		TenantID  string `json:"tenant"`
		AmountDue string `json:"amount_due"`
	}
	s.decode(rec, &dues)
	s.Require().Len(dues, 1)
	s.Equal(tenant.ID, dues[0].TenantID)
	s.Equal("5000.00", dues[0].AmountDue)

	payment := map[string]string{
		"tenant":         tenant.ID,
		"payment_due_id": dues[0].ID,
		"amount":         "5000.00",
		"category":       "levy",
		"date":           "2024-03-01",
	}
	rec = s.do(http.MethodPost, "/create-payment/", token, payment)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/create-payment/", token, payment)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "already_settled")

	rec = s.do(http.MethodGet, "/total-summary/", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var totals struct {
		TotalPayments string `json:"total_payments"`
		Outstanding   string `json:"outstanding"`
		OwingTenants  int    `json:"owing_tenants"`
	}
	s.decode(rec, &totals)
	s.Equal("5000.00", totals.TotalPayments)
	s.Equal("0.00", totals.Outstanding)
	s.Equal(0, totals.OwingTenants)

	rec = s.do(http.MethodGet, "/monthly-summary/?month=13", token, nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/logout/", token, nil)
	s.Require().Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/tenants/", token, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *RouterSuite) TestMembersCannotWrite() {
	rec := s.do(http.MethodPost, "/register/", "", map[string]string{
		"username":    "admin2",
		"email":       "admin2@example.com",
		"password":    "securepass123",
		"estate_name": "Hillside",
	})
	s.Require().Equal(http.StatusCreated, rec.Code)
	adminToken := s.login("admin2")

	rec = s.do(http.MethodPost, "/members/", adminToken, map[string]string{
		"username": "resident1",
		"email":    "resident1@example.com",
		"password": "securepass123",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	memberToken := s.login("resident1")

	rec = s.do(http.MethodPost, "/tenants/add/", memberToken, map[string]string{"full_name": "Bola Ade"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), `"error":"forbidden"`)

	rec = s.do(http.MethodGet, "/total-summary/", memberToken, nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *RouterSuite) TestCredentialEndpointsAreThrottled() {
	creds := map[string]string{"username": "nobody", "password": "wrongpass123"}
	for range authBudget {
		rec := s.do(http.MethodPost, "/login/", "", creds)
		s.Equal(http.StatusUnauthorized, rec.Code)
	}

	rec := s.do(http.MethodPost, "/login/", "", creds)
	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.NotEmpty(rec.Header().Get("Retry-After"))

	rec = s.do(http.MethodGet, "/health/live", "", nil)
	s.Equal(http.StatusOK, rec.Code)
}
