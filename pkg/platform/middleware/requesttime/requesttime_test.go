package requesttime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMiddleware_PinsOneInstantPerRequest(t *testing.T) {
	var first, second time.Time
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		first = Now(r.Context())
		time.Sleep(5 * time.Millisecond)
		second = Now(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	before := time.Now()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/payments/", nil))
	after := time.Now()

	assert.False(t, first.IsZero())
	assert.Equal(t, first, second)
	assert.False(t, first.Before(before.UTC()))
	assert.False(t, first.After(after.UTC()))
}

func TestNow_FallsBackToWallClock(t *testing.T) {
	before := time.Now()
	got := Now(context.Background())
	assert.False(t, got.Before(before.UTC()))
}

func TestToday_TruncatesToDay(t *testing.T) {
	ctx := WithTime(context.Background(), time.Date(2024, 3, 1, 17, 45, 12, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Today(ctx))
}

func TestWithTime_OverridesEarlierValue(t *testing.T) {
	ctx := WithTime(context.Background(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx = WithTime(ctx, time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC), Now(ctx))
}
