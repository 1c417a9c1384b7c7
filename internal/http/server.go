package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"villabook/internal/cache"
	"villabook/internal/core"
	applog "villabook/internal/log"
	"villabook/internal/middleware/ratelimit"
	"villabook/internal/middleware/security"
	"villabook/internal/middleware/trace"
	"villabook/internal/services"
)

// BookingManager handles booking writes and reads.
type BookingManager interface {
	Create(ctx context.Context, b core.Booking) (int64, error)
	Update(ctx context.Context, b core.Booking) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (core.Booking, error)
	List(ctx context.Context) ([]core.Booking, error)
}

// RateManager handles the seasonal rate settings.
type RateManager interface {
	Upsert(ctx context.Context, rule core.SeasonalRule) (int64, error)
	Remove(ctx context.Context, id int64) error
	List(ctx context.Context) ([]core.SeasonalRule, error)
}

// StayQuoter prices candidate stays.
type StayQuoter interface {
	QuoteStay(ctx context.Context, r core.DateRange) (services.Quote, error)
}

// CashFlowReporter produces the monthly series and owns expenses.
type CashFlowReporter interface {
	CashFlow(ctx context.Context, window core.DateRange, horizonMonths int) ([]core.MonthBucket, error)
	AddExpense(ctx context.Context, e core.Expense) (int64, error)
	RemoveExpense(ctx context.Context, id int64) error
	ListExpenses(ctx context.Context, from, to core.Date) ([]core.Expense, error)
}

var (
	_ BookingManager   = (*services.BookingService)(nil)
	_ RateManager      = (*services.RuleService)(nil)
	_ StayQuoter       = (*services.QuoteService)(nil)
	_ CashFlowReporter = (*services.ReportService)(nil)
)

type Server struct {
	http.Server
	bookings BookingManager
	rates    RateManager
	quoter   StayQuoter
	reports  CashFlowReporter

	// Cash-flow series are expensive to rebuild per request; any write to
	// bookings, rates or expenses clears the whole cache.
	reportCache  *cache.LRUCache[[]core.MonthBucket]
	cacheManager *cache.Manager

	limiter      *ratelimit.Limiter
	accessLog    *applog.StructuredLogger
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, bookings BookingManager, rates RateManager, quoter StayQuoter, reports CashFlowReporter) *Server {
	mux := http.NewServeMux()

	s := &Server{
		bookings:     bookings,
		rates:        rates,
		quoter:       quoter,
		reports:      reports,
		reportCache:  cache.NewLRUCache[[]core.MonthBucket](100, 5*time.Minute),
		cacheManager: cache.NewManager(),
		limiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		accessLog:    applog.NewStructuredLogger(applog.New(applog.DefaultConfig())),
	}

	s.cacheManager.Register(s.reportCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/bookings", s.handleListBookings)
	mux.HandleFunc("POST /api/bookings", s.handleCreateBooking)
	mux.HandleFunc("GET /api/bookings/{id}", s.handleGetBooking)
	mux.HandleFunc("PUT /api/bookings/{id}", s.handleUpdateBooking)
	mux.HandleFunc("DELETE /api/bookings/{id}", s.handleDeleteBooking)

	mux.HandleFunc("GET /api/quote", s.handleQuote)

	mux.HandleFunc("GET /api/rates", s.handleListRates)
	mux.HandleFunc("POST /api/rates", s.handleCreateRate)
	mux.HandleFunc("PUT /api/rates/{id}", s.handleUpdateRate)
	mux.HandleFunc("DELETE /api/rates/{id}", s.handleDeleteRate)

	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	mux.HandleFunc("GET /api/cashflow", s.handleCashFlow)
	mux.HandleFunc("GET /api/cashflow/export", s.handleCashFlowExport)

	tracer := trace.NewMiddleware(clientIP)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limited := s.limiter.Middleware(clientIP, nil)

	s.Server = http.Server{
		Addr:    addr,
		Handler: headers.Middleware(tracer.Middleware(limited(mux))),
	}

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// invalidateReports clears cached cash-flow series after any write.
func (s *Server) invalidateReports() {
	s.reportCache.Clear()
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
