package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"venuebook/internal/config"
	"venuebook/internal/export"
	"venuebook/internal/metrics"
	"venuebook/internal/payment"
	"venuebook/internal/service"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Server exposes the booking application over HTTP.
type Server struct {
	cfg      *config.Config
	users    *service.UserService
	venues   *service.VenueService
	bookings *service.BookingService
	payments *payment.Service
	exporter *export.Exporter
	logger   *zerolog.Logger

	server   *http.Server
	limiters sync.Map // client key -> *rate.Limiter
}

func NewServer(
	cfg *config.Config,
	users *service.UserService,
	venues *service.VenueService,
	bookings *service.BookingService,
	payments *payment.Service,
	exporter *export.Exporter,
	logger *zerolog.Logger,
) *Server {
	s := &Server{
		cfg:      cfg,
		users:    users,
		venues:   venues,
		bookings: bookings,
		payments: payments,
		exporter: exporter,
		logger:   logger,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)

	mux.HandleFunc("GET /api/venues", s.handleListVenues)
	mux.HandleFunc("GET /api/venues/{id}", s.handleGetVenue)
	mux.HandleFunc("POST /api/venues", s.requireAdmin(s.handleCreateVenue))
	mux.HandleFunc("PATCH /api/venues/{id}", s.requireAdmin(s.handleUpdateVenue))
	mux.HandleFunc("GET /api/venues/{id}/ticket-types", s.handleListTicketTypes)
	mux.HandleFunc("POST /api/venues/{id}/ticket-types", s.requireAdmin(s.handleCreateTicketType))
	mux.HandleFunc("GET /api/venues/{id}/available-dates", s.handleListAvailableDates)
	mux.HandleFunc("POST /api/venues/{id}/available-dates", s.requireAdmin(s.handleCreateAvailableDate))

	mux.HandleFunc("GET /api/bookings", s.requireAuth(s.handleListBookings))
	mux.HandleFunc("POST /api/bookings", s.requireAuth(s.handleCreateBooking))
	mux.HandleFunc("POST /api/bookings/{ref}/cancel", s.requireAuth(s.handleCancelBooking))
	mux.HandleFunc("GET /api/admin/bookings", s.requireAdmin(s.handleAdminBookings))
	mux.HandleFunc("GET /api/admin/bookings/export", s.requireAdmin(s.handleExportBookings))

	mux.HandleFunc("POST /api/create-payment-intent", s.handleCreatePaymentIntent)
	mux.HandleFunc("POST /api/mock-payment-success", s.handleMockPaymentSuccess)

	handler := s.loggingMiddleware(s.rateLimitMiddleware(mux))

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return s
}

// Handler returns the routed handler; used by tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		metrics.IncHTTP(r.URL.Path)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("dur", time.Since(start)).
			Msg("http")
	})
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Server.RateLimit.RPS > 0 {
			if !s.limiterFor(clientKey(r)).Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		return auth
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

func (s *Server) limiterFor(key string) *rate.Limiter {
	if v, ok := s.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := s.cfg.Server.RateLimit.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(s.cfg.Server.RateLimit.RPS), burst)
	actual, loaded := s.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}
