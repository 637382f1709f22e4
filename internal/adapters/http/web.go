package web

import (
	"context"
	"crypto/rand"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"

	"clubhouse/internal/adapters/email"
	"clubhouse/internal/adapters/http/middleware"
	"clubhouse/internal/adapters/http/perf"
	attendanceStore "clubhouse/internal/adapters/storage/attendance"
	categoryStore "clubhouse/internal/adapters/storage/category"
	lineupStore "clubhouse/internal/adapters/storage/lineup"
	memberStore "clubhouse/internal/adapters/storage/member"
	sessionStore "clubhouse/internal/adapters/storage/trainingsession"
	"clubhouse/internal/application/orchestrators"
)

// Stores holds all storage dependencies.
type Stores struct {
	Sessions   sessionStore.Store
	Attendance attendanceStore.Store
	Members    memberStore.Store
	Categories categoryStore.Store
	Lineups    lineupStore.Store
}

// Options configures the HTTP surface. Zero values are usable defaults.
type Options struct {
	CSRFKey        []byte   // 32 bytes; a random key is generated when empty
	SecureCookies  bool     // mark the CSRF cookie Secure (production)
	TrustedOrigins []string // extra origins allowed to post forms
	RateLimit      int      // requests per second per client IP; 0 disables
	SlowRequest    time.Duration
	Location       *time.Location // club time zone for "today" and calendar feeds; UTC when nil
	Locale         string         // fallback language for analytics insights
	EmailSender    email.Sender   // optional; cancellation notices are skipped when nil
	MailFrom       string
	Collector      *perf.Collector // optional; backs /api/admin/perf
	AccessLog      io.Writer       // optional Apache combined log
	Ping           func(ctx context.Context) error
}

// server carries the dependencies shared by all handlers.
type server struct {
	stores *Stores
	opts   Options
	roster orchestrators.RosterResolver
	now    func() time.Time
}

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// NewMux wires HTTP handlers and middleware for the API.
// The rate limiter's cleanup goroutine stops when ctx is cancelled.
func NewMux(ctx context.Context, s *Stores, opts Options) http.Handler {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	srv := &server{
		stores: s,
		opts:   opts,
		roster: orchestrators.RosterResolver{Lineups: s.Lineups, Members: s.Members},
		now:    time.Now,
	}

	mux := http.NewServeMux()
	srv.registerRoutes(mux)

	csrfKey := opts.CSRFKey
	if len(csrfKey) == 0 {
		csrfKey = make([]byte, 32)
		if _, err := rand.Read(csrfKey); err != nil {
			panic(err)
		}
		slog.Warn("csrf_key_random", "hint", "set CLUBHOUSE_CSRF_KEY so tokens survive restarts")
	}

	// Applied inner to outer: the last middleware sees the request first.
	chain := []func(http.Handler) http.Handler{
		middleware.Compress,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, middleware.CSRFOptions{
			Secure:         opts.SecureCookies,
			TrustedOrigins: opts.TrustedOrigins,
		}),
	}
	if opts.RateLimit > 0 {
		chain = append(chain, middleware.RateLimit(middleware.NewRateLimiter(ctx, opts.RateLimit, time.Second)))
	}
	chain = append(chain, middleware.Timing(opts.Collector, opts.SlowRequest), middleware.Recover)
	if opts.AccessLog != nil {
		chain = append(chain, func(next http.Handler) http.Handler {
			return handlers.CombinedLoggingHandler(opts.AccessLog, next)
		})
	}
	return middleware.Chain(mux, chain...)
}

// today returns the current date in the club's time zone.
func (s *server) today() time.Time {
	return s.now().In(s.opts.Location)
}
