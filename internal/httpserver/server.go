// internal/httpserver/server.go
//
// HTTP server wiring for the Hangman backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): /game/*.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Word catalog endpoints: /words/*.
//   - Multiplayer lobby endpoints (optional auth): /rooms/*.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token is present;
//     guests are identified by an anonymous cookie instead.

package httpserver

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/psylsph/hangman-netlify/internal/config"
	"github.com/psylsph/hangman-netlify/internal/daily"
	"github.com/psylsph/hangman-netlify/internal/lobby"
	"github.com/psylsph/hangman-netlify/internal/profile"
	"github.com/psylsph/hangman-netlify/internal/store"
	"github.com/psylsph/hangman-netlify/internal/words"
)

// Server bundles the router, the live game store, the DB handle and the
// domain services behind the API.
type Server struct {
	r        *chi.Mux
	cfg      *config.Config
	store    store.Store
	db       *sql.DB
	words    *words.Catalog
	profiles *profile.Service
	lobby    *lobby.Coordinator
	now      func() time.Time
}

// Option overrides a collaborator of the Server.
type Option func(*Server)

func WithCatalog(c *words.Catalog) Option    { return func(s *Server) { s.words = c } }
func WithProfiles(p *profile.Service) Option { return func(s *Server) { s.profiles = p } }
func WithLobby(c *lobby.Coordinator) Option  { return func(s *Server) { s.lobby = c } }
func WithClock(now func() time.Time) Option  { return func(s *Server) { s.now = now } }

// New constructs a Server, installs middleware, and registers routes.
// Collaborators not supplied as options default to the shared word catalog,
// SQLite-backed profiles and a lobby using the configured connect delay.
func New(cfg *config.Config, st store.Store, db *sql.DB, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{r: chi.NewRouter(), cfg: cfg, store: st, db: db, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	if s.words == nil {
		s.words = words.Default()
	}
	if s.profiles == nil {
		s.profiles = profile.NewService(profile.NewSQLStore(db))
	}
	if s.lobby == nil {
		s.lobby = lobby.NewCoordinator(
			lobby.WithWords(s.words),
			lobby.WithConnectDelay(cfg.LobbyConnectDelay),
		)
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))     // request-scoped logger
	s.r.Use(requestIDField)                  // tag log lines with the chi request id
	s.r.Use(hlog.AccessHandler(accessLog))   // one line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"hangman-go","endpoints":["/health","/game/*","/daily/*","/words/*","/rooms/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Game endpoints: optional auth (guests can play)
	s.mountGame(s.r.With(s.withOptionalAuth()))

	// Daily Challenge: optional auth (guests can play; results persisted when the round ends)
	s.mountDaily(s.r.With(s.withOptionalAuth()), daily.NewStore(db))

	// Word catalog
	s.mountWords(s.r)

	// Multiplayer lobby: optional auth (guests play under their anonymous id)
	s.mountRooms(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats (require auth)
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Lobby exposes the room coordinator.
func (s *Server) Lobby() *lobby.Coordinator { return s.lobby }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestIDField(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("reqId", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	ev := hlog.FromRequest(r).Info()
	if r.URL.Path == "/health" {
		ev = hlog.FromRequest(r).Debug()
	}
	ev.Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}
