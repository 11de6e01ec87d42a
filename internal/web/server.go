// Package web serves the portfolio: the card, the menu and the section
// views, the gesture event API and the admin area.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/laureanodiez/tarjeta/internal/analytics"
	"github.com/laureanodiez/tarjeta/internal/config"
	"github.com/laureanodiez/tarjeta/internal/content"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const sessionCookie = "tarjeta_session"

// Server holds the shared, read-only collaborators of every request and
// the per-visitor sessions.
type Server struct {
	cfg      config.Config
	registry *content.Registry
	profile  content.Profile
	sessions *sessionStore
	visits   *analytics.Store
	hasher   *analytics.Hasher
	admin    adminAuth
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAnalytics enables the visit log.
func WithAnalytics(store *analytics.Store) Option {
	return func(s *Server) { s.visits = store }
}

// WithLogger sets the application logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithHasher fixes the IP hasher, mostly for tests.
func WithHasher(h *analytics.Hasher) Option {
	return func(s *Server) { s.hasher = h }
}

// New builds a server. It fails only when no random admin token can be
// generated.
func New(cfg config.Config, registry *content.Registry, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		registry: registry,
		profile:  cfg.Profile(),
		sessions: newSessionStore(cfg.SessionTTL),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.hasher == nil {
		h, err := analytics.NewHasher()
		if err != nil {
			return nil, err
		}
		s.hasher = h
	}
	admin, err := newAdminAuth(cfg)
	if err != nil {
		return nil, err
	}
	s.admin = admin
	if admin.defaulted {
		s.logger.Warn("using default admin credentials; set ADMIN_USERNAME and ADMIN_PASSWORD")
	}
	return s, nil
}

// Handler returns the gin engine with every route registered.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.SetHTMLTemplate(template.Must(template.New("").
		Funcs(template.FuncMap{"pathEscape": url.PathEscape}).
		ParseFS(templateFS, "templates/*.html")))

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	r.StaticFS("/static", http.FS(static))
	r.Static("/files", s.cfg.FilesDir)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.len()})
	})

	site := r.Group("/")
	site.Use(s.visitorTracking(), s.sessionMiddleware())
	site.GET("/", s.handleIndex)
	site.GET("/view", s.handleView)
	site.POST("/card/events", s.handleCardEvent)
	site.POST("/mode/toggle", s.handleToggleMode)
	site.POST("/sections/:key", s.handleSelectSection)
	site.GET("/sections/:key", s.handleSection)
	site.POST("/back", s.handleBack)
	site.GET("/api/sections/:key", s.handleSectionJSON)

	s.setupAdminRoutes(r)
	return r
}

// sessionMiddleware attaches the visitor's session. Reads without a live
// session render a throwaway initial one; the session and its cookie are
// only stored on the first mutating request.
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(sessionCookie)
		if c.Request.Method == http.MethodGet {
			sess, ok := s.sessions.lookup(id)
			if !ok {
				sess = newSession("", time.Now())
			}
			c.Set(sessionCookie, sess)
			c.Next()
			return
		}
		sess, created := s.sessions.get(id)
		if created {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, sess.id, int(s.cfg.SessionTTL/time.Second), "/", "", false, true)
		}
		c.Set(sessionCookie, sess)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *session {
	return c.MustGet(sessionCookie).(*session)
}
