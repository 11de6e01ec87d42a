package web

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/laureanodiez/tarjeta/internal/analytics"
	"github.com/laureanodiez/tarjeta/internal/config"
)

const adminCookie = "admin_token"

var errAnalyticsDisabled = errors.New("analytics disabled: DATABASE_PATH is not set")

type adminAuth struct {
	token     string
	username  string
	password  string
	defaulted bool
}

func newAdminAuth(cfg config.Config) (adminAuth, error) {
	token, err := analytics.RandomToken()
	if err != nil {
		return adminAuth{}, err
	}
	username, password, defaulted := cfg.AdminCredentials()
	return adminAuth{token: token, username: username, password: password, defaulted: defaulted}, nil
}

func (a adminAuth) valid(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	return userOK && passOK
}

// adminAuthMiddleware redirects to the login page unless the admin cookie
// carries this process's token.
func (s *Server) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(s.admin.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// visitorTracking records page views with hashed IPs. Do Not Track is
// respected and assets are skipped.
func (s *Server) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.visits == nil || c.Request.Method != http.MethodGet || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}
		path := c.Request.URL.Path
		for _, prefix := range []string{"/static/", "/files/", "/admin/", "/api/", "/favicon"} {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}
		hashed := s.hasher.Hash(c.ClientIP())
		if err := s.visits.RecordVisit(c.Request.Context(), hashed, c.GetHeader("User-Agent"), path); err != nil {
			s.logger.Error("record visit", "path", path, "error", err)
		}
		c.Next()
	}
}

// setupAdminRoutes registers the privacy page and the admin area.
func (s *Server) setupAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":     "Política de privacidad",
			"retention": "12 meses",
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin"})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		hashed := s.hasher.Hash(c.ClientIP())
		if !s.admin.valid(c.PostForm("username"), c.PostForm("password")) {
			s.logger.Warn("failed admin login", "client", hashed)
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title": "Admin",
				"error": "Credenciales inválidas",
			})
			return
		}
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookie, s.admin.token, int((24 * time.Hour).Seconds()), "/admin", "", false, true)
		s.logger.Info("admin login", "client", hashed)
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.adminAuthMiddleware())

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.stats(c.Request.Context())
		if err != nil {
			s.logger.Error("load admin stats", "error", err)
			c.HTML(http.StatusServiceUnavailable, "admin-error.html", gin.H{"error": "No se pudieron cargar las estadísticas"})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":    stats,
			"sessions": s.sessions.len(),
		})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		c.JSON(http.StatusOK, stats)
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		if s.visits == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": errAnalyticsDisabled.Error()})
			return
		}
		removed, err := s.visits.Cleanup(c.Request.Context())
		if err != nil {
			s.logger.Error("privacy cleanup", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cleanup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": removed})
	})
}

func (s *Server) stats(ctx context.Context) (*analytics.Stats, error) {
	if s.visits == nil {
		return nil, errAnalyticsDisabled
	}
	return s.visits.Stats(ctx)
}
