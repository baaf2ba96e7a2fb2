package web

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/doneil/portfolio/internal/visits"
)

const adminCookie = "admin_token"

type adminAuth struct {
	username string
	password string
	token    string
	secure   bool
}

func newAdminAuth(username, password string, secure bool) (*adminAuth, error) {
	token, err := visits.RandomToken()
	if err != nil {
		return nil, err
	}
	return &adminAuth{username: username, password: password, token: token, secure: secure}, nil
}

func (a *adminAuth) valid(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	return userOK && passOK
}

func (a *adminAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}

func (s *Server) setupAdminRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		if !s.admin.valid(c.PostForm("username"), c.PostForm("password")) {
			s.logger.Warn("failed admin login", "client", s.tracker.HashIP(c.ClientIP()))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{"error": "Invalid credentials"})
			return
		}
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookie, s.admin.token, 3600*24, "/admin", "", s.admin.secure, true)
		s.logger.Info("admin login", "client", s.tracker.HashIP(c.ClientIP()))
		c.Redirect(http.StatusFound, "/admin/api/stats")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", s.admin.secure, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	group := r.Group("/admin")
	group.Use(s.admin.middleware())

	group.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.tracker.Stats(c.Request.Context())
		if err != nil {
			s.logger.Error("loading admin stats", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	group.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.tracker.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=portfolio-stats.json")
		c.JSON(http.StatusOK, stats)
	})

	group.POST("/privacy/cleanup", func(c *gin.Context) {
		deleted, err := s.tracker.Cleanup(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cleanup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": deleted})
	})
}
