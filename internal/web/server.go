// Package web serves the portfolio over HTTP.
//
// The page itself is rendered once by the server with every section in
// place but hidden. Each browser then opens GET /stream, which mounts a
// private shell.Shell for that tab and pushes its View as Server-Sent
// Events; the page script only replays frames (typed text, unlocked
// sections, particle positions, badge highlight). Hover and resize
// signals travel back through small POST endpoints keyed by the stream's
// session id.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/doneil/portfolio/internal/clock"
	"github.com/doneil/portfolio/internal/content"
	"github.com/doneil/portfolio/internal/particles"
	"github.com/doneil/portfolio/internal/shell"
	"github.com/doneil/portfolio/internal/visits"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Options configures a Server. Zero values fall back to defaults.
type Options struct {
	Timing         shell.Timing
	Particles      particles.Config
	StreamInterval time.Duration
	Clock          clock.Clock
	Logger         *slog.Logger
	Rand           func() *rand.Rand

	AdminUsername string
	AdminPassword string
	SecureCookies bool
}

// Server is the HTTP front end.
type Server struct {
	catalog  *content.Catalog
	tracker  *visits.Tracker
	opts     Options
	logger   *slog.Logger
	engine   *gin.Engine
	sessions *sessions
	admin    *adminAuth

	done      chan struct{}
	closeOnce sync.Once
}

// New builds the router. tracker may be nil, which disables visit
// tracking, click counting and the admin API.
func New(catalog *content.Catalog, tracker *visits.Tracker, opts Options) (*Server, error) {
	if opts.Timing == (shell.Timing{}) {
		opts.Timing = shell.DefaultTiming()
	}
	if opts.Particles == (particles.Config{}) {
		opts.Particles = particles.DefaultConfig()
	}
	if opts.StreamInterval <= 0 {
		opts.StreamInterval = 50 * time.Millisecond
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Rand == nil {
		opts.Rand = func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) }
	}

	s := &Server{
		catalog:  catalog,
		tracker:  tracker,
		opts:     opts,
		logger:   opts.Logger,
		sessions: newSessions(),
		done:     make(chan struct{}),
	}

	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", http.FS(static))
	if tracker != nil {
		r.Use(tracker.Middleware())
	}

	r.GET("/", s.index)
	r.GET("/healthz", s.health)
	r.GET("/api/content", s.contentJSON)
	r.GET("/out/:slug", s.outbound)

	r.GET("/stream", s.stream)
	r.POST("/stream/:id/hover", s.hover)
	r.POST("/stream/:id/leave", s.leave)
	r.POST("/stream/:id/resize", s.resize)

	if tracker != nil && opts.AdminPassword != "" {
		admin, err := newAdminAuth(opts.AdminUsername, opts.AdminPassword, opts.SecureCookies)
		if err != nil {
			return nil, err
		}
		s.admin = admin
		s.setupAdminRoutes(r)
	} else {
		s.logger.Info("admin routes disabled", "reason", "no tracker or ADMIN_PASSWORD")
	}

	s.engine = r
	return s, nil
}

// Engine exposes the gin router.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Handler returns the router wrapped for HTTP/2 cleartext, so browsers
// behind an h2c-capable proxy multiplex their streams on one connection.
func (s *Server) Handler() http.Handler {
	return h2c.NewHandler(s.engine, &http2.Server{})
}

// Close ends every open stream and unmounts its shell.
func (s *Server) Close() {
	s.closeOnce.Do(func() { close(s.done) })
	s.sessions.closeAll()
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server", "open_streams", s.sessions.len())
	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

type pageData struct {
	Profile   content.Profile
	AboutHTML template.HTML
	Skills    []content.SkillCategory
	Projects  []projectCard
	Stages    stageNames
}

type projectCard struct {
	content.Project
	Href string
}

// stageNames lets the template refer to stage names without literals.
type stageNames struct {
	Name            string
	Title           string
	Tagline         string
	Links           string
	AboutHeading    string
	About           string
	SkillsHeading   string
	Skills          string
	ProjectsHeading string
	Projects        string
}

var stages = stageNames{
	Name:            shell.StageName,
	Title:           shell.StageTitle,
	Tagline:         shell.StageTagline,
	Links:           shell.StageLinks,
	AboutHeading:    shell.StageAboutHeading,
	About:           shell.StageAbout,
	SkillsHeading:   shell.StageSkillsHeading,
	Skills:          shell.StageSkills,
	ProjectsHeading: shell.StageProjectsHeading,
	Projects:        shell.StageProjects,
}

func (s *Server) index(c *gin.Context) {
	projects := s.catalog.Projects()
	cards := make([]projectCard, len(projects))
	for i, p := range projects {
		cards[i] = projectCard{Project: p, Href: p.Link}
		if s.tracker != nil {
			cards[i].Href = "/out/" + p.Slug
		}
	}

	c.HTML(http.StatusOK, "index.html", pageData{
		Profile:   s.catalog.Profile(),
		AboutHTML: template.HTML(s.catalog.AboutHTML()),
		Skills:    s.catalog.Skills(),
		Projects:  cards,
		Stages:    stages,
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "streams": s.sessions.len()})
}

func (s *Server) contentJSON(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"profile":    s.catalog.Profile(),
		"about":      s.catalog.About(),
		"about_html": s.catalog.AboutHTML(),
		"skills":     s.catalog.Skills(),
		"projects":   s.catalog.Projects(),
	})
}

// outbound counts a project click and sends the browser on its way.
func (s *Server) outbound(c *gin.Context) {
	project, ok := s.catalog.Project(c.Param("slug"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown project"})
		return
	}
	if s.tracker != nil && c.GetHeader("DNT") != "1" {
		if err := s.tracker.RecordClick(c.Request.Context(), project.Slug); err != nil {
			s.logger.Warn("click not recorded", "project", project.Slug, "error", err)
		}
	}
	c.Redirect(http.StatusFound, project.Link)
}
