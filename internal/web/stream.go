package web

import (
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/doneil/portfolio/internal/particles"
	"github.com/doneil/portfolio/internal/shell"
)

// ErrUnknownSession is returned for input aimed at a closed or unknown
// stream.
var ErrUnknownSession = errors.New("unknown stream session")

const (
	defaultWidth  = 1280
	defaultHeight = 800
	maxDimension  = 16384
)

// session is one browser tab: a mounted shell and a dirty flag.
type session struct {
	id    string
	shell *shell.Shell
	dirty chan struct{}
}

type sessions struct {
	mu sync.Mutex
	m  map[string]*session
}

func newSessions() *sessions {
	return &sessions{m: make(map[string]*session)}
}

func (ss *sessions) add(s *session) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.m[s.id] = s
}

func (ss *sessions) get(id string) (*session, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	s, ok := ss.m[id]
	if !ok {
		return nil, ErrUnknownSession
	}
	return s, nil
}

func (ss *sessions) remove(id string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.m, id)
}

func (ss *sessions) len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.m)
}

func (ss *sessions) closeAll() {
	ss.mu.Lock()
	all := make([]*session, 0, len(ss.m))
	for _, s := range ss.m {
		all = append(all, s)
	}
	ss.mu.Unlock()
	for _, s := range all {
		s.shell.Unmount()
	}
}

// openSession creates and mounts a shell for a viewport of the given size.
func (s *Server) openSession(width, height float64) *session {
	sess := &session{
		id:    uuid.NewString(),
		dirty: make(chan struct{}, 1),
	}
	sess.shell = shell.New(s.catalog, particles.NewRecorder(width, height),
		shell.WithClock(s.opts.Clock),
		shell.WithRand(s.opts.Rand()),
		shell.WithTiming(s.opts.Timing),
		shell.WithParticles(s.opts.Particles),
		shell.WithLogger(s.logger.With("session", sess.id)),
	)
	sess.shell.OnRender(func() {
		select {
		case sess.dirty <- struct{}{}:
		default:
		}
	})
	s.sessions.add(sess)
	sess.shell.Mount()
	return sess
}

func (s *Server) closeSession(sess *session) {
	sess.shell.Unmount()
	s.sessions.remove(sess.id)
}

// stream mounts a shell for the caller and pushes its view as SSE
// "frame" events, at most one per stream interval and only when
// something changed. The shell is unmounted when the client goes away.
func (s *Server) stream(c *gin.Context) {
	width := queryDimension(c, "width", defaultWidth)
	height := queryDimension(c, "height", defaultHeight)

	sess := s.openSession(width, height)
	defer s.closeSession(sess)
	s.logger.Debug("stream opened", "session", sess.id, "width", width, "height", height)

	ticker := s.opts.Clock.NewTicker(s.opts.StreamInterval)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("session", gin.H{"id": sess.id})
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-s.done:
			return false
		case <-ticker.C:
		}
		select {
		case <-sess.dirty:
			c.SSEvent("frame", sess.shell.View())
		default:
		}
		return true
	})
	s.logger.Debug("stream closed", "session", sess.id)
}

func queryDimension(c *gin.Context, key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 || v > maxDimension {
		return fallback
	}
	return v
}

type skillRequest struct {
	Skill string `json:"skill" binding:"required"`
}

type resizeRequest struct {
	Width  float64 `json:"width" binding:"required,gt=0,lte=16384"`
	Height float64 `json:"height" binding:"required,gt=0,lte=16384"`
}

func (s *Server) lookup(c *gin.Context) (*session, bool) {
	sess, err := s.sessions.get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	return sess, true
}

func (s *Server) hover(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	var req skillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !sess.shell.Hover(req.Skill) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown skill"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) leave(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	var req skillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess.shell.Leave(req.Skill)
	c.Status(http.StatusNoContent)
}

func (s *Server) resize(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	var req resizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess.shell.Resize(req.Width, req.Height)
	c.Status(http.StatusNoContent)
}
