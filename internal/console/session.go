package console

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// SessionCookie names the cookie carrying the workspace id.
const SessionCookie = "exstem_console_sid"

const workspaceKey = "console.workspace"

type entry struct {
	ws       *Workspace
	lastSeen time.Time
}

// Store keeps one Workspace per browser session in memory. Idle
// workspaces are dropped by a cron job once they exceed the TTL.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	create   func() *Workspace
	now      func() time.Time
	cron     *cron.Cron
	log      zerolog.Logger
}

// NewStore builds a store that calls create for each new session.
func NewStore(ttl time.Duration, create func() *Workspace, log zerolog.Logger) *Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		create:   create,
		now:      time.Now,
		log:      log.With().Str("component", "session_store").Logger(),
	}
}

// Start schedules the idle sweep every minute.
func (s *Store) Start() error {
	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc("@every 1m", func() {
		if n := s.Sweep(); n > 0 {
			s.log.Debug().Int("expired", n).Msg("Swept idle console sessions")
		}
	}); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	s.log.Info().Dur("ttl", s.ttl).Msg("Session sweeper started")
	return nil
}

// Stop halts the sweeper and waits for a running sweep to finish.
func (s *Store) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// Sweep drops sessions idle for longer than the TTL and returns how many.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Len is the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Acquire returns the workspace for id, creating a fresh session when
// id is unknown or empty. The returned id is the one to set on the cookie.
func (s *Store) Acquire(id string) (string, *Workspace) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.sessions[id]; ok {
		e.lastSeen = s.now()
		return id, e.ws
	}
	id = uuid.NewString()
	ws := s.create()
	s.sessions[id] = &entry{ws: ws, lastSeen: s.now()}
	return id, ws
}

// Middleware attaches the session workspace to the request. The cookie is
// reissued on every request so its lifetime slides with the idle TTL.
func (s *Store) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(SessionCookie)
		id, ws := s.Acquire(cookie)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, int(s.ttl.Seconds()), "/", "", false, true)
		c.Set(workspaceKey, ws)
		c.Next()
	}
}

func workspaceFrom(c *gin.Context) *Workspace {
	return c.MustGet(workspaceKey).(*Workspace)
}
