package coordinator

import (
	"errors"
	"sync"
	"time"

	"github.com/lixenwraith/cubecue/audio"
	"github.com/lixenwraith/cubecue/game"
)

// SessionService hands out coordinators bound to the audio service's player
// Stopping the service stops every session it created
type SessionService struct {
	audio *audio.AudioService

	dict     game.Dictionary
	interval time.Duration

	mu       sync.Mutex
	sessions []*Coordinator
}

// NewSessionService creates a session service playing through a
func NewSessionService(a *audio.AudioService) *SessionService {
	return &SessionService{audio: a}
}

// Name implements Service
func (s *SessionService) Name() string {
	return "session"
}

// Dependencies implements Service
func (s *SessionService) Dependencies() []string {
	return []string{s.audio.Name()}
}

// Init implements Service
// args[0]: game.Dictionary - required
// args[1]: time.Duration - shake interval (optional)
func (s *SessionService) Init(args ...any) error {
	if len(args) == 0 {
		return errors.New("session service: dictionary required")
	}
	dict, ok := args[0].(game.Dictionary)
	if !ok || dict == nil {
		return errors.New("session service: args[0] must be a game.Dictionary")
	}
	s.dict = dict

	if len(args) > 1 {
		if d, ok := args[1].(time.Duration); ok {
			s.interval = d
		}
	}
	return nil
}

// Start implements Service
func (s *SessionService) Start() error {
	return nil
}

// NewSession creates a coordinator for one game screen
// Audio that failed to start yields a silent session, never an error
func (s *SessionService) NewSession(opts ...func(*Config)) (*Coordinator, error) {
	cfg := Config{
		Player:        s.audio.Player(),
		Dictionary:    s.dict,
		ShakeInterval: s.interval,
		Selection:     SelectionFeedback{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	c, err := New(cfg)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions = append(s.sessions, c)
	s.mu.Unlock()
	return c, nil
}

// Stop implements Service
func (s *SessionService) Stop() error {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = nil
	s.mu.Unlock()

	for _, c := range sessions {
		c.Stop()
	}
	return nil
}
