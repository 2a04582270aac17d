package main

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"
)

const defaultSessionID = "default"

// SessionStore maps session IDs to their games. Controllers are created on
// first use and never shared between sessions.
type SessionStore struct {
	mu          sync.Mutex
	controllers map[string]*GameController
	cfg         Config
	logger      zerolog.Logger
	onStatus    func(session string, status StatusSnapshot)
}

func NewSessionStore(cfg Config, logger zerolog.Logger) *SessionStore {
	return &SessionStore{
		controllers: make(map[string]*GameController),
		cfg:         cfg,
		logger:      logger,
	}
}

// SetStatusPublisher applies to controllers created afterwards too.
func (s *SessionStore) SetStatusPublisher(publish func(session string, status StatusSnapshot)) {
	s.mu.Lock()
	s.onStatus = publish
	controllers := s.snapshotLocked()
	s.mu.Unlock()
	for id, controller := range controllers {
		controller.SetPublisher(s.publisherFor(id, publish))
	}
}

func (s *SessionStore) Get(id string) *GameController {
	if id == "" {
		id = defaultSessionID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if controller, ok := s.controllers[id]; ok {
		return controller
	}
	controller := s.newControllerLocked(id)
	s.logger.Debug().Str("session", id).Msg("session created")
	return controller
}

// Configure replaces the config used for sessions created from now on.
func (s *SessionStore) Configure(cfg Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// Config is the config new sessions are created with.
func (s *SessionStore) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.controllers)
}

// Snapshot returns a copy of the session map safe to range over unlocked.
func (s *SessionStore) Snapshot() map[string]*GameController {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *SessionStore) IDs() []string {
	controllers := s.Snapshot()
	ids := make([]string, 0, len(controllers))
	for id := range controllers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// StopAll waits for searches still running past their deadline.
func (s *SessionStore) StopAll() {
	for _, controller := range s.Snapshot() {
		controller.Stop()
	}
}

func (s *SessionStore) snapshotLocked() map[string]*GameController {
	result := make(map[string]*GameController, len(s.controllers))
	maps.Copy(result, s.controllers)
	return result
}

func (s *SessionStore) newControllerLocked(id string) *GameController {
	logger := s.logger.With().Str("session", id).Logger()
	controller := NewGameController(DefaultGameSettings(s.cfg), s.cfg, logger)
	if s.onStatus != nil {
		controller.SetPublisher(s.publisherFor(id, s.onStatus))
	}
	s.controllers[id] = controller
	return controller
}

func (s *SessionStore) publisherFor(id string, publish func(string, StatusSnapshot)) func(StatusSnapshot) {
	if publish == nil {
		return nil
	}
	return func(status StatusSnapshot) {
		publish(id, status)
	}
}
