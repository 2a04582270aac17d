package main

import (
	"encoding/gob"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var dockerDataDir = "/data"

const sessionSnapshotVersion = 1

type persistedGame struct {
	Session  string
	Pieces   []Piece
	ToMove   Side
	Status   GameStatus
	Winner   Side
	Captured []Piece
	Settings GameSettings
	History  []HistoryEntry
}

type sessionPersistenceSnapshot struct {
	Version int
	Games   []persistedGame
}

func (g *Game) export(session string) persistedGame {
	return persistedGame{
		Session:  session,
		Pieces:   append([]Piece(nil), g.state.Board.cells[:]...),
		ToMove:   g.state.ToMove,
		Status:   g.state.Status,
		Winner:   g.state.Winner,
		Captured: append([]Piece(nil), g.state.Captured...),
		Settings: g.settings,
		History:  g.history.All(),
	}
}

func (g *Game) restore(saved persistedGame) error {
	if len(saved.Pieces) != boardSize*boardSize {
		return errors.Errorf("session %q: expected %d squares, got %d", saved.Session, boardSize*boardSize, len(saved.Pieces))
	}
	var board Board
	copy(board.cells[:], saved.Pieces)
	if err := board.Validate(); err != nil {
		return errors.Wrapf(err, "session %q", saved.Session)
	}
	g.settings = saved.Settings.normalized()
	g.state = GameState{
		Board:    board,
		ToMove:   saved.ToMove,
		Status:   saved.Status,
		Winner:   saved.Winner,
		Captured: append([]Piece(nil), saved.Captured...),
	}
	g.history = MoveHistory{entries: append([]HistoryEntry(nil), saved.History...)}
	g.turnStart = time.Now()
	g.revision++
	return nil
}

func (gc *GameController) export(session string) persistedGame {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.export(session)
}

func (gc *GameController) restore(saved persistedGame) error {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.restore(saved)
}

// persistSessions writes every session to cfg.PersistPath. An empty path
// disables persistence.
func persistSessions(cfg Config, store *SessionStore, logger zerolog.Logger) error {
	if cfg.PersistPath == "" {
		logger.Info().Msg("session persistence disabled")
		return nil
	}
	snapshot := sessionPersistenceSnapshot{Version: sessionSnapshotVersion}
	controllers := store.Snapshot()
	for _, id := range store.IDs() {
		snapshot.Games = append(snapshot.Games, controllers[id].export(id))
	}

	path := resolvePersistPath(cfg.PersistPath)
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create persistence directory %s", dir)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := writeSnapshot(file, &snapshot); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	logger.Info().Str("path", path).Int("sessions", len(snapshot.Games)).Msg("stored sessions")
	return nil
}

// writeSnapshot encodes the snapshot and closes w. A failed close is
// reported since buffered data may not have reached disk.
func writeSnapshot(w io.WriteCloser, snapshot *sessionPersistenceSnapshot) error {
	if err := gob.NewEncoder(w).Encode(snapshot); err != nil {
		w.Close()
		return errors.Wrap(err, "encode")
	}
	return errors.Wrap(w.Close(), "close")
}

// loadPersistedSessions restores what persistSessions wrote and returns how
// many sessions came back. Invalid entries are skipped.
func loadPersistedSessions(cfg Config, store *SessionStore, logger zerolog.Logger) int {
	if cfg.PersistPath == "" {
		return 0
	}
	path := resolvePersistPath(cfg.PersistPath)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info().Str("path", path).Msg("no persisted sessions")
		} else {
			logger.Warn().Err(err).Str("path", path).Msg("failed to open persisted sessions")
		}
		return 0
	}
	defer file.Close()

	var snapshot sessionPersistenceSnapshot
	if err := gob.NewDecoder(file).Decode(&snapshot); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("failed to decode persisted sessions")
		return 0
	}
	if snapshot.Version != sessionSnapshotVersion {
		logger.Warn().Int("version", snapshot.Version).Msg("persisted sessions have an unknown version; skipping")
		return 0
	}
	restored := 0
	for _, saved := range snapshot.Games {
		if err := store.Get(saved.Session).restore(saved); err != nil {
			logger.Warn().Err(err).Str("session", saved.Session).Msg("skipping persisted session")
			continue
		}
		restored++
	}
	logger.Info().Str("path", path).Int("sessions", restored).Int("stored", len(snapshot.Games)).Msg("restored sessions")
	return restored
}

func resolvePersistPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if stat, err := os.Stat(dockerDataDir); err == nil && stat.IsDir() {
		return filepath.Join(dockerDataDir, path)
	}
	return path
}
