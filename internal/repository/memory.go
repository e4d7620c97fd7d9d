package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// memoryGame - in-process GameRepository with the same JSON encoding and expiry as the redis one.
// Expired games are swept on write, at most once per ttl.
type memoryGame struct {
	mu        sync.Mutex
	games     map[string]memoryEntry
	ttl       time.Duration
	now       func() time.Time
	nextSweep time.Time
}

// NewMemoryGameRepository - ttl must be positive.
func NewMemoryGameRepository(ttl time.Duration) GameRepository {
	return newMemoryGameRepository(ttl, time.Now)
}

func newMemoryGameRepository(ttl time.Duration, now func() time.Time) *memoryGame {
	return &memoryGame{
		games: make(map[string]memoryEntry),
		ttl:   ttl,
		now:   now,
	}
}

func (that *memoryGame) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	now := that.now()

	that.mu.Lock()
	defer that.mu.Unlock()

	if !now.Before(that.nextSweep) {
		that.sweep(now)
		that.nextSweep = now.Add(that.ttl)
	}

	that.games[game.ID] = memoryEntry{
		data:      gameJSON,
		expiresAt: now.Add(that.ttl),
	}

	return nil
}

func (that *memoryGame) GetByID(_ context.Context, id string) (*entity.Game, error) {
	entry, ok := that.lookup(id)
	if !ok {
		return nil, apperror.ErrGameNotFound
	}

	var existingGame entity.Game
	if err := json.Unmarshal(entry.data, &existingGame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

// lookup - drops the entry if it has expired.
func (that *memoryGame) lookup(id string) (memoryEntry, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.games[id]
	if !ok {
		return memoryEntry{}, false
	}

	if entry.expired(that.now()) {
		delete(that.games, id)
		return memoryEntry{}, false
	}

	return entry, true
}

// sweep - drops every expired game. The caller holds mu.
func (that *memoryGame) sweep(now time.Time) {
	for id, entry := range that.games {
		if entry.expired(now) {
			delete(that.games, id)
		}
	}
}

func (that memoryEntry) expired(now time.Time) bool {
	return !now.Before(that.expiresAt)
}
