// Package words counts occurrences of tracked words in chat messages.
package words

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"pkg.twizy.sh/konikotaka/internal/storage/model"
)

const maxWordLen = 255

var (
	ErrBadWord        = errors.New("word must be between 1 and 255 characters")
	ErrAlreadyTracked = errors.New("word is already tracked")
	ErrNotTracked     = errors.New("word is not tracked")
)

// Store is the persistence surface for tracked words.
type Store interface {
	CreateWord(ctx context.Context, w *model.Word) (bool, error)
	DeleteWord(ctx context.Context, word string) (bool, error)
	IncrementWord(ctx context.Context, word string) (int64, error)
	AllWords(ctx context.Context) ([]*model.Word, error)
}

// Hit is a tracked word found in a message, with its updated total.
type Hit struct {
	Word  string
	Count int64
}

// Service keeps the tracked word list cached so that scanning a message
// does not hit the database unless a word actually matched.
type Service struct {
	logger *zap.SugaredLogger
	store  Store

	mu    sync.RWMutex
	words []string
}

func NewService(logger *zap.SugaredLogger, store Store) *Service {
	return &Service{logger: logger, store: store}
}

// Refresh reloads the cached word list.
func (s *Service) Refresh(ctx context.Context) error {
	all, err := s.store.AllWords(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tracked words: %w", err)
	}

	words := make([]string, len(all))
	for i, w := range all {
		words[i] = w.Word
	}

	s.mu.Lock()
	s.words = words
	s.mu.Unlock()
	return nil
}

// RunRefresh reloads the cache on an interval until ctx is cancelled, so
// that a restarted tracker or manual database edit is eventually picked up.
func (s *Service) RunRefresh(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.Refresh(ctx); err != nil {
				s.logger.Errorf("Failed to refresh tracked words: %v", err)
			}
		}
	}
}

// Track starts counting a word. The word is matched case-insensitively,
// so it is stored lowercased.
func (s *Service) Track(ctx context.Context, word string, requesterID int64) error {
	word = normalize(word)
	if word == "" || len(word) > maxWordLen {
		return ErrBadWord
	}

	created, err := s.store.CreateWord(ctx, &model.Word{Word: word, DiscordID: requesterID})
	if err != nil {
		return fmt.Errorf("failed to track word: %w", err)
	}
	if !created {
		return ErrAlreadyTracked
	}

	s.mu.Lock()
	s.words = append(s.words, word)
	s.mu.Unlock()
	return nil
}

// Untrack stops counting a word and forgets its total.
func (s *Service) Untrack(ctx context.Context, word string) error {
	word = normalize(word)
	deleted, err := s.store.DeleteWord(ctx, word)
	if err != nil {
		return fmt.Errorf("failed to untrack word: %w", err)
	}
	if !deleted {
		return ErrNotTracked
	}

	s.mu.Lock()
	for i, w := range s.words {
		if w == word {
			s.words = append(s.words[:i], s.words[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// Scan bumps the counter of every tracked word contained in content and
// returns the updated totals. A word may have been untracked since the
// cache was last refreshed; those matches are dropped silently.
func (s *Service) Scan(ctx context.Context, content string) ([]Hit, error) {
	s.mu.RLock()
	words := s.words
	s.mu.RUnlock()
	if len(words) == 0 {
		return nil, nil
	}

	content = strings.ToLower(content)
	var hits []Hit
	for _, w := range words {
		if !strings.Contains(content, w) {
			continue
		}

		count, err := s.store.IncrementWord(ctx, w)
		if err != nil {
			return hits, fmt.Errorf("failed to count word %q: %w", w, err)
		}
		if count == 0 {
			continue
		}

		hits = append(hits, Hit{Word: w, Count: count})
	}

	return hits, nil
}

// All returns every tracked word with its total, highest first.
func (s *Service) All(ctx context.Context) ([]*model.Word, error) {
	return s.store.AllWords(ctx)
}

func normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
