// Package memory provides an in-memory offer store for tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/talentdesk/ctc-calculator/internal/domain"
	"github.com/talentdesk/ctc-calculator/internal/store"
)

// Store keeps offers in a map guarded by a RWMutex.
type Store struct {
	mu     sync.RWMutex
	offers map[string]domain.Offer
	feed   *store.Feed
	now    func() time.Time
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		offers: make(map[string]domain.Offer),
		feed:   store.NewFeed(),
		now:    time.Now,
	}
}

func (s *Store) Create(_ context.Context, offer domain.Offer) (domain.Offer, error) {
	prepared, err := store.PrepareNew(offer, s.now())
	if err != nil {
		return domain.Offer{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.offers[prepared.ID]; exists {
		return domain.Offer{}, fmt.Errorf("%w: duplicate id %s", store.ErrInvalidOffer, prepared.ID)
	}
	s.offers[prepared.ID] = prepared

	// events leave in commit order
	s.feed.Publish(store.Event{Type: store.EventOfferCreated, Offer: prepared})
	return prepared, nil
}

func (s *Store) Get(_ context.Context, id string) (domain.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	offer, ok := s.offers[id]
	if !ok {
		return domain.Offer{}, store.ErrOfferNotFound
	}
	return offer, nil
}

// List returns matching offers ordered by creation time, then ID.
func (s *Store) List(_ context.Context, filter store.Filter) ([]domain.Offer, error) {
	s.mu.RLock()
	out := make([]domain.Offer, 0, len(s.offers))
	for _, o := range s.offers {
		if filter.Matches(o) {
			out = append(out, o)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) Update(_ context.Context, offer domain.Offer) (domain.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.offers[offer.ID]
	if !ok {
		return domain.Offer{}, store.ErrOfferNotFound
	}
	updated, err := store.ApplyUpdate(existing, offer, s.now())
	if err != nil {
		return domain.Offer{}, err
	}
	s.offers[updated.ID] = updated
	s.feed.Publish(store.Event{Type: store.EventOfferUpdated, Offer: updated})
	return updated, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.offers[id]
	if !ok {
		return store.ErrOfferNotFound
	}
	delete(s.offers, id)
	s.feed.Publish(store.Event{Type: store.EventOfferDeleted, Offer: existing})
	return nil
}

func (s *Store) Subscribe(ctx context.Context) <-chan store.Event {
	return s.feed.Subscribe(ctx)
}

// Close ends all subscriptions. The stored offers are kept.
func (s *Store) Close() error {
	s.feed.Close()
	return nil
}
