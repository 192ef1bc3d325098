// Package storetest holds the behaviour every store.Store implementation must share.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentdesk/ctc-calculator/internal/domain"
	"github.com/talentdesk/ctc-calculator/internal/store"
)

// NewOffer returns a valid offer with no server-assigned fields.
func NewOffer(candidate string) domain.Offer {
	return domain.Offer{
		Candidate:  candidate,
		Role:       "Software Engineer",
		Department: "Platform",
		FiscalYear: "FY 2025-26",
		Compensation: domain.CompensationInput{
			BasicSalary:                 decimal.NewFromInt(1575000),
			HRA:                         decimal.RequireFromString("240000.50"),
			EmployerPensionContribution: decimal.NewFromInt(90000),
		},
	}
}

// Run exercises s through the full offer lifecycle. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("CreateAssignsServerFields", func(t *testing.T) {
		s := newStore(t)
		created, err := s.Create(context.Background(), NewOffer("Asha Rao"))
		require.NoError(t, err)

		assert.NotEmpty(t, created.ID)
		assert.Equal(t, domain.OfferDraft, created.Status)
		assert.False(t, created.CreatedAt.IsZero())
		assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))

		got, err := s.Get(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Candidate, got.Candidate)
		assert.Equal(t, "Platform", got.Department)
		assert.True(t, got.CreatedAt.Equal(created.CreatedAt))
		assert.True(t, got.Compensation.HRA.Equal(decimal.RequireFromString("240000.50")), "amounts keep their precision")
	})

	t.Run("CreateDefaultsFiscalYear", func(t *testing.T) {
		s := newStore(t)
		offer := NewOffer("Vikram Shah")
		offer.FiscalYear = ""
		created, err := s.Create(context.Background(), offer)
		require.NoError(t, err)
		assert.Regexp(t, `^FY \d{4}-\d{2}$`, created.FiscalYear)
	})

	t.Run("CreateRejectsInvalid", func(t *testing.T) {
		s := newStore(t)
		cases := map[string]func(o *domain.Offer){
			"no candidate":    func(o *domain.Offer) { o.Candidate = " " },
			"no role":         func(o *domain.Offer) { o.Role = "" },
			"bad status":      func(o *domain.Offer) { o.Status = "pending" },
			"bad fiscal year": func(o *domain.Offer) { o.FiscalYear = "2025" },
			"negative amount": func(o *domain.Offer) { o.Compensation.Gratuity = decimal.NewFromInt(-1) },
			"bad id":          func(o *domain.Offer) { o.ID = "offer-1" },
		}
		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				offer := NewOffer("Asha Rao")
				mutate(&offer)
				_, err := s.Create(context.Background(), offer)
				assert.ErrorIs(t, err, store.ErrInvalidOffer)
			})
		}
	})

	t.Run("CreateRejectsDuplicateID", func(t *testing.T) {
		s := newStore(t)
		first, err := s.Create(context.Background(), NewOffer("Asha Rao"))
		require.NoError(t, err)

		dup := NewOffer("Someone Else")
		dup.ID = first.ID
		_, err = s.Create(context.Background(), dup)
		assert.ErrorIs(t, err, store.ErrInvalidOffer)
	})

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(context.Background(), "7b0e9d4c-0000-4000-8000-000000000000")
		assert.ErrorIs(t, err, store.ErrOfferNotFound)
	})

	t.Run("ListFiltersAndOrders", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		a, err := s.Create(ctx, NewOffer("Asha Rao"))
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
		b := NewOffer("Bhavna Iyer")
		b.Status = domain.OfferExtended
		_, err = s.Create(ctx, b)
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
		c := NewOffer("Chetan Rao")
		c.FiscalYear = "FY 2026-27"
		_, err = s.Create(ctx, c)
		require.NoError(t, err)

		all, err := s.List(ctx, store.Filter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, a.ID, all[0].ID)
		assert.Equal(t, "Chetan Rao", all[2].Candidate)

		extended, err := s.List(ctx, store.Filter{Status: domain.OfferExtended})
		require.NoError(t, err)
		require.Len(t, extended, 1)
		assert.Equal(t, "Bhavna Iyer", extended[0].Candidate)

		raos, err := s.List(ctx, store.Filter{Candidate: "rao"})
		require.NoError(t, err)
		assert.Len(t, raos, 2)

		nextYear, err := s.List(ctx, store.Filter{FiscalYear: "FY 2026-27"})
		require.NoError(t, err)
		assert.Len(t, nextYear, 1)

		none, err := s.List(ctx, store.Filter{Status: domain.OfferDeclined})
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("UpdateKeepsIdentity", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		created, err := s.Create(ctx, NewOffer("Asha Rao"))
		require.NoError(t, err)

		changes := created
		changes.CreatedAt = time.Time{}
		changes.Status = domain.OfferAccepted
		changes.Compensation.PerformanceBonus = decimal.NewFromInt(200000)
		updated, err := s.Update(ctx, changes)
		require.NoError(t, err)

		assert.Equal(t, created.ID, updated.ID)
		assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
		assert.Equal(t, domain.OfferAccepted, updated.Status)

		got, err := s.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, got.Compensation.PerformanceBonus.Equal(decimal.NewFromInt(200000)))
		assert.Equal(t, domain.OfferAccepted, got.Status)
	})

	t.Run("UpdateMissingAndInvalid", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		missing := NewOffer("Nobody")
		missing.ID = "7b0e9d4c-0000-4000-8000-000000000000"
		_, err := s.Update(ctx, missing)
		assert.ErrorIs(t, err, store.ErrOfferNotFound)

		created, err := s.Create(ctx, NewOffer("Asha Rao"))
		require.NoError(t, err)
		created.Compensation.HRA = decimal.NewFromInt(-5)
		_, err = s.Update(ctx, created)
		assert.ErrorIs(t, err, store.ErrInvalidOffer)

		got, err := s.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, got.Compensation.HRA.IsNegative(), "failed update must not be stored")
	})

	t.Run("Delete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		created, err := s.Create(ctx, NewOffer("Asha Rao"))
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, created.ID))
		_, err = s.Get(ctx, created.ID)
		assert.ErrorIs(t, err, store.ErrOfferNotFound)
		assert.ErrorIs(t, s.Delete(ctx, created.ID), store.ErrOfferNotFound)
	})

	t.Run("SubscribeReceivesEvents", func(t *testing.T) {
		s := newStore(t)
		ctx, cancel := context.WithCancel(context.Background())
		events := s.Subscribe(ctx)

		created, err := s.Create(context.Background(), NewOffer("Asha Rao"))
		require.NoError(t, err)
		created.Status = domain.OfferExtended
		_, err = s.Update(context.Background(), created)
		require.NoError(t, err)
		require.NoError(t, s.Delete(context.Background(), created.ID))

		want := []store.EventType{store.EventOfferCreated, store.EventOfferUpdated, store.EventOfferDeleted}
		for _, typ := range want {
			select {
			case e := <-events:
				assert.Equal(t, typ, e.Type)
				assert.Equal(t, created.ID, e.Offer.ID)
			case <-time.After(time.Second):
				t.Fatalf("timed out waiting for %s", typ)
			}
		}

		cancel()
		assert.Eventually(t, func() bool {
			select {
			case _, ok := <-events:
				return !ok
			default:
				return false
			}
		}, time.Second, 5*time.Millisecond, "channel closes after cancel")
	})

	t.Run("EventsFollowCommitOrder", func(t *testing.T) {
		s := newStore(t)
		created, err := s.Create(context.Background(), NewOffer("Asha Rao"))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		events := s.Subscribe(ctx)

		const writers = 12
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				change := created
				change.Department = fmt.Sprintf("Team %d", i)
				_, err := s.Update(context.Background(), change)
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		var last store.Event
		for i := 0; i < writers; i++ {
			select {
			case last = <-events:
			case <-time.After(time.Second):
				t.Fatalf("timed out after %d of %d events", i, writers)
			}
		}
		final, err := s.Get(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, final.Department, last.Offer.Department, "last event must carry the committed state")
	})

	t.Run("NoEventOnFailedWrite", func(t *testing.T) {
		s := newStore(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		events := s.Subscribe(ctx)

		bad := NewOffer("")
		_, err := s.Create(context.Background(), bad)
		require.True(t, errors.Is(err, store.ErrInvalidOffer))

		select {
		case e := <-events:
			t.Fatalf("unexpected event %s", e.Type)
		case <-time.After(20 * time.Millisecond):
		}
	})
}
