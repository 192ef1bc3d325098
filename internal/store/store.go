// Package store persists candidate offers and fans out change events.
//
// Offers hold only the compensation input. Results are recomputed by the
// calculation engine whenever an offer is read for display, so a stored
// offer never carries a stale tax figure.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/talentdesk/ctc-calculator/internal/calculation"
	"github.com/talentdesk/ctc-calculator/internal/domain"
	"github.com/talentdesk/ctc-calculator/pkg/dateutil"
)

var (
	ErrOfferNotFound = errors.New("offer not found")
	ErrInvalidOffer  = errors.New("invalid offer")
)

// EventType names a change to the offer set
type EventType string

const (
	EventOfferCreated EventType = "offer_created"
	EventOfferUpdated EventType = "offer_updated"
	EventOfferDeleted EventType = "offer_deleted"
)

// Event is delivered to subscribers after a write commits
type Event struct {
	Type  EventType    `json:"type"`
	Offer domain.Offer `json:"offer"`
}

// Filter narrows List results. Zero fields match everything.
type Filter struct {
	Status     domain.OfferStatus
	FiscalYear string
	Candidate  string // case-insensitive substring
}

// Matches reports whether o passes every set field of f
func (f Filter) Matches(o domain.Offer) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.FiscalYear != "" && o.FiscalYear != f.FiscalYear {
		return false
	}
	if f.Candidate != "" && !strings.Contains(strings.ToLower(o.Candidate), strings.ToLower(f.Candidate)) {
		return false
	}
	return true
}

// Store is the persistence interface for offers.
type Store interface {
	Create(ctx context.Context, offer domain.Offer) (domain.Offer, error)
	Get(ctx context.Context, id string) (domain.Offer, error)
	List(ctx context.Context, filter Filter) ([]domain.Offer, error)
	Update(ctx context.Context, offer domain.Offer) (domain.Offer, error)
	Delete(ctx context.Context, id string) error
	// Subscribe returns a channel of events that is closed when ctx is done.
	Subscribe(ctx context.Context) <-chan Event
	Close() error
}

// PrepareNew fills the server-assigned fields of a new offer and validates it.
func PrepareNew(offer domain.Offer, now time.Time) (domain.Offer, error) {
	if offer.ID == "" {
		offer.ID = uuid.NewString()
	} else if _, err := uuid.Parse(offer.ID); err != nil {
		return domain.Offer{}, fmt.Errorf("%w: id must be a UUID", ErrInvalidOffer)
	}
	if offer.Status == "" {
		offer.Status = domain.OfferDraft
	}
	if offer.FiscalYear == "" {
		offer.FiscalYear = dateutil.FiscalYearLabel(now)
	}
	offer.CreatedAt = now.UTC()
	offer.UpdatedAt = offer.CreatedAt
	if err := ValidateOffer(offer); err != nil {
		return domain.Offer{}, err
	}
	return offer, nil
}

// ApplyUpdate merges changes into existing. Identity and creation time are kept;
// an empty status or fiscal year leaves the stored value in place.
func ApplyUpdate(existing, changes domain.Offer, now time.Time) (domain.Offer, error) {
	updated := changes
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if updated.Status == "" {
		updated.Status = existing.Status
	}
	if updated.FiscalYear == "" {
		updated.FiscalYear = existing.FiscalYear
	}
	updated.UpdatedAt = now.UTC()
	if err := ValidateOffer(updated); err != nil {
		return domain.Offer{}, err
	}
	return updated, nil
}

// ValidateOffer checks the fields every stored offer must have
func ValidateOffer(offer domain.Offer) error {
	if strings.TrimSpace(offer.Candidate) == "" {
		return fmt.Errorf("%w: candidate is required", ErrInvalidOffer)
	}
	if strings.TrimSpace(offer.Role) == "" {
		return fmt.Errorf("%w: role is required", ErrInvalidOffer)
	}
	if !offer.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidOffer, offer.Status)
	}
	if _, err := dateutil.ParseFiscalYearLabel(offer.FiscalYear); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOffer, err)
	}
	if err := calculation.ValidateInput(offer.Compensation); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOffer, err)
	}
	return nil
}
