/*
Package sqlite provides a SQLite-backed implementation of store.Store.

KEY TABLES:

	offers: one row per offer; the compensation input is kept as JSON with
	        amounts encoded as decimal strings so no precision is lost

WAL MODE:

	The database is opened with WAL (Write-Ahead Logging) so readers do not
	block the single writer.

USAGE:

	st, err := sqlite.New("./data/offers.db")
	if err != nil {
	    log.Fatal(err)
	}
	defer st.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/talentdesk/ctc-calculator/internal/domain"
	"github.com/talentdesk/ctc-calculator/internal/store"
)

// Store implements store.Store using SQLite.
type Store struct {
	db   *sql.DB
	mu   sync.RWMutex
	feed *store.Feed
	now  func() time.Time
}

var _ store.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, feed: store.NewFeed(), now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close ends all subscriptions and closes the database connection.
func (s *Store) Close() error {
	s.feed.Close()
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS offers (
		id TEXT PRIMARY KEY,
		candidate TEXT NOT NULL,
		role TEXT NOT NULL,
		department TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		fiscal_year TEXT NOT NULL,
		compensation_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_offers_status ON offers(status);
	CREATE INDEX IF NOT EXISTS idx_offers_fiscal_year ON offers(fiscal_year);
	`
	_, err := s.db.Exec(schema)
	return err
}

const offerColumns = "id, candidate, role, department, status, fiscal_year, compensation_json, created_at, updated_at"

func (s *Store) Create(ctx context.Context, offer domain.Offer) (domain.Offer, error) {
	prepared, err := store.PrepareNew(offer, s.now())
	if err != nil {
		return domain.Offer{}, err
	}
	comp, err := json.Marshal(prepared.Compensation)
	if err != nil {
		return domain.Offer{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO offers ("+offerColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		prepared.ID, prepared.Candidate, prepared.Role, prepared.Department, string(prepared.Status),
		prepared.FiscalYear, string(comp),
		prepared.CreatedAt.Format(time.RFC3339Nano), prepared.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return domain.Offer{}, fmt.Errorf("%w: duplicate id %s", store.ErrInvalidOffer, prepared.ID)
		}
		return domain.Offer{}, fmt.Errorf("insert offer: %w", err)
	}

	s.feed.Publish(store.Event{Type: store.EventOfferCreated, Offer: prepared})
	return prepared, nil
}

func (s *Store) Get(ctx context.Context, id string) (domain.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(ctx, id)
}

func (s *Store) get(ctx context.Context, id string) (domain.Offer, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+offerColumns+" FROM offers WHERE id = ?", id)
	offer, err := scanOffer(row)
	if err == sql.ErrNoRows {
		return domain.Offer{}, store.ErrOfferNotFound
	}
	return offer, err
}

// List returns matching offers ordered by creation time, then ID.
func (s *Store) List(ctx context.Context, filter store.Filter) ([]domain.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query, args := listQuery(filter)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Offer{}
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		// candidate is a case-insensitive substring match, which LIKE only does for ASCII
		if filter.Matches(o) {
			out = append(out, o)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// listQuery selects offers by the indexed status and fiscal year columns.
func listQuery(filter store.Filter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.FiscalYear != "" {
		where = append(where, "fiscal_year = ?")
		args = append(args, filter.FiscalYear)
	}
	query := "SELECT " + offerColumns + " FROM offers"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	return query, args
}

func (s *Store) Update(ctx context.Context, offer domain.Offer) (domain.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, err := s.get(ctx, offer.ID)
	if err != nil {
		return domain.Offer{}, err
	}
	updated, err := store.ApplyUpdate(existing, offer, s.now())
	if err != nil {
		return domain.Offer{}, err
	}
	comp, err := json.Marshal(updated.Compensation)
	if err != nil {
		return domain.Offer{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE offers SET candidate = ?, role = ?, department = ?, status = ?, fiscal_year = ?,
			compensation_json = ?, updated_at = ? WHERE id = ?`,
		updated.Candidate, updated.Role, updated.Department, string(updated.Status), updated.FiscalYear,
		string(comp), updated.UpdatedAt.Format(time.RFC3339Nano), updated.ID,
	)
	if err != nil {
		return domain.Offer{}, fmt.Errorf("update offer: %w", err)
	}

	s.feed.Publish(store.Event{Type: store.EventOfferUpdated, Offer: updated})
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, "DELETE FROM offers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}

	s.feed.Publish(store.Event{Type: store.EventOfferDeleted, Offer: existing})
	return nil
}

func (s *Store) Subscribe(ctx context.Context) <-chan store.Event {
	return s.feed.Subscribe(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOffer(row rowScanner) (domain.Offer, error) {
	var (
		o                    domain.Offer
		status, comp         string
		createdAt, updatedAt string
	)
	if err := row.Scan(&o.ID, &o.Candidate, &o.Role, &o.Department, &status, &o.FiscalYear,
		&comp, &createdAt, &updatedAt); err != nil {
		return domain.Offer{}, err
	}
	o.Status = domain.OfferStatus(status)
	if err := json.Unmarshal([]byte(comp), &o.Compensation); err != nil {
		return domain.Offer{}, fmt.Errorf("decode compensation for offer %s: %w", o.ID, err)
	}
	var err error
	if o.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return domain.Offer{}, fmt.Errorf("parse created_at for offer %s: %w", o.ID, err)
	}
	if o.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return domain.Offer{}, fmt.Errorf("parse updated_at for offer %s: %w", o.ID, err)
	}
	return o, nil
}
