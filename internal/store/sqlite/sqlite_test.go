package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentdesk/ctc-calculator/internal/domain"
	"github.com/talentdesk/ctc-calculator/internal/store"
	"github.com/talentdesk/ctc-calculator/internal/store/storetest"
)

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := New(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offers.db")
	ctx := context.Background()

	s, err := New(path)
	require.NoError(t, err)
	created, err := s.Create(ctx, storetest.NewOffer("Asha Rao"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Candidate, got.Candidate)
	assert.True(t, got.Compensation.BasicSalary.Equal(created.Compensation.BasicSalary))
	assert.True(t, got.UpdatedAt.Equal(created.UpdatedAt))
}

func TestListQueryFiltersInSQL(t *testing.T) {
	query, args := listQuery(store.Filter{})
	assert.NotContains(t, query, "WHERE")
	assert.Empty(t, args)

	query, args = listQuery(store.Filter{Status: domain.OfferExtended, FiscalYear: "FY 2025-26", Candidate: "asha"})
	assert.Contains(t, query, "WHERE status = ? AND fiscal_year = ?")
	assert.Equal(t, []any{"extended", "FY 2025-26"}, args)
}

func TestListUsesIndexes(t *testing.T) {
	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	for filter, index := range map[store.Filter]string{
		{Status: domain.OfferDraft}:  "idx_offers_status",
		{FiscalYear: "FY 2025-26"}: "idx_offers_fiscal_year",
	} {
		query, args := listQuery(filter)
		rows, err := s.db.Query("EXPLAIN QUERY PLAN "+query, args...)
		require.NoError(t, err)

		var plan []string
		for rows.Next() {
			var id, parent, notUsed int
			var detail string
			require.NoError(t, rows.Scan(&id, &parent, &notUsed, &detail))
			plan = append(plan, detail)
		}
		require.NoError(t, rows.Err())
		rows.Close()
		assert.Contains(t, strings.Join(plan, "\n"), index)
	}
}
