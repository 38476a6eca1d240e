package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekstay/internal/domain/listings"
	domainproposal "weekstay/internal/domain/proposal"
	"weekstay/internal/domain/schedule"
	"weekstay/internal/domain/shared/money"
	"weekstay/internal/infra/storage/memory"
)

func testProposal(t *testing.T, id string) *domainproposal.Proposal {
	t.Helper()
	pattern, err := schedule.Resolve(schedule.NewWeekdaySet(1, 2, 3))
	require.NoError(t, err)
	p, err := domainproposal.NewProposal(domainproposal.CreateParams{
		ID:        domainproposal.ProposalID(id),
		ListingID: "lst-1",
		GuestID:   "guest-1",
		Terms: domainproposal.ReservationTerms{
			MoveIn:    time.Date(2026, time.April, 6, 0, 0, 0, 0, time.UTC),
			Pattern:   pattern,
			SpanWeeks: 4,
		},
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	return p
}

func TestProposalRepositoryVersioning(t *testing.T) {
	repo := memory.NewProposalRepository()
	ctx := context.Background()

	p := testProposal(t, "prop-1")
	require.NoError(t, repo.Save(ctx, p))
	assert.Equal(t, int64(1), p.Version)

	loaded, err := repo.ByID(ctx, "prop-1")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, loaded))

	// stale copy must not overwrite the newer version
	err = repo.Save(ctx, p)
	assert.Error(t, err)
}

func TestProposalRepositoryListsByGuestAndListing(t *testing.T) {
	repo := memory.NewProposalRepository()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, testProposal(t, "prop-a")))
	require.NoError(t, repo.Save(ctx, testProposal(t, "prop-b")))

	byGuest, err := repo.ListByGuest(ctx, "guest-1")
	require.NoError(t, err)
	assert.Len(t, byGuest, 2)

	byListing, err := repo.ListByListing(ctx, "lst-1")
	require.NoError(t, err)
	assert.Len(t, byListing, 2)

	none, err := repo.ListByGuest(ctx, "guest-2")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListingRepositoryNotFound(t *testing.T) {
	repo := memory.NewListingRepository()
	_, err := repo.ByID(context.Background(), "missing")
	assert.ErrorIs(t, err, listings.ErrListingNotFound)
}

func TestListingRepositorySaveAndReload(t *testing.T) {
	repo := memory.NewListingRepository()
	ctx := context.Background()
	now := time.Now()

	listing, err := listings.NewListing(listings.CreateParams{
		ID:       "lst-9",
		Host:     "host-9",
		Title:    "Loft",
		City:     "Chicago",
		Baseline: money.Must(9900, "USD"),
		PerNights: map[int]money.Money{
			2: money.Must(12000, "USD"),
		},
		CreatedAt: now,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, listing))

	got, err := repo.ByID(ctx, "lst-9")
	require.NoError(t, err)
	assert.Equal(t, listing.Title, got.Title)
	assert.Equal(t, money.Must(12000, "USD"), got.Rates.NightlyRate(2))
	assert.Equal(t, money.Must(9900, "USD"), got.Rates.NightlyRate(5))
}

func TestProposalRepositoryReturnsIndependentCopies(t *testing.T) {
	repo := memory.NewProposalRepository()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, testProposal(t, "prop-1")))

	first, err := repo.ByID(ctx, "prop-1")
	require.NoError(t, err)
	// mutating a loaded copy in place must not leak into the store
	first.Submitted.Pattern.Nights[0] = 6
	first.Submitted.HouseRules = append(first.Submitted.HouseRules, "no parties")

	second, err := repo.ByID(ctx, "prop-1")
	require.NoError(t, err)
	assert.Equal(t, []schedule.Weekday{1, 2, 3}, second.Submitted.Pattern.Nights)
	assert.Empty(t, second.Submitted.HouseRules)
}

func TestListingRepositoryReturnsIndependentCopies(t *testing.T) {
	repo := memory.NewListingRepository()
	ctx := context.Background()
	now := time.Now()

	listing, err := listings.NewListing(listings.CreateParams{
		ID:        "lst-1",
		Host:      "host-1",
		Title:     "Room",
		City:      "Boston",
		Rules:     []string{"no smoking"},
		Baseline:  money.Must(10000, "USD"),
		PerNights: map[int]money.Money{2: money.Must(12000, "USD")},
		CreatedAt: now,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, listing))

	first, err := repo.ByID(ctx, "lst-1")
	require.NoError(t, err)
	first.HouseRules[0] = "changed"
	first.Rates.PerNights[2] = money.Must(1, "USD")

	second, err := repo.ByID(ctx, "lst-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"no smoking"}, second.HouseRules)
	assert.Equal(t, money.Must(12000, "USD"), second.Rates.PerNights[2])
}
