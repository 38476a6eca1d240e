package listings

import (
	"context"
	"errors"
	"strings"
	"time"

	"weekstay/internal/domain/pricing"
	"weekstay/internal/domain/shared/money"
)

var (
	ErrTitleRequired   = errors.New("listings: title is required")
	ErrHostRequired    = errors.New("listings: host id is required")
	ErrBaselineRate    = errors.New("listings: baseline nightly rate must be positive")
	ErrInvalidState    = errors.New("listings: invalid state transition")
	ErrListingNotFound = errors.New("listings: not found")
)

type ListingID string
type HostID string

type ListingState string

const (
	ListingDraft     ListingState = "DRAFT"
	ListingActive    ListingState = "ACTIVE"
	ListingSuspended ListingState = "SUSPENDED"
)

// Listing is the rentable unit a guest proposes a weekly pattern against.
// Only the fields the proposal flow needs live here; media, geo and search
// belong to external services.
type Listing struct {
	ID         ListingID
	Host       HostID
	Title      string
	City       string
	HouseRules []string
	Rates      pricing.RateTable
	State      ListingState
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type CreateParams struct {
	ID        ListingID
	Host      HostID
	Title     string
	City      string
	Rules     []string
	Baseline  money.Money
	PerNights map[int]money.Money
	CreatedAt time.Time
}

func NewListing(params CreateParams) (*Listing, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if params.Host == "" {
		return nil, ErrHostRequired
	}
	if params.Baseline.Amount <= 0 || params.Baseline.Currency == "" {
		return nil, ErrBaselineRate
	}
	now := params.CreatedAt.UTC()
	return &Listing{
		ID:         params.ID,
		Host:       params.Host,
		Title:      strings.TrimSpace(params.Title),
		City:       strings.TrimSpace(params.City),
		HouseRules: append([]string(nil), params.Rules...),
		Rates: pricing.RateTable{
			Baseline:  params.Baseline,
			PerNights: params.PerNights,
		},
		State:     ListingDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Activate opens the listing for proposals.
func (l *Listing) Activate(now time.Time) error {
	if l.State != ListingDraft && l.State != ListingSuspended {
		return ErrInvalidState
	}
	l.State = ListingActive
	l.UpdatedAt = now.UTC()
	return nil
}

// Suspend withdraws the listing from new proposals.
func (l *Listing) Suspend(now time.Time) error {
	if l.State != ListingActive {
		return ErrInvalidState
	}
	l.State = ListingSuspended
	l.UpdatedAt = now.UTC()
	return nil
}

// SetRate updates one tier of the rate table. A zero amount clears the tier
// back to the baseline fallback.
func (l *Listing) SetRate(nightsPerWeek int, rate money.Money, now time.Time) {
	if l.Rates.PerNights == nil {
		l.Rates.PerNights = make(map[int]money.Money)
	}
	if rate.IsZero() {
		delete(l.Rates.PerNights, nightsPerWeek)
	} else {
		l.Rates.PerNights[nightsPerWeek] = rate
	}
	l.UpdatedAt = now.UTC()
}

func (l *Listing) AcceptsProposals() bool {
	return l.State == ListingActive
}

type Repository interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
	Save(ctx context.Context, listing *Listing) error
}
