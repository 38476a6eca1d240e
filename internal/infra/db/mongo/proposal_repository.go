package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"weekstay/internal/domain/listings"
	domainpricing "weekstay/internal/domain/pricing"
	domainproposal "weekstay/internal/domain/proposal"
	"weekstay/internal/domain/schedule"
	"weekstay/internal/domain/shared/money"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type ProposalRepository struct {
	col *mongo.Collection
}

func NewProposalRepository(db *mongo.Database) *ProposalRepository {
	col := db.Collection("agg_proposal")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "guest_id", Value: 1}}})
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "listing_id", Value: 1}}})
	return &ProposalRepository{col: col}
}

func (r *ProposalRepository) ByID(ctx context.Context, id domainproposal.ProposalID) (*domainproposal.Proposal, error) {
	var doc proposalDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainproposal.ErrProposalNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ProposalRepository) Save(ctx context.Context, p *domainproposal.Proposal) error {
	doc := newProposalDocument(p)
	filter := bson.M{"_id": doc.ID, "version": p.Version}
	doc.Version = p.Version + 1
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	p.Version = doc.Version
	return nil
}

func (r *ProposalRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainproposal.Proposal, error) {
	return r.find(ctx, bson.M{"guest_id": guestID})
}

func (r *ProposalRepository) ListByListing(ctx context.Context, id listings.ListingID) ([]*domainproposal.Proposal, error) {
	return r.find(ctx, bson.M{"listing_id": string(id)})
}

func (r *ProposalRepository) find(ctx context.Context, filter bson.M) ([]*domainproposal.Proposal, error) {
	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var result []*domainproposal.Proposal
	for cursor.Next(ctx) {
		var doc proposalDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc.toAggregate())
	}
	return result, cursor.Err()
}

type proposalDocument struct {
	ID        string        `bson:"_id"`
	ListingID string        `bson:"listing_id"`
	GuestID   string        `bson:"guest_id"`
	Status    string        `bson:"status"`
	Submitted termsDocument `bson:"submitted"`
	// counter and agreed must not be omitempty: a cleared counteroffer has to
	// reach the store as an explicit null, or $set would leave the old value.
	Counter            *termsDocument `bson:"counter"`
	Agreed             *termsDocument `bson:"agreed"`
	Price              priceDocument  `bson:"price"`
	CancellationReason string         `bson:"cancellation_reason,omitempty"`
	CreatedAt          int64          `bson:"created_at"`
	UpdatedAt          int64          `bson:"updated_at"`
	Version            int64          `bson:"version"`
}

func newProposalDocument(p *domainproposal.Proposal) proposalDocument {
	doc := proposalDocument{
		ID:                 string(p.ID),
		ListingID:          string(p.ListingID),
		GuestID:            p.GuestID,
		Status:             string(p.Status),
		Submitted:          newTermsDocument(p.Submitted),
		Price:              newPriceDocument(p.Price),
		CancellationReason: p.CancellationReason,
		CreatedAt:          p.CreatedAt.UnixMilli(),
		UpdatedAt:          p.UpdatedAt.UnixMilli(),
		Version:            p.Version,
	}
	if p.Counter != nil {
		d := newTermsDocument(*p.Counter)
		doc.Counter = &d
	}
	if p.Agreed != nil {
		d := newTermsDocument(*p.Agreed)
		doc.Agreed = &d
	}
	return doc
}

func (d proposalDocument) toAggregate() *domainproposal.Proposal {
	agg := &domainproposal.Proposal{
		ID:                 domainproposal.ProposalID(d.ID),
		ListingID:          listings.ListingID(d.ListingID),
		GuestID:            d.GuestID,
		Status:             domainproposal.Status(d.Status),
		Submitted:          d.Submitted.toTerms(),
		Price:              d.Price.toBreakdown(),
		CancellationReason: d.CancellationReason,
		CreatedAt:          timestampToTime(d.CreatedAt),
		UpdatedAt:          timestampToTime(d.UpdatedAt),
		Version:            d.Version,
	}
	if d.Counter != nil {
		t := d.Counter.toTerms()
		agg.Counter = &t
	}
	if d.Agreed != nil {
		t := d.Agreed.toTerms()
		agg.Agreed = &t
	}
	return agg
}

type termsDocument struct {
	MoveIn     int64    `bson:"move_in"`
	CheckIn    int      `bson:"check_in"`
	CheckOut   int      `bson:"check_out"`
	Nights     []int    `bson:"nights"`
	WrapsWeek  bool     `bson:"wraps_week"`
	SpanWeeks  int      `bson:"span_weeks"`
	HouseRules []string `bson:"house_rules,omitempty"`
}

func newTermsDocument(t domainproposal.ReservationTerms) termsDocument {
	nights := make([]int, 0, len(t.Pattern.Nights))
	for _, n := range t.Pattern.Nights {
		nights = append(nights, int(n))
	}
	return termsDocument{
		MoveIn:     t.MoveIn.UnixMilli(),
		CheckIn:    int(t.Pattern.CheckIn),
		CheckOut:   int(t.Pattern.CheckOut),
		Nights:     nights,
		WrapsWeek:  t.Pattern.WrapsWeek,
		SpanWeeks:  t.SpanWeeks,
		HouseRules: t.HouseRules,
	}
}

func (d termsDocument) toTerms() domainproposal.ReservationTerms {
	nights := make([]schedule.Weekday, 0, len(d.Nights))
	for _, n := range d.Nights {
		nights = append(nights, schedule.Weekday(n))
	}
	return domainproposal.ReservationTerms{
		MoveIn: timestampToTime(d.MoveIn),
		Pattern: schedule.Pattern{
			CheckIn:   schedule.Weekday(d.CheckIn),
			CheckOut:  schedule.Weekday(d.CheckOut),
			Nights:    nights,
			WrapsWeek: d.WrapsWeek,
		},
		SpanWeeks:  d.SpanWeeks,
		HouseRules: d.HouseRules,
	}
}

type priceDocument struct {
	Currency              string `bson:"currency"`
	NightlyGuestPrice     int64  `bson:"nightly_guest_price"`
	NightlyHostRate       int64  `bson:"nightly_host_rate"`
	NightsPerWeek         int    `bson:"nights_per_week"`
	SpanWeeks             int    `bson:"span_weeks"`
	TotalNights           int    `bson:"total_nights"`
	TotalCompensation     int64  `bson:"total_compensation"`
	CompensationPer4Weeks int64  `bson:"compensation_per_4_weeks"`
}

func newPriceDocument(b domainpricing.CompensationBreakdown) priceDocument {
	return priceDocument{
		Currency:              b.NightlyHostRate.Currency,
		NightlyGuestPrice:     b.NightlyGuestPrice.Amount,
		NightlyHostRate:       b.NightlyHostRate.Amount,
		NightsPerWeek:         b.NightsPerWeek,
		SpanWeeks:             b.SpanWeeks,
		TotalNights:           b.TotalNights,
		TotalCompensation:     b.TotalCompensation.Amount,
		CompensationPer4Weeks: b.CompensationPer4Weeks.Amount,
	}
}

func (d priceDocument) toBreakdown() domainpricing.CompensationBreakdown {
	return domainpricing.CompensationBreakdown{
		NightlyGuestPrice:     money.Money{Amount: d.NightlyGuestPrice, Currency: d.Currency},
		NightlyHostRate:       money.Money{Amount: d.NightlyHostRate, Currency: d.Currency},
		NightsPerWeek:         d.NightsPerWeek,
		SpanWeeks:             d.SpanWeeks,
		TotalNights:           d.TotalNights,
		TotalCompensation:     money.Money{Amount: d.TotalCompensation, Currency: d.Currency},
		CompensationPer4Weeks: money.Money{Amount: d.CompensationPer4Weeks, Currency: d.Currency},
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
