package mongo

import (
	"context"
	"errors"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlistings "weekstay/internal/domain/listings"
	domainpricing "weekstay/internal/domain/pricing"
	"weekstay/internal/domain/shared/money"
)

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection("agg_listing")}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlistings.ErrListingNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ListingRepository) Save(ctx context.Context, l *domainlistings.Listing) error {
	doc := newListingDocument(l)
	filter := bson.M{"_id": doc.ID, "version": l.Version}
	doc.Version = l.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	l.Version = doc.Version
	return nil
}

type listingDocument struct {
	ID         string           `bson:"_id"`
	Host       string           `bson:"host_id"`
	Title      string           `bson:"title"`
	City       string           `bson:"city"`
	HouseRules []string         `bson:"house_rules,omitempty"`
	Currency   string           `bson:"currency"`
	Baseline   int64            `bson:"baseline_rate"`
	PerNights  map[string]int64 `bson:"per_nights,omitempty"`
	State      string           `bson:"state"`
	CreatedAt  int64            `bson:"created_at"`
	UpdatedAt  int64            `bson:"updated_at"`
	Version    int64            `bson:"version"`
}

func newListingDocument(l *domainlistings.Listing) listingDocument {
	doc := listingDocument{
		ID:         string(l.ID),
		Host:       string(l.Host),
		Title:      l.Title,
		City:       l.City,
		HouseRules: l.HouseRules,
		Currency:   l.Rates.Baseline.Currency,
		Baseline:   l.Rates.Baseline.Amount,
		State:      string(l.State),
		CreatedAt:  l.CreatedAt.UnixMilli(),
		UpdatedAt:  l.UpdatedAt.UnixMilli(),
		Version:    l.Version,
	}
	if len(l.Rates.PerNights) > 0 {
		doc.PerNights = make(map[string]int64, len(l.Rates.PerNights))
		for nights, rate := range l.Rates.PerNights {
			doc.PerNights[nightsKey(nights)] = rate.Amount
		}
	}
	return doc
}

func (d listingDocument) toAggregate() *domainlistings.Listing {
	rates := domainpricing.RateTable{
		Baseline: money.Money{Amount: d.Baseline, Currency: d.Currency},
	}
	if len(d.PerNights) > 0 {
		rates.PerNights = make(map[int]money.Money, len(d.PerNights))
		for key, amount := range d.PerNights {
			nights, ok := parseNightsKey(key)
			if !ok {
				continue
			}
			rates.PerNights[nights] = money.Money{Amount: amount, Currency: d.Currency}
		}
	}
	return &domainlistings.Listing{
		ID:         domainlistings.ListingID(d.ID),
		Host:       domainlistings.HostID(d.Host),
		Title:      d.Title,
		City:       d.City,
		HouseRules: d.HouseRules,
		Rates:      rates,
		State:      domainlistings.ListingState(d.State),
		CreatedAt:  timestampToTime(d.CreatedAt),
		UpdatedAt:  timestampToTime(d.UpdatedAt),
		Version:    d.Version,
	}
}

// Mongo map keys must be strings.
func nightsKey(nights int) string {
	return strconv.Itoa(nights)
}

func parseNightsKey(key string) (int, bool) {
	nights, err := strconv.Atoi(key)
	if err != nil || nights < 1 || nights > 7 {
		return 0, false
	}
	return nights, true
}
