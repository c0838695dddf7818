package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const listingCollectionName = "listings"

// ListingRepository implements domain.ListingRepository using MongoDB.
type ListingRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewListingRepository creates the repository and ensures the date index used by the board.
func NewListingRepository(db *mongo.Database, log *logger.Logger) *ListingRepository {
	collection := db.Collection(listingCollectionName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "date", Value: -1}}})
	if err != nil {
		log.Warn("Failed to create indexes for listings collection (may already exist)", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for listings collection")
	}

	return &ListingRepository{
		collection: collection,
		logger:     log.Named("ListingRepository"),
	}
}

func (r *ListingRepository) NewID() string {
	return primitive.NewObjectID().Hex()
}

// FetchAll returns every listing sorted by date, newest first.
func (r *ListingRepository) FetchAll(ctx context.Context) ([]*domain.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error("Failed to query listings", zap.Error(err))
		return nil, classify("find listings", err)
	}
	defer cursor.Close(ctx)

	var docs []listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode listings", zap.Error(err))
		return nil, classify("decode listings", err)
	}
	listings := make([]*domain.Listing, 0, len(docs))
	for i := range docs {
		listings = append(listings, docs[i].toDomain())
	}
	r.logger.Debug("Listings fetched", zap.Int("count", len(listings)))
	return listings, nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	var doc listingDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		err = classify("find listing", err)
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.Error("Failed to get listing by ID", zap.String("listing_id", id), zap.Error(err))
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// Insert creates the document under listing.ID. The date comes from the server clock
// ($currentDate), so listing.Date is left untouched.
func (r *ListingRepository) Insert(ctx context.Context, listing *domain.Listing) error {
	doc, err := toListingDocument(listing)
	if err != nil {
		return err
	}
	update := bson.M{
		"$set": bson.M{
			"title":       doc.Title,
			"price":       doc.Price,
			"description": doc.Description,
			"images":      doc.Images,
			"creator":     doc.Creator,
		},
		"$currentDate": bson.M{"date": true},
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": doc.ID}, update, options.Update().SetUpsert(true))
	if err != nil {
		r.logger.Error("Failed to insert listing", zap.String("listing_id", listing.ID), zap.Error(err))
		return classify("insert listing", err)
	}
	r.logger.Info("Listing inserted", zap.String("listing_id", listing.ID), zap.Int("images", len(doc.Images)))
	return nil
}

// Replace overwrites the stored document. There is no version check: the last write wins.
func (r *ListingRepository) Replace(ctx context.Context, listing *domain.Listing) error {
	doc, err := toListingDocument(listing)
	if err != nil {
		return err
	}
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		r.logger.Error("Failed to replace listing", zap.String("listing_id", listing.ID), zap.Error(err))
		return classify("replace listing", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.logger.Error("Failed to delete listing", zap.String("listing_id", id), zap.Error(err))
		return classify("delete listing", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	r.logger.Info("Listing deleted", zap.String("listing_id", id))
	return nil
}

// Ping checks that the store is reachable.
func (r *ListingRepository) Ping(ctx context.Context) error {
	if err := r.collection.Database().Client().Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	return nil
}
