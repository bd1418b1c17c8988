// File: database/repository/booking/mongo.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"divyajyotisha/database"
	"divyajyotisha/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements Repository on the bookings collection.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

func NewMongoBookingRepo() *MongoBookingRepo {
	repo := &MongoBookingRepo{coll: database.Collection("bookings")}
	repo.ensureIndexes()
	return repo
}

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

func (r *MongoBookingRepo) ensureIndexes() {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "orderId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "customerEmail", Value: 1}}},
		{Keys: bson.D{{Key: "customerPhone", Value: 1}}},
		{Keys: bson.D{{Key: "consultationDate", Value: 1}}},
		{Keys: bson.D{{Key: "paymentStatus", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		// Index creation failure is not fatal; uniqueness is re-checked on insert.
		fmt.Printf("warning: failed to create booking indexes: %v\n", err)
	}
}

// Create inserts a new booking document. The unique orderId index makes a
// duplicate insert fail atomically, leaving exactly one record.
func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, booking)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateOrderID
	}
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoBookingRepo) GetByOrderID(ctx context.Context, orderID string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"orderId": orderID})
}

func (r *MongoBookingRepo) findOne(ctx context.Context, filter bson.M) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctx, filter).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &booking, nil
}

// Update replaces the document matching id and the caller's version, bumping
// the version. A concurrent writer makes the filter miss, which surfaces as
// ErrStaleWrite rather than silently applying a stale transition.
func (r *MongoBookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	prev := booking.Version
	booking.Version = prev + 1
	booking.UpdatedAt = time.Now()

	filter := bson.M{"id": booking.ID, "version": prev}
	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": booking})
	if err != nil {
		booking.Version = prev
		return fmt.Errorf("failed to update booking %s: %w", booking.ID, err)
	}
	if result.MatchedCount == 0 {
		booking.Version = prev
		if n, err := r.coll.CountDocuments(ctx, bson.M{"id": booking.ID}); err == nil && n == 0 {
			return ErrNotFound
		}
		return ErrStaleWrite
	}
	return nil
}

func (r *MongoBookingRepo) List(ctx context.Context, filter ListFilter) ([]models.Booking, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.PaymentStatus != "" {
		query["paymentStatus"] = filter.PaymentStatus
	}
	if filter.AstrologerName != "" {
		query["astrologerName"] = bson.M{"$regex": filter.AstrologerName, "$options": "i"}
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// Upcoming returns ACTIVE, paid bookings whose consultation date is not in
// the past, sorted by date then time.
func (r *MongoBookingRepo) Upcoming(ctx context.Context, astrologerName string, now time.Time) ([]models.Booking, error) {
	query := bson.M{
		"consultationDate": bson.M{"$gte": now},
		"status":           models.BookingActive,
		"paymentStatus":    models.PaymentSuccess,
	}
	if astrologerName != "" {
		query["astrologerName"] = bson.M{"$regex": astrologerName, "$options": "i"}
	}
	sort := bson.D{{Key: "consultationDate", Value: 1}, {Key: "consultationTime", Value: 1}}
	return r.findAll(ctx, query, sort)
}

// Today returns ACTIVE, paid bookings falling within [dayStart, dayEnd),
// sorted by consultation time.
func (r *MongoBookingRepo) Today(ctx context.Context, astrologerName string, dayStart, dayEnd time.Time) ([]models.Booking, error) {
	query := bson.M{
		"consultationDate": bson.M{"$gte": dayStart, "$lt": dayEnd},
		"status":           models.BookingActive,
		"paymentStatus":    models.PaymentSuccess,
	}
	if astrologerName != "" {
		query["astrologerName"] = bson.M{"$regex": astrologerName, "$options": "i"}
	}
	sort := bson.D{{Key: "consultationTime", Value: 1}}
	return r.findAll(ctx, query, sort)
}

func (r *MongoBookingRepo) findAll(ctx context.Context, query bson.M, sort bson.D) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}
