// File: database/repository/catalog/mongo.go
package catalogRepo

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

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

func ensureNameIndex(coll *mongo.Collection) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := coll.Indexes().CreateOne(ctx, idx); err != nil {
		fmt.Printf("warning: failed to create name index on %s: %v\n", coll.Name(), err)
	}
}

// --- Astrologers ---

type MongoAstrologerRepo struct {
	coll *mongo.Collection
}

func NewMongoAstrologerRepo() *MongoAstrologerRepo {
	repo := &MongoAstrologerRepo{coll: database.Collection("astrologers")}
	ensureNameIndex(repo.coll)
	return repo
}

func (r *MongoAstrologerRepo) List(ctx context.Context) ([]models.Astrologer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list astrologers: %w", err)
	}
	defer cursor.Close(ctx)

	var astrologers []models.Astrologer
	if err := cursor.All(ctx, &astrologers); err != nil {
		return nil, err
	}
	return astrologers, nil
}

func (r *MongoAstrologerRepo) GetByID(ctx context.Context, id string) (*models.Astrologer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var a models.Astrologer
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch astrologer: %w", err)
	}
	return &a, nil
}

func (r *MongoAstrologerRepo) Create(ctx context.Context, a *models.Astrologer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, a)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("failed to create astrologer: %w", err)
	}
	return nil
}

func (r *MongoAstrologerRepo) Update(ctx context.Context, a *models.Astrologer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	a.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": a.ID}, bson.M{"$set": a})
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("failed to update astrologer %s: %w", a.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoAstrologerRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete astrologer %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Pujas ---

type MongoPujaRepo struct {
	coll *mongo.Collection
}

func NewMongoPujaRepo() *MongoPujaRepo {
	repo := &MongoPujaRepo{coll: database.Collection("pujas")}
	ensureNameIndex(repo.coll)
	return repo
}

func (r *MongoPujaRepo) List(ctx context.Context) ([]models.Puja, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list pujas: %w", err)
	}
	defer cursor.Close(ctx)

	var pujas []models.Puja
	if err := cursor.All(ctx, &pujas); err != nil {
		return nil, err
	}
	return pujas, nil
}

func (r *MongoPujaRepo) GetByID(ctx context.Context, id string) (*models.Puja, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.Puja
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch puja: %w", err)
	}
	return &p, nil
}

func (r *MongoPujaRepo) Create(ctx context.Context, p *models.Puja) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("failed to create puja: %w", err)
	}
	return nil
}

func (r *MongoPujaRepo) Update(ctx context.Context, p *models.Puja) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": p.ID}, bson.M{"$set": p})
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("failed to update puja %s: %w", p.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoPujaRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete puja %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Banners ---

type MongoBannerRepo struct {
	coll *mongo.Collection
}

func NewMongoBannerRepo() *MongoBannerRepo {
	return &MongoBannerRepo{coll: database.Collection("banners")}
}

func (r *MongoBannerRepo) List(ctx context.Context) ([]models.Banner, error) {
	return r.find(ctx, bson.M{}, 0)
}

func (r *MongoBannerRepo) Active(ctx context.Context, limit int) ([]models.Banner, error) {
	return r.find(ctx, bson.M{"isActive": true}, int64(limit))
}

func (r *MongoBannerRepo) find(ctx context.Context, query bson.M, limit int64) ([]models.Banner, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}
	defer cursor.Close(ctx)

	var banners []models.Banner
	if err := cursor.All(ctx, &banners); err != nil {
		return nil, err
	}
	return banners, nil
}

func (r *MongoBannerRepo) Create(ctx context.Context, b *models.Banner) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("failed to create banner: %w", err)
	}
	return nil
}

func (r *MongoBannerRepo) Update(ctx context.Context, b *models.Banner) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	b.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": b.ID}, bson.M{"$set": b})
	if err != nil {
		return fmt.Errorf("failed to update banner %s: %w", b.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoBannerRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete banner %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
