// File: database/repository/admin/admin.go
package adminRepo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"divyajyotisha/database"
	"divyajyotisha/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound = errors.New("admin not found")
	ErrExists   = errors.New("admin already exists")
)

// Repository stores dashboard accounts.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) error
}

type MongoAdminRepo struct {
	coll *mongo.Collection
}

func NewMongoAdminRepo() *MongoAdminRepo {
	return &MongoAdminRepo{coll: database.Collection("admins")}
}

func (r *MongoAdminRepo) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var admin models.Admin
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch admin: %w", err)
	}
	return &admin, nil
}

func (r *MongoAdminRepo) Create(ctx context.Context, admin *models.Admin) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.GetByEmail(ctx, admin.Email); err == nil {
		return ErrExists
	}
	if _, err := r.coll.InsertOne(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

type MemoryAdminRepo struct {
	mu      sync.RWMutex
	byEmail map[string]models.Admin
}

func NewMemoryAdminRepo() *MemoryAdminRepo {
	return &MemoryAdminRepo{byEmail: make(map[string]models.Admin)}
}

func (r *MemoryAdminRepo) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	admin, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	copied := admin
	return &copied, nil
}

func (r *MemoryAdminRepo) Create(ctx context.Context, admin *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[admin.Email]; ok {
		return ErrExists
	}
	r.byEmail[admin.Email] = *admin
	return nil
}
