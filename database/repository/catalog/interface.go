// File: database/repository/catalog/interface.go
package catalogRepo

import (
	"context"
	"errors"

	"divyajyotisha/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateName = errors.New("name already exists")
)

// AstrologerRepository is plain pass-through data access; the only invariant
// is name uniqueness.
type AstrologerRepository interface {
	List(ctx context.Context) ([]models.Astrologer, error)
	GetByID(ctx context.Context, id string) (*models.Astrologer, error)
	Create(ctx context.Context, a *models.Astrologer) error
	Update(ctx context.Context, a *models.Astrologer) error
	Delete(ctx context.Context, id string) error
}

// PujaRepository mirrors AstrologerRepository for ritual packages.
type PujaRepository interface {
	List(ctx context.Context) ([]models.Puja, error)
	GetByID(ctx context.Context, id string) (*models.Puja, error)
	Create(ctx context.Context, p *models.Puja) error
	Update(ctx context.Context, p *models.Puja) error
	Delete(ctx context.Context, id string) error
}

// BannerRepository stores website banners; Active returns at most limit
// active banners ordered by position.
type BannerRepository interface {
	List(ctx context.Context) ([]models.Banner, error)
	Active(ctx context.Context, limit int) ([]models.Banner, error)
	Create(ctx context.Context, b *models.Banner) error
	Update(ctx context.Context, b *models.Banner) error
	Delete(ctx context.Context, id string) error
}
