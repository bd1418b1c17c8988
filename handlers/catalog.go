package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	catalogRepo "divyajyotisha/database/repository/catalog"
	"divyajyotisha/models"
	"divyajyotisha/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	cacheKeyAstrologers = "website:astrologers"
	cacheKeyBanners     = "website:banners"
	cacheTTL            = 5 * time.Minute
	maxWebsiteBanners   = 4
)

// CatalogHandler serves the public website catalog and its dashboard CRUD.
// Website reads are cached; every dashboard mutation invalidates the cache.
type CatalogHandler struct {
	Astrologers catalogRepo.AstrologerRepository
	Pujas       catalogRepo.PujaRepository
	Banners     catalogRepo.BannerRepository
	Cache       *redis.Client
	Logger      *zap.Logger
}

func NewCatalogHandler(
	astrologers catalogRepo.AstrologerRepository,
	pujas catalogRepo.PujaRepository,
	banners catalogRepo.BannerRepository,
	cache *redis.Client,
	logger *zap.Logger,
) *CatalogHandler {
	return &CatalogHandler{Astrologers: astrologers, Pujas: pujas, Banners: banners, Cache: cache, Logger: logger}
}

func (h *CatalogHandler) cached(ctx context.Context, key string, out any) bool {
	if h.Cache == nil {
		return false
	}
	raw, err := h.Cache.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func (h *CatalogHandler) storeCache(ctx context.Context, key string, val any) {
	if h.Cache == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := h.Cache.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
		h.Logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (h *CatalogHandler) invalidate(ctx context.Context, keys ...string) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.Del(ctx, keys...).Err(); err != nil {
		h.Logger.Warn("cache invalidation failed", zap.Error(err))
	}
}

// --- Website (public) reads ---

func (h *CatalogHandler) WebsiteAstrologers(c *gin.Context) {
	ctx := c.Request.Context()

	var cached []models.Astrologer
	if h.cached(ctx, cacheKeyAstrologers, &cached) {
		respond(c, http.StatusOK, "", cached)
		return
	}

	all, err := h.Astrologers.List(ctx)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load astrologers", err.Error())
		return
	}
	active := make([]models.Astrologer, 0, len(all))
	for _, a := range all {
		if a.IsActive {
			active = append(active, a)
		}
	}
	h.storeCache(ctx, cacheKeyAstrologers, active)
	respond(c, http.StatusOK, "", active)
}

func (h *CatalogHandler) WebsitePujas(c *gin.Context) {
	all, err := h.Pujas.List(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load pujas", err.Error())
		return
	}
	active := make([]models.Puja, 0, len(all))
	for _, p := range all {
		if p.IsActive {
			active = append(active, p)
		}
	}
	respond(c, http.StatusOK, "", active)
}

func (h *CatalogHandler) WebsiteBanners(c *gin.Context) {
	ctx := c.Request.Context()

	var cached []models.Banner
	if h.cached(ctx, cacheKeyBanners, &cached) {
		respond(c, http.StatusOK, "", cached)
		return
	}

	banners, err := h.Banners.Active(ctx, maxWebsiteBanners)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load banners", err.Error())
		return
	}
	h.storeCache(ctx, cacheKeyBanners, banners)
	respond(c, http.StatusOK, "", banners)
}

// --- Dashboard: astrologers ---

func (h *CatalogHandler) ListAstrologers(c *gin.Context) {
	items, err := h.Astrologers.List(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load astrologers", err.Error())
		return
	}
	respond(c, http.StatusOK, "", items)
}

func (h *CatalogHandler) CreateAstrologer(c *gin.Context) {
	var a models.Astrologer
	if err := c.ShouldBindJSON(&a); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if a.Name == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", "name is required")
		return
	}
	a.ID = uuid.New().String()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt

	if err := h.Astrologers.Create(c.Request.Context(), &a); err != nil {
		if err == catalogRepo.ErrDuplicateName {
			utils.JSONError(c, http.StatusConflict, "Conflict", "an astrologer with this name already exists")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to create astrologer", err.Error())
		return
	}
	h.invalidate(c.Request.Context(), cacheKeyAstrologers)
	respond(c, http.StatusCreated, "Astrologer created", a)
}

func (h *CatalogHandler) UpdateAstrologer(c *gin.Context) {
	ctx := c.Request.Context()
	existing, err := h.Astrologers.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == catalogRepo.ErrNotFound {
			utils.JSONError(c, http.StatusNotFound, "Not found", "astrologer not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load astrologer", err.Error())
		return
	}

	var a models.Astrologer
	if err := c.ShouldBindJSON(&a); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	a.ID = existing.ID
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = time.Now()

	if err := h.Astrologers.Update(ctx, &a); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update astrologer", err.Error())
		return
	}
	h.invalidate(ctx, cacheKeyAstrologers)
	respond(c, http.StatusOK, "Astrologer updated", a)
}

func (h *CatalogHandler) ToggleAstrologer(c *gin.Context) {
	ctx := c.Request.Context()
	a, err := h.Astrologers.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == catalogRepo.ErrNotFound {
			utils.JSONError(c, http.StatusNotFound, "Not found", "astrologer not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load astrologer", err.Error())
		return
	}
	a.IsActive = !a.IsActive
	a.UpdatedAt = time.Now()
	if err := h.Astrologers.Update(ctx, a); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update astrologer", err.Error())
		return
	}
	h.invalidate(ctx, cacheKeyAstrologers)
	respond(c, http.StatusOK, "Astrologer updated", a)
}

func (h *CatalogHandler) DeleteAstrologer(c *gin.Context) {
	if err := h.Astrologers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if err == catalogRepo.ErrNotFound {
			utils.JSONError(c, http.StatusNotFound, "Not found", "astrologer not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete astrologer", err.Error())
		return
	}
	h.invalidate(c.Request.Context(), cacheKeyAstrologers)
	respond(c, http.StatusOK, "Astrologer deleted", nil)
}

// --- Dashboard: pujas ---

func (h *CatalogHandler) ListPujas(c *gin.Context) {
	items, err := h.Pujas.List(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load pujas", err.Error())
		return
	}
	respond(c, http.StatusOK, "", items)
}

func (h *CatalogHandler) CreatePuja(c *gin.Context) {
	var p models.Puja
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if p.Name == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", "name is required")
		return
	}
	p.ID = uuid.New().String()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt

	if err := h.Pujas.Create(c.Request.Context(), &p); err != nil {
		if err == catalogRepo.ErrDuplicateName {
			utils.JSONError(c, http.StatusConflict, "Conflict", "a puja with this name already exists")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to create puja", err.Error())
		return
	}
	respond(c, http.StatusCreated, "Puja created", p)
}

func (h *CatalogHandler) UpdatePuja(c *gin.Context) {
	ctx := c.Request.Context()
	existing, err := h.Pujas.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == catalogRepo.ErrNotFound {
			utils.JSONError(c, http.StatusNotFound, "Not found", "puja not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load puja", err.Error())
		return
	}

	var p models.Puja
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()

	if err := h.Pujas.Update(ctx, &p); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update puja", err.Error())
		return
	}
	respond(c, http.StatusOK, "Puja updated", p)
}

func (h *CatalogHandler) TogglePuja(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.Pujas.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == catalogRepo.ErrNotFound {
			utils.JSONError(c, http.StatusNotFound, "Not found", "puja not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load puja", err.Error())
		return
	}
	p.IsActive = !p.IsActive
	p.UpdatedAt = time.Now()
	if err := h.Pujas.Update(ctx, p); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update puja", err.Error())
		return
	}
	respond(c, http.StatusOK, "Puja updated", p)
}

func (h *CatalogHandler) DeletePuja(c *gin.Context) {
	if err := h.Pujas.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if err == catalogRepo.ErrNotFound {
			utils.JSONError(c, http.StatusNotFound, "Not found", "puja not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete puja", err.Error())
		return
	}
	respond(c, http.StatusOK, "Puja deleted", nil)
}

// --- Dashboard: banners ---

func (h *CatalogHandler) ListBanners(c *gin.Context) {
	items, err := h.Banners.List(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load banners", err.Error())
		return
	}
	respond(c, http.StatusOK, "", items)
}

func (h *CatalogHandler) CreateBanner(c *gin.Context) {
	var b models.Banner
	if err := c.ShouldBindJSON(&b); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if b.ImageURL == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", "imageUrl is required")
		return
	}
	b.ID = uuid.New().String()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt

	if err := h.Banners.Create(c.Request.Context(), &b); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to create banner", err.Error())
		return
	}
	h.invalidate(c.Request.Context(), cacheKeyBanners)
	respond(c, http.StatusCreated, "Banner created", b)
}

func (h *CatalogHandler) UpdateBanner(c *gin.Context) {
	var b models.Banner
	if err := c.ShouldBindJSON(&b); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	b.ID = c.Param("id")
	b.UpdatedAt = time.Now()

	if err := h.Banners.Update(c.Request.Context(), &b); err != nil {
		if err == catalogRepo.ErrNotFound {
			utils.JSONError(c, http.StatusNotFound, "Not found", "banner not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update banner", err.Error())
		return
	}
	h.invalidate(c.Request.Context(), cacheKeyBanners)
	respond(c, http.StatusOK, "Banner updated", b)
}

func (h *CatalogHandler) DeleteBanner(c *gin.Context) {
	if err := h.Banners.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if err == catalogRepo.ErrNotFound {
			utils.JSONError(c, http.StatusNotFound, "Not found", "banner not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete banner", err.Error())
		return
	}
	h.invalidate(c.Request.Context(), cacheKeyBanners)
	respond(c, http.StatusOK, "Banner deleted", nil)
}
