package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	catalogRepo "divyajyotisha/database/repository/catalog"
	"divyajyotisha/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCatalogRouter(t *testing.T) (*gin.Engine, *catalogRepo.MemoryAstrologerRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	astrologers := catalogRepo.NewMemoryAstrologerRepo()
	// A nil cache client means Redis was unreachable at startup; reads must
	// come straight from the repository.
	h := NewCatalogHandler(astrologers, catalogRepo.NewMemoryPujaRepo(), catalogRepo.NewMemoryBannerRepo(), nil, zap.NewNop())

	r := gin.New()
	r.GET("/api/website/astrologers", h.WebsiteAstrologers)
	return r, astrologers
}

func TestWebsiteAstrologersWithoutCache(t *testing.T) {
	r, astrologers := newCatalogRouter(t)
	ctx := context.Background()

	require.NoError(t, astrologers.Create(ctx, &models.Astrologer{ID: "a-1", Name: "Pandit Sharma", IsActive: true}))
	require.NoError(t, astrologers.Create(ctx, &models.Astrologer{ID: "a-2", Name: "Guru Mishra", IsActive: false}))

	w := doJSON(t, r, http.MethodGet, "/api/website/astrologers", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.Astrologer `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Pandit Sharma", resp.Data[0].Name)
}
