package handlers

import (
	"net/http"
	"strings"
	"time"

	adminRepo "divyajyotisha/database/repository/admin"
	"divyajyotisha/models"
	"divyajyotisha/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = time.Hour

// AuthHandler issues and validates dashboard credentials.
type AuthHandler struct {
	Admins adminRepo.Repository
}

func NewAuthHandler(admins adminRepo.Repository) *AuthHandler {
	return &AuthHandler{Admins: admins}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || len(req.Password) < 8 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid credentials", "email and a password of at least 8 characters are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Registration failed", err.Error())
		return
	}

	admin := &models.Admin{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := h.Admins.Create(c.Request.Context(), admin); err != nil {
		if err == adminRepo.ErrExists {
			utils.JSONError(c, http.StatusConflict, "Conflict", "an account with this email already exists")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Registration failed", err.Error())
		return
	}
	respond(c, http.StatusCreated, "Account created", gin.H{"id": admin.ID, "email": admin.Email})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	admin, err := h.Admins.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "Invalid credentials", "email or password is incorrect")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		utils.JSONError(c, http.StatusUnauthorized, "Invalid credentials", "email or password is incorrect")
		return
	}

	token, err := utils.GenerateToken(admin.ID, admin.Email, tokenTTL)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Login failed", err.Error())
		return
	}
	respond(c, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"expiresIn": int(tokenTTL.Seconds()),
	})
}
