package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/accounthub/backend/auth"
	"github.com/accounthub/backend/store"
	"github.com/gin-gonic/gin"
)

const emailContextKey = "email"

// BearerAuth decodes the bearer token and stores the subject email in the
// request context. Every non-valid decode outcome is rejected with 403.
func (h *Handler) BearerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string
		if header := c.GetHeader("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenString = strings.TrimSpace(parts[1])
			}
		}

		claims, status := h.tokens.Decode(tokenString)
		switch status {
		case auth.TokenValid:
			c.Set(emailContextKey, claims.Subject)
			c.Next()
		case auth.TokenMissing:
			c.JSON(http.StatusForbidden, gin.H{"detail": "Missing bearer token"})
			c.Abort()
		case auth.TokenExpired:
			c.JSON(http.StatusForbidden, gin.H{"detail": "Token expired"})
			c.Abort()
		default:
			c.JSON(http.StatusForbidden, gin.H{"detail": "Invalid token"})
			c.Abort()
		}
	}
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// GetProfile handles GET /profile
func (h *Handler) GetProfile(c *gin.Context) {
	email := c.GetString(emailContextKey)

	user, err := h.store.FindByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
			return
		}
		log.Printf("❌ Profile lookup failed for %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	email := c.GetString(emailContextKey)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}

	user, err := h.store.FindByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
			return
		}
		log.Printf("❌ Profile lookup failed for %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("❌ Failed to hash password for %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
		return
	}

	if err := h.store.Update(user, req.FullName, hashed); err != nil {
		log.Printf("❌ Failed to update profile for %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
		return
	}

	log.Printf("✅ User %s profile updated successfully", email)
	c.JSON(http.StatusOK, user)
}
