// Package handlers implements the HTTP API for the account service.
package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/accounthub/backend/auth"
	"github.com/accounthub/backend/models"
	"github.com/accounthub/backend/store"
	"github.com/gin-gonic/gin"
)

// UserStore is the persistence surface the handlers need.
type UserStore interface {
	Create(email, hashedPassword, fullName string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	Update(user *models.User, fullName, hashedPassword string) error
}

// Publisher sends a registration notice to the broker.
type Publisher interface {
	Publish(message string) error
}

// Handler carries the injected dependencies for all endpoints.
type Handler struct {
	store    UserStore
	tokens   *auth.TokenManager
	notifier Publisher
}

func New(userStore UserStore, tokens *auth.TokenManager, notifier Publisher) *Handler {
	return &Handler{
		store:    userStore,
		tokens:   tokens,
		notifier: notifier,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /register
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}

	// Short-circuit the common case; the unique index catches the race.
	if _, err := h.store.FindByEmail(req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already registered"})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Printf("❌ Registration lookup failed for %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("❌ Failed to hash password for %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
		return
	}

	if _, err := h.store.Create(req.Email, hashed, req.FullName); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already registered"})
			return
		}
		log.Printf("❌ Failed to create user %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
		return
	}

	log.Printf("✅ User %s registered successfully", req.Email)

	// The row is durable at this point; a failed publish must not fail
	// the request.
	if err := h.notifier.Publish(fmt.Sprintf("New user registered: %s", req.Email)); err != nil {
		log.Printf("⚠️ Failed to publish registration notice for %s: %v", req.Email, err)
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// Login handles POST /login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}

	user, err := h.store.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
			return
		}
		log.Printf("❌ Login lookup failed for %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
		return
	}

	if !auth.CheckPassword(req.Password, user.HashedPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
		return
	}

	token, err := h.tokens.Issue(user.Email)
	if err != nil {
		log.Printf("❌ Failed to issue token for %s: %v", user.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
		return
	}

	log.Printf("✅ User %s logged in successfully", user.Email)
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}
