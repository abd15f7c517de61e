package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NgigiN/lomba17/internal/apperrors"
	"github.com/NgigiN/lomba17/internal/auth"
	"github.com/NgigiN/lomba17/internal/logger"
	"github.com/NgigiN/lomba17/internal/storage"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string        `json:"token"`
	User  *storage.User `json:"user"`
}

func (s *Server) login(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalid("%v", err))
		return
	}

	user, err := s.db.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, apperrors.ErrNotFound) || (err == nil && !auth.CheckPassword(req.Password, user.PasswordHash)) {
		log.Warn().Str("email", req.Email).Msg("login rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Info().Uint("user_id", user.ID).Msg("user logged in")
	c.JSON(http.StatusOK, loginResponse{Token: token, User: user})
}

func (s *Server) me(c *gin.Context) {
	claims, _ := currentClaims(c)
	id, err := claims.UserID()
	if err != nil {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}
	user, err := s.db.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
