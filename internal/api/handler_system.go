package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/NgigiN/lomba17/internal/logger"
)

const telegramSecretHeader = "X-Telegram-Bot-Api-Secret-Token"

func (s *Server) dashboardStats(c *gin.Context) {
	stats, err := s.db.DashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, code := "healthy", http.StatusOK
	dbStatus := "ok"
	if err := s.db.Ping(ctx); err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Msg("database ping failed")
		status, code, dbStatus = "unhealthy", http.StatusServiceUnavailable, "unreachable"
	}

	body := gin.H{
		"status":    status,
		"uptime":    time.Since(s.startTime).Round(time.Second).String(),
		"database":  dbStatus,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if s.discord != nil {
		body["discord_connected"] = s.discord.Connected()
	}
	c.JSON(code, body)
}

// telegramWebhook accepts updates pushed by Telegram. Once an update is
// accepted it is acknowledged even if the reply could not be sent, so that
// Telegram does not redeliver an already recorded message.
func (s *Server) telegramWebhook(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	secret := c.GetHeader(telegramSecretHeader)
	if s.webhookSecret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(s.webhookSecret)) != 1 {
		log.Warn().Msg("telegram webhook secret mismatch")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update"})
		return
	}

	if err := s.telegram.HandleUpdate(ctx, update); err != nil {
		log.Error().Err(err).Int("update_id", update.UpdateID).Msg("failed to handle telegram update")
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
