// Package api serves the dashboard REST API and the Telegram webhook.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/NgigiN/lomba17/internal/apperrors"
	"github.com/NgigiN/lomba17/internal/auth"
	"github.com/NgigiN/lomba17/internal/config"
	"github.com/NgigiN/lomba17/internal/logger"
	"github.com/NgigiN/lomba17/internal/storage"
	"github.com/NgigiN/lomba17/internal/telegram"
)

// HealthReporter is an optional component reported by /health.
type HealthReporter interface {
	Connected() bool
}

type Options struct {
	Config   *config.Config
	DB       *storage.Database
	Issuer   *auth.Issuer
	Logger   zerolog.Logger
	Telegram *telegram.Dispatcher
	Discord  HealthReporter
}

type Server struct {
	db            *storage.Database
	issuer        *auth.Issuer
	telegram      *telegram.Dispatcher
	webhookSecret string
	discord       HealthReporter
	startTime     time.Time
}

// NewRouter builds the gin engine with every route registered. The webhook
// route exists only when a Telegram dispatcher is given.
func NewRouter(opts Options) (*gin.Engine, error) {
	rate, err := limiter.NewRateFromFormatted(opts.Config.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT %q: %w", opts.Config.RateLimit, err)
	}
	ipLimiter := limiter.New(memory.NewStore(), rate)

	s := &Server{
		db:            opts.DB,
		issuer:        opts.Issuer,
		telegram:      opts.Telegram,
		webhookSecret: opts.Config.TelegramWebhookSecret,
		discord:       opts.Discord,
		startTime:     time.Now(),
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(opts.Logger), cors.New(corsConfig(opts.Config.CORSAllowedOrigins)))

	r.GET("/health", s.health)

	api := r.Group("/api")
	api.POST("/auth/login", RateLimit(ipLimiter), s.login)
	if s.telegram != nil {
		api.POST("/telegram/webhook", RateLimit(ipLimiter), s.telegramWebhook)
	}

	authed := api.Group("", Authenticate(s.issuer))
	admin := authed.Group("", RequireAdmin())

	authed.GET("/auth/me", s.me)
	authed.GET("/dashboard/stats", s.dashboardStats)

	authed.GET("/competitions", s.listCompetitions)
	authed.GET("/competitions/:id", s.getCompetition)
	admin.POST("/competitions", s.createCompetition)
	admin.PUT("/competitions/:id", s.updateCompetition)
	admin.DELETE("/competitions/:id", s.deleteCompetition)

	authed.GET("/participants", s.listParticipants)
	authed.GET("/participants/:id", s.getParticipant)
	authed.POST("/participants", s.registerParticipant)
	admin.PUT("/participants/:id", s.updateParticipant)
	admin.DELETE("/participants/:id", s.deleteParticipant)

	authed.GET("/proposals", s.listProposals)
	authed.GET("/proposals/:id", s.getProposal)
	authed.POST("/proposals", s.createProposal)
	authed.PUT("/proposals/:id", s.updateProposal)
	authed.DELETE("/proposals/:id", s.deleteProposal)

	authed.GET("/finances", s.listFinances)
	authed.GET("/finances/summary", s.financeSummary)
	authed.GET("/finances/:id", s.getFinance)
	admin.POST("/finances", s.createFinance)
	admin.PUT("/finances/:id", s.updateFinance)
	admin.DELETE("/finances/:id", s.deleteFinance)

	authed.GET("/notifications", s.listNotifications)
	authed.PUT("/notifications/:id", s.setNotificationRead)
	authed.POST("/notifications/mark-all-read", s.markAllNotificationsRead)
	authed.DELETE("/notifications/:id", s.deleteNotification)

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowOrigins = nil
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	}
	return cfg
}

// respondError maps domain errors to status codes. Anything unexpected is
// logged and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrCompetitionFull):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	default:
		log := logger.FromContext(c.Request.Context())
		log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, fmt.Sprintf(format, args...))
}

func idParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, invalid("invalid id %q", c.Param("id"))
	}
	return uint(id), nil
}

func queryID(c *gin.Context, key string) (uint, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, invalid("invalid %s %q", key, raw)
	}
	return uint(id), nil
}

// notify stores a dashboard notification. Failures are logged only; the
// change that triggered it has already been committed.
func (s *Server) notify(ctx context.Context, title, message string, payload storage.NotificationPayload) {
	log := logger.FromContext(ctx)
	n, err := storage.NewNotification(title, message, payload)
	if err == nil {
		err = s.db.CreateNotification(ctx, n)
	}
	if err != nil {
		log.Warn().Err(err).Str("title", title).Msg("failed to create notification")
	}
}
