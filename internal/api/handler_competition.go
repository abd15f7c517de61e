package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NgigiN/lomba17/internal/storage"
)

type competitionRequest struct {
	Name            string                    `json:"name" binding:"required"`
	Description     string                    `json:"description" binding:"required"`
	Category        string                    `json:"category" binding:"required"`
	StartDate       time.Time                 `json:"startDate" binding:"required"`
	EndDate         time.Time                 `json:"endDate" binding:"required"`
	MaxParticipants int                       `json:"maxParticipants" binding:"required,gt=0"`
	Status          storage.CompetitionStatus `json:"status"`
	Prizes          storage.Prizes            `json:"prizes"`
}

func (r competitionRequest) toCompetition() (*storage.Competition, error) {
	if !r.EndDate.After(r.StartDate) {
		return nil, invalid("End date must be after start date")
	}
	if r.Status != "" && !r.Status.Valid() {
		return nil, invalid("unknown status %q", r.Status)
	}
	return &storage.Competition{
		Name:            r.Name,
		Description:     r.Description,
		Category:        r.Category,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		MaxParticipants: r.MaxParticipants,
		Status:          r.Status,
		Prizes:          r.Prizes,
	}, nil
}

func (s *Server) bindCompetition(c *gin.Context) (*storage.Competition, error) {
	var req competitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, invalid("%v", err)
	}
	return req.toCompetition()
}

func (s *Server) listCompetitions(c *gin.Context) {
	competitions, err := s.db.ListCompetitions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, competitions)
}

func (s *Server) getCompetition(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	competition, err := s.db.GetCompetition(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, competition)
}

func (s *Server) createCompetition(c *gin.Context) {
	ctx := c.Request.Context()
	competition, err := s.bindCompetition(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := s.db.CreateCompetition(ctx, competition); err != nil {
		respondError(c, err)
		return
	}

	s.notify(ctx, "Lomba Baru Dibuat", fmt.Sprintf("Lomba %q telah dibuat", competition.Name),
		storage.SystemPayload{CompetitionID: competition.ID})
	c.JSON(http.StatusCreated, competition)
}

func (s *Server) updateCompetition(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	competition, err := s.bindCompetition(c)
	if err != nil {
		respondError(c, err)
		return
	}
	competition.ID = id
	if err := s.db.UpdateCompetition(ctx, competition); err != nil {
		respondError(c, err)
		return
	}

	s.notify(ctx, "Lomba Diperbarui", fmt.Sprintf("Lomba %q telah diperbarui", competition.Name),
		storage.SystemPayload{CompetitionID: competition.ID})
	c.JSON(http.StatusOK, competition)
}

func (s *Server) deleteCompetition(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	deleted, err := s.db.DeleteCompetition(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	s.notify(ctx, "Lomba Dihapus", fmt.Sprintf("Lomba %q telah dihapus", deleted.Name),
		storage.SystemPayload{CompetitionID: deleted.ID})
	c.JSON(http.StatusOK, gin.H{"message": "Competition deleted successfully"})
}
