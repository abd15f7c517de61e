package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NgigiN/lomba17/internal/storage"
)

type registerParticipantRequest struct {
	CompetitionID uint     `json:"competitionId" binding:"required"`
	Name          string   `json:"name" binding:"required"`
	Email         string   `json:"email" binding:"required,email"`
	Phone         string   `json:"phone" binding:"required"`
	Address       string   `json:"address" binding:"required"`
	Age           int      `json:"age" binding:"required,gt=0"`
	TeamMembers   []string `json:"teamMembers"`
}

// updateParticipantRequest changes only the fields that are present.
type updateParticipantRequest struct {
	Name        *string                    `json:"name"`
	Email       *string                    `json:"email" binding:"omitempty,email"`
	Phone       *string                    `json:"phone"`
	Address     *string                    `json:"address"`
	Age         *int                       `json:"age" binding:"omitempty,gt=0"`
	Status      *storage.ParticipantStatus `json:"status"`
	TeamMembers *[]string                  `json:"teamMembers"`
}

func (r updateParticipantRequest) apply(p *storage.Participant) error {
	if r.Status != nil && !r.Status.Valid() {
		return invalid("unknown status %q", *r.Status)
	}
	setIf(&p.Name, r.Name)
	setIf(&p.Email, r.Email)
	setIf(&p.Phone, r.Phone)
	setIf(&p.Address, r.Address)
	setIf(&p.Age, r.Age)
	setIf(&p.Status, r.Status)
	setIf(&p.TeamMembers, r.TeamMembers)
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func (s *Server) listParticipants(c *gin.Context) {
	competitionID, err := queryID(c, "competitionId")
	if err != nil {
		respondError(c, err)
		return
	}
	participants, err := s.db.ListParticipants(c.Request.Context(), competitionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, participants)
}

func (s *Server) getParticipant(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	participant, err := s.db.GetParticipant(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, participant)
}

func (s *Server) registerParticipant(c *gin.Context) {
	ctx := c.Request.Context()
	var req registerParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalid("%v", err))
		return
	}

	participant := &storage.Participant{
		CompetitionID: req.CompetitionID,
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Age:           req.Age,
		TeamMembers:   req.TeamMembers,
	}
	if err := s.db.RegisterParticipant(ctx, participant); err != nil {
		respondError(c, err)
		return
	}

	s.notify(ctx, "Peserta Baru Terdaftar",
		fmt.Sprintf("%s mendaftar untuk lomba %s", participant.Name, participant.Competition.Name),
		storage.ParticipantUpdatePayload{ParticipantID: participant.ID, CompetitionID: participant.CompetitionID})
	c.JSON(http.StatusCreated, participant)
}

func (s *Server) updateParticipant(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var req updateParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalid("%v", err))
		return
	}

	participant, err := s.db.GetParticipant(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := req.apply(participant); err != nil {
		respondError(c, err)
		return
	}
	if err := s.db.UpdateParticipant(ctx, participant); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, participant)
}

func (s *Server) deleteParticipant(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := s.db.DeleteParticipant(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Participant deleted successfully"})
}
