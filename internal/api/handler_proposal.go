package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NgigiN/lomba17/internal/storage"
)

type createProposalRequest struct {
	CompetitionID uint                   `json:"competitionId" binding:"required"`
	ParticipantID uint                   `json:"participantId" binding:"required"`
	Title         string                 `json:"title" binding:"required"`
	Description   string                 `json:"description" binding:"required"`
	Status        storage.ProposalStatus `json:"status"`
	Files         []string               `json:"files"`
}

type updateProposalRequest struct {
	Title       *string                 `json:"title"`
	Description *string                 `json:"description"`
	Status      *storage.ProposalStatus `json:"status"`
	Files       *[]string               `json:"files"`
	Score       *int                    `json:"score" binding:"omitempty,gte=0,lte=100"`
	Feedback    *string                 `json:"feedback"`
}

func (s *Server) listProposals(c *gin.Context) {
	competitionID, err := queryID(c, "competitionId")
	if err != nil {
		respondError(c, err)
		return
	}
	participantID, err := queryID(c, "participantId")
	if err != nil {
		respondError(c, err)
		return
	}
	proposals, err := s.db.ListProposals(c.Request.Context(), storage.ProposalFilter{
		CompetitionID: competitionID,
		ParticipantID: participantID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, proposals)
}

func (s *Server) getProposal(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	proposal, err := s.db.GetProposal(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, proposal)
}

func (s *Server) createProposal(c *gin.Context) {
	ctx := c.Request.Context()
	var req createProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalid("%v", err))
		return
	}
	if req.Status != "" && !req.Status.Valid() {
		respondError(c, invalid("unknown status %q", req.Status))
		return
	}

	proposal := &storage.Proposal{
		CompetitionID: req.CompetitionID,
		ParticipantID: req.ParticipantID,
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		Files:         req.Files,
	}
	if err := s.db.CreateProposal(ctx, proposal); err != nil {
		respondError(c, err)
		return
	}

	verb := "dibuat"
	if proposal.Status == storage.ProposalSubmitted {
		verb = "disubmit"
	}
	s.notify(ctx, "Proposal Baru", fmt.Sprintf("Proposal %q telah %s", proposal.Title, verb),
		storage.ProposalUpdatePayload{ProposalID: proposal.ID, NewStatus: proposal.Status})
	c.JSON(http.StatusCreated, proposal)
}

func (s *Server) updateProposal(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var req updateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalid("%v", err))
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		respondError(c, invalid("unknown status %q", *req.Status))
		return
	}

	proposal, err := s.db.GetProposal(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	title := proposal.Title
	setIf(&proposal.Title, req.Title)
	setIf(&proposal.Description, req.Description)
	setIf(&proposal.Status, req.Status)
	setIf(&proposal.Files, req.Files)
	setIf(&proposal.Feedback, req.Feedback)
	if req.Score != nil {
		proposal.Score = req.Score
	}

	previous, err := s.db.UpdateProposal(ctx, proposal)
	if err != nil {
		respondError(c, err)
		return
	}

	if previous != proposal.Status {
		s.notify(ctx, "Status Proposal Berubah",
			fmt.Sprintf("Proposal %q status berubah menjadi %s", title, proposal.Status),
			storage.ProposalUpdatePayload{ProposalID: proposal.ID, OldStatus: previous, NewStatus: proposal.Status})
	}
	c.JSON(http.StatusOK, proposal)
}

func (s *Server) deleteProposal(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := s.db.DeleteProposal(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Proposal deleted successfully"})
}
