package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/NgigiN/lomba17/internal/recorder"
	"github.com/NgigiN/lomba17/internal/storage"
)

const dateLayout = "2006-01-02"

type financeRequest struct {
	Type          storage.FinanceType   `json:"type" binding:"required"`
	Amount        decimal.Decimal       `json:"amount"`
	Description   string                `json:"description" binding:"required"`
	Category      string                `json:"category" binding:"required"`
	Date          *time.Time            `json:"date"`
	Reference     string                `json:"reference"`
	Source        storage.FinanceSource `json:"source"`
	DonorName     string                `json:"donorName"`
	RecipientName string                `json:"recipientName"`
	Purpose       string                `json:"purpose"`
}

func (r financeRequest) toFinance(now time.Time) (*storage.Finance, error) {
	if !r.Type.Valid() {
		return nil, invalid("type must be income or expense")
	}
	amount := r.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, invalid("amount must be positive")
	}
	source := r.Source
	if source == "" {
		source = storage.SourceManual
	}
	if !source.Valid() {
		return nil, invalid("unknown source %q", source)
	}
	date := now
	if r.Date != nil && !r.Date.IsZero() {
		date = *r.Date
	}
	return &storage.Finance{
		Type:          r.Type,
		Amount:        amount,
		Description:   r.Description,
		Category:      r.Category,
		Date:          date,
		Reference:     r.Reference,
		Source:        source,
		DonorName:     r.DonorName,
		RecipientName: r.RecipientName,
		Purpose:       r.Purpose,
	}, nil
}

func (s *Server) bindFinance(c *gin.Context) (*storage.Finance, error) {
	var req financeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, invalid("%v", err)
	}
	return req.toFinance(time.Now())
}

// parseDateQuery accepts RFC 3339 timestamps or plain dates. A plain end date
// covers the whole day.
func parseDateQuery(c *gin.Context, key string, endOfDay bool) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, invalid("invalid %s %q", key, raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func (s *Server) listFinances(c *gin.Context) {
	filter := storage.FinanceFilter{Type: storage.FinanceType(c.Query("type"))}
	if filter.Type != "" && !filter.Type.Valid() {
		respondError(c, invalid("type must be income or expense"))
		return
	}
	var err error
	if filter.Start, err = parseDateQuery(c, "startDate", false); err != nil {
		respondError(c, err)
		return
	}
	if filter.End, err = parseDateQuery(c, "endDate", true); err != nil {
		respondError(c, err)
		return
	}

	finances, err := s.db.ListFinances(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, finances)
}

func (s *Server) getFinance(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	finance, err := s.db.GetFinance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, finance)
}

func (s *Server) financeSummary(c *gin.Context) {
	summary, err := s.db.FinanceSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) createFinance(c *gin.Context) {
	ctx := c.Request.Context()
	finance, err := s.bindFinance(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := s.db.CreateFinance(ctx, finance); err != nil {
		respondError(c, err)
		return
	}

	kind, flow := "Pengeluaran", "Dana keluar"
	counterparty := finance.RecipientName
	if finance.Type == storage.FinanceIncome {
		kind, flow = "Pemasukan", "Dana masuk"
		counterparty = finance.DonorName
	}
	s.notify(ctx, kind+" Baru", fmt.Sprintf("%s sebesar %s", flow, recorder.FormatRupiah(finance.Amount)),
		storage.FinanceUpdatePayload{
			Amount:       finance.Amount,
			Type:         finance.Type,
			Source:       finance.Source,
			Counterparty: counterparty,
			Purpose:      finance.Purpose,
		})
	c.JSON(http.StatusCreated, finance)
}

func (s *Server) updateFinance(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	finance, err := s.bindFinance(c)
	if err != nil {
		respondError(c, err)
		return
	}

	existing, err := s.db.GetFinance(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	finance.ID = id
	finance.ChannelData = existing.ChannelData
	if err := s.db.UpdateFinance(ctx, finance); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, finance)
}

func (s *Server) deleteFinance(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := s.db.DeleteFinance(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Finance deleted successfully"})
}
