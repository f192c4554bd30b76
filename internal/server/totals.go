package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/newtown/billsplitter/internal/models"
)

func (s *Server) setDiscount(c *gin.Context) {
	var req struct {
		Percentage decimal.Decimal `json:"percentage"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	clamped := s.ledger.SetDiscountPercentage(req.Percentage)
	c.JSON(http.StatusOK, gin.H{"percentage": clamped})
}

func (s *Server) getTotals(c *gin.Context) {
	totals := s.ledger.Totals()
	c.JSON(http.StatusOK, gin.H{
		"subtotal":            totals.Subtotal,
		"discountPercent":     totals.DiscountPercent,
		"discountAmount":      totals.DiscountAmount,
		"finalTotal":          totals.FinalTotal,
		"perPersonAmount":     s.ledger.PerPersonAmount(),
		"totalDeals":          s.ledger.TotalDeals(),
		"totalDiscounts":      s.ledger.TotalDiscounts(),
		"subtotalFormatted":   totals.SubtotalFormatted(),
		"discountFormatted":   totals.DiscountFormatted(),
		"finalTotalFormatted": totals.FinalTotalFormatted(),
	})
}

type breakdownResponse struct {
	models.MemberBreakdown
	SubtotalFormatted      string `json:"subtotalFormatted"`
	DiscountShareFormatted string `json:"discountShareFormatted"`
	FinalAmountFormatted   string `json:"finalAmountFormatted"`
}

func (s *Server) getBreakdowns(c *gin.Context) {
	breakdowns := s.ledger.MemberBreakdowns()
	out := make([]breakdownResponse, len(breakdowns))
	for i, b := range breakdowns {
		out[i] = breakdownResponse{
			MemberBreakdown:        b,
			SubtotalFormatted:      b.SubtotalFormatted(),
			DiscountShareFormatted: b.DiscountShareFormatted(),
			FinalAmountFormatted:   b.FinalAmountFormatted(),
		}
	}
	c.JSON(http.StatusOK, gin.H{"breakdowns": out})
}
