// Package server exposes the ledger and its collaborators as a JSON HTTP API.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/newtown/billsplitter/internal/extraction"
	"github.com/newtown/billsplitter/internal/imagestore"
	"github.com/newtown/billsplitter/internal/ledger"
	"github.com/newtown/billsplitter/internal/middleware"
)

// Server wires the ledger, the extraction collaborator, and the optional
// receipt image archive behind the HTTP API.
type Server struct {
	ledger    *ledger.Ledger
	extractor extraction.Extractor
	images    *imagestore.Client // nil disables archiving
	jobs      *jobRegistry
}

// New creates a Server. images may be nil.
func New(l *ledger.Ledger, extractor extraction.Extractor, images *imagestore.Client) *Server {
	return &Server{
		ledger:    l,
		extractor: extractor,
		images:    images,
		jobs:      newJobRegistry(),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), cors.Default())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/members", s.listMembers)
	r.POST("/members", s.addMember)
	r.DELETE("/members/:id", s.removeMember)

	r.GET("/items", s.listItems)
	r.POST("/items", s.addItem)
	r.PATCH("/items/:id", s.updateItem)
	r.DELETE("/items/:id", s.removeItem)
	r.PUT("/items/:id/assignments/:memberID", s.setAssignment)
	r.POST("/items/:id/split-evenly", s.splitEvenly)
	r.DELETE("/items", s.clearItems)
	r.DELETE("/bill", s.clearAll)

	r.PUT("/discount", s.setDiscount)
	r.GET("/totals", s.getTotals)
	r.GET("/breakdowns", s.getBreakdowns)

	r.POST("/receipts", s.uploadReceipt)
	r.GET("/receipts/:id", s.getReceiptJob)

	return r
}
