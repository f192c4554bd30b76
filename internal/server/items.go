package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/newtown/billsplitter/internal/ledger"
	"github.com/newtown/billsplitter/internal/models"
)

func (s *Server) listItems(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": s.ledger.Items()})
}

func (s *Server) addItem(c *gin.Context) {
	var req struct {
		Name     string          `json:"name"`
		Price    decimal.Decimal `json:"price"`
		ItemType models.ItemType `json:"itemType"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	item, err := s.ledger.AddItem(req.Name, req.Price, req.ItemType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) updateItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name       *string          `json:"name"`
		Price      *decimal.Decimal `json:"price"`
		ItemType   *models.ItemType `json:"itemType"`
		IsMultibuy *bool            `json:"isMultibuy"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	item, err := s.ledger.UpdateItem(id, ledger.ItemUpdate{
		Name:       req.Name,
		Price:      req.Price,
		ItemType:   req.ItemType,
		IsMultibuy: req.IsMultibuy,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) removeItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.ledger.RemoveItem(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) setAssignment(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}
	memberID, ok := pathID(c, "memberID")
	if !ok {
		return
	}

	var req struct {
		Assigned bool `json:"assigned"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := s.ledger.SetItemAssignment(itemID, memberID, req.Assigned); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) splitEvenly(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := s.ledger.SplitEvenly(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) clearItems(c *gin.Context) {
	s.ledger.ClearItems()
	c.Status(http.StatusNoContent)
}

func (s *Server) clearAll(c *gin.Context) {
	if err := s.ledger.ClearAll(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
