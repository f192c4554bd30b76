package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) listMembers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"members": s.ledger.Members()})
}

func (s *Server) addMember(c *gin.Context) {
	var req struct {
		Name  string `json:"name"`
		Emoji string `json:"emoji"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	member, err := s.ledger.AddMember(c.Request.Context(), req.Name, req.Emoji)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (s *Server) removeMember(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.ledger.RemoveMember(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
