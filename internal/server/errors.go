package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/newtown/billsplitter/internal/ledger"
)

// respondError maps domain errors to HTTP statuses: validation failures to
// 400, unknown ids to 404, everything else to 500.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var verr *ledger.ValidationError
	var nferr *ledger.NotFoundError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.As(err, &nferr):
		c.JSON(http.StatusNotFound, gin.H{"error": nferr.Error()})
	default:
		slog.Error("Request handling failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// pathID parses an int64 id path parameter; a malformed value yields 400
// and false.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
