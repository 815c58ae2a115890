package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/taskflow/internal/app"
	"github.com/alexanderramin/taskflow/internal/contract"
	"github.com/alexanderramin/taskflow/internal/repository"
)

// writeError maps store errors onto status codes. Unexpected errors are
// logged and reported without detail.
func (s *Server) writeError(c *gin.Context, err error) {
	var invalid *app.ValidationError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, contract.ErrorResponse{Error: "Not found"})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, contract.ErrorResponse{Error: invalid.Message})
	default:
		s.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, contract.ErrorResponse{Error: "Internal server error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, contract.ErrorResponse{Error: message})
}

// pathID reads the :id parameter. A malformed id answers 404.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, contract.ErrorResponse{Error: "Not found"})
		return 0, false
	}
	return id, true
}
