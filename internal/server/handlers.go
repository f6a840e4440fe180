package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zosconnect/orchestrate/internal/client"
	"github.com/zosconnect/orchestrate/pkg/api"
	"github.com/zosconnect/orchestrate/pkg/log"
)

func (s *Server) handleContact(c *gin.Context) {
	res, err := s.orch.LookupContact(c.Request.Context(), c.Param("lname"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleOrder(c *gin.Context) {
	var req api.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %w", api.ErrInvalidRequest, err))
		return
	}

	res, err := s.orch.PlaceOrder(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleClaimQuery(c *gin.Context) {
	req, err := api.ParseClaimRequest(
		c.Query("claimType"), c.Query("claimAmount"),
	)
	if err != nil {
		writeError(c, err)
		return
	}
	s.evaluateClaim(c, req)
}

func (s *Server) handleClaimBody(c *gin.Context) {
	var body api.ClaimBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, fmt.Errorf("%w: %w", api.ErrInvalidRequest, err))
		return
	}
	req, err := body.Request()
	if err != nil {
		writeError(c, err)
		return
	}
	s.evaluateClaim(c, req)
}

func (s *Server) evaluateClaim(c *gin.Context, req *api.ClaimRequest) {
	res, err := s.orch.EvaluateClaim(req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// writeError maps a flow error onto an HTTP response. Upstream failures
// reuse the upstream's status when it sent an error status
func writeError(c *gin.Context, err error) {
	var ue *client.UpstreamError
	switch {
	case errors.Is(err, api.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  err.Error(),
			Status: http.StatusBadRequest,
		})

	case errors.As(err, &ue):
		status := http.StatusInternalServerError
		if ue.Status >= http.StatusBadRequest {
			status = ue.Status
		}
		c.JSON(status, api.ErrorResponse{
			Error:    err.Error(),
			Status:   status,
			Upstream: ue.Upstream,
			Detail:   ue.Detail,
		})

	default:
		slog.Error("Request failed",
			log.RequestID(c.GetString(requestIDKey)),
			log.Error(err))
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Error:  err.Error(),
			Status: http.StatusInternalServerError,
		})
	}
}
