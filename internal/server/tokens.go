package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	tokenledgerdomain "github.com/rextra/rextra/internal/tokenledger/domain"
)

func (s *Server) ListTokenTransactions(c *gin.Context) {
	var req tokenledgerdomain.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tokenLedgerSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) TokenTransactionSummary(c *gin.Context) {
	resp, err := s.tokenLedgerSvc.Summary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RecordCustomPurchase(c *gin.Context) {
	var req tokenledgerdomain.CustomPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tokenLedgerSvc.RecordCustomPurchase(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RecordBundlePurchase(c *gin.Context) {
	var req tokenledgerdomain.BundlePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tokenLedgerSvc.RecordBundlePurchase(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RecordTokenAdjustment(c *gin.Context) {
	var req tokenledgerdomain.AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tokenLedgerSvc.RecordAdjustment(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
