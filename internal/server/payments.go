package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/tallybook/tallybook/internal/payment/domain"
)

func (s *Server) RecordPayment(c *gin.Context) {
	var req paymentdomain.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	recorded, err := s.paymentSvc.Record(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recorded)
}

func (s *Server) DeletePayment(c *gin.Context) {
	err := s.paymentSvc.Delete(c.Request.Context(), paymentdomain.DeleteRequest{
		CompanyID: c.Query("company_id"),
		ID:        c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListDocumentPayments(c *gin.Context) {
	payments, err := s.paymentSvc.List(c.Request.Context(), paymentdomain.ListRequest{
		CompanyID:  c.Query("company_id"),
		DocumentID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
