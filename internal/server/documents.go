package server

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	documentdomain "github.com/tallybook/tallybook/internal/document/domain"
)

func (s *Server) ListDocuments(c *gin.Context) {
	req := documentdomain.ListRequest{
		CompanyID:  c.Query("company_id"),
		DocType:    documentdomain.DocType(c.Query("doc_type")),
		Status:     documentdomain.Status(c.Query("status")),
		ClientID:   c.Query("client_id"),
		SortBy:     c.Query("sort_by"),
		OrderBy:    c.Query("order_by"),
		Pagination: parsePagination(c),
	}

	resp, err := s.documentSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateDocument(c *gin.Context) {
	var req documentdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	doc, err := s.documentSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (s *Server) GetDocumentByID(c *gin.Context) {
	doc, err := s.documentSvc.Get(c.Request.Context(), documentdomain.GetRequest{
		CompanyID: c.Query("company_id"),
		ID:        c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) UpdateDocument(c *gin.Context) {
	var req documentdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = c.Param("id")

	doc, err := s.documentSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) UpsertDocumentLine(c *gin.Context) {
	var req documentdomain.UpsertLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.DocumentID = c.Param("id")

	doc, err := s.documentSvc.UpsertLineItem(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) DeleteDocumentLine(c *gin.Context) {
	doc, err := s.documentSvc.DeleteLineItem(c.Request.Context(), documentdomain.DeleteLineItemRequest{
		CompanyID:  c.Query("company_id"),
		DocumentID: c.Param("id"),
		LineID:     c.Param("lineId"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) MarkDocumentSent(c *gin.Context) {
	s.transition(c, s.documentSvc.MarkSent)
}

func (s *Server) VoidDocument(c *gin.Context) {
	s.transition(c, s.documentSvc.VoidDocument)
}

func (s *Server) ConvertQuote(c *gin.Context) {
	s.transition(c, s.documentSvc.ConvertQuote)
}

func (s *Server) RecomputeDocument(c *gin.Context) {
	doc, err := s.documentSvc.Recompute(c.Request.Context(), documentdomain.GetRequest{
		CompanyID: c.Query("company_id"),
		ID:        c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) RenderDocument(c *gin.Context) {
	reader, err := s.renderSvc.RenderDocument(c.Request.Context(), c.Query("company_id"), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

func (s *Server) transition(c *gin.Context, op func(ctx context.Context, req documentdomain.TransitionRequest) (*documentdomain.Document, error)) {
	doc, err := op(c.Request.Context(), documentdomain.TransitionRequest{
		CompanyID: c.Query("company_id"),
		ID:        c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}
