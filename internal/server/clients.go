package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	clientdomain "github.com/tallybook/tallybook/internal/client/domain"
)

func (s *Server) ListClients(c *gin.Context) {
	includeArchived, _ := strconv.ParseBool(strings.TrimSpace(c.Query("include_archived")))

	resp, err := s.clientSvc.List(c.Request.Context(), clientdomain.ListRequest{
		CompanyID:       c.Query("company_id"),
		Name:            c.Query("name"),
		Email:           c.Query("email"),
		IncludeArchived: includeArchived,
		SortBy:          c.Query("sort_by"),
		OrderBy:         c.Query("order_by"),
		Pagination:      parsePagination(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateClient(c *gin.Context) {
	var req clientdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	created, err := s.clientSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) GetClientByID(c *gin.Context) {
	found, err := s.clientSvc.Get(c.Request.Context(), c.Query("company_id"), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (s *Server) UpdateClient(c *gin.Context) {
	var req clientdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = c.Param("id")

	updated, err := s.clientSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) ArchiveClient(c *gin.Context) {
	archived, err := s.clientSvc.Archive(c.Request.Context(), c.Query("company_id"), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, archived)
}
