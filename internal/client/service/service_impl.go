package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/tallybook/tallybook/internal/client/domain"
	"github.com/tallybook/tallybook/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  clientdomain.Repository
}

type service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  clientdomain.Repository
}

func NewService(p ServiceParam) clientdomain.Service {
	return &service{
		log:   p.Log.Named("client.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *service) Create(ctx context.Context, req clientdomain.CreateRequest) (*clientdomain.Client, error) {
	companyID, err := snowflake.ParseString(strings.TrimSpace(req.CompanyID))
	if err != nil {
		return nil, clientdomain.ErrMissingCompany
	}

	now := time.Now().UTC()
	client := &clientdomain.Client{
		ID:        s.genID.Generate(),
		CompanyID: companyID,

		Name:         strings.TrimSpace(req.Name),
		ContactName:  strings.TrimSpace(req.ContactName),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		CurrencyCode: strings.ToUpper(strings.TrimSpace(req.CurrencyCode)),

		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		CountryCode:  strings.ToUpper(strings.TrimSpace(req.CountryCode)),

		VATNumber:       req.VATNumber,
		PaymentTermDays: req.PaymentTermDays,

		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := client.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}

	s.log.Info("client created",
		zap.String("client_id", client.ID.String()),
		zap.String("company_id", client.CompanyID.String()),
	)
	return client, nil
}

func (s *service) Get(ctx context.Context, companyID, id string) (*clientdomain.Client, error) {
	company, err := snowflake.ParseString(strings.TrimSpace(companyID))
	if err != nil {
		return nil, clientdomain.ErrClientNotFound
	}
	clientID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, clientdomain.ErrClientNotFound
	}

	client, err := s.repo.FindByID(ctx, company, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, clientdomain.ErrClientNotFound
	}
	return client, nil
}

func (s *service) List(ctx context.Context, req clientdomain.ListRequest) (*clientdomain.ListResponse, error) {
	companyID, err := snowflake.ParseString(strings.TrimSpace(req.CompanyID))
	if err != nil {
		return nil, clientdomain.ErrMissingCompany
	}

	clients, err := s.repo.List(ctx, companyID, clientdomain.ListFilter{
		Name:            req.Name,
		Email:           req.Email,
		IncludeArchived: req.IncludeArchived,
		SortBy:          req.SortBy,
		OrderBy:         req.OrderBy,
	}, req.Pagination)
	if err != nil {
		return nil, err
	}

	size := req.Pagination.PageSize
	if size <= 0 {
		size = 10
	}
	clients, pageInfo := pagination.BuildCursorPageInfo(clients, size, func(c clientdomain.Client) pagination.Cursor {
		return pagination.Cursor{
			ID:        c.ID.String(),
			CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
	})

	return &clientdomain.ListResponse{Clients: clients, PageInfo: pageInfo}, nil
}

func (s *service) Update(ctx context.Context, req clientdomain.UpdateRequest) (*clientdomain.Client, error) {
	client, err := s.Get(ctx, req.CompanyID, req.ID)
	if err != nil {
		return nil, err
	}
	if client.ArchivedAt != nil {
		return nil, clientdomain.ErrClientArchived
	}

	if req.Name != nil {
		client.Name = strings.TrimSpace(*req.Name)
	}
	if req.ContactName != nil {
		client.ContactName = strings.TrimSpace(*req.ContactName)
	}
	if req.Email != nil {
		client.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		client.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.CurrencyCode != nil {
		client.CurrencyCode = strings.ToUpper(strings.TrimSpace(*req.CurrencyCode))
	}
	if req.AddressLine1 != nil {
		client.AddressLine1 = *req.AddressLine1
	}
	if req.AddressLine2 != nil {
		client.AddressLine2 = *req.AddressLine2
	}
	if req.City != nil {
		client.City = *req.City
	}
	if req.State != nil {
		client.State = *req.State
	}
	if req.PostalCode != nil {
		client.PostalCode = *req.PostalCode
	}
	if req.CountryCode != nil {
		client.CountryCode = strings.ToUpper(strings.TrimSpace(*req.CountryCode))
	}
	if req.VATNumber != nil {
		client.VATNumber = *req.VATNumber
	}
	if req.PaymentTermDays != nil {
		client.PaymentTermDays = *req.PaymentTermDays
	}

	if err := client.Validate(); err != nil {
		return nil, err
	}
	client.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *service) Archive(ctx context.Context, companyID, id string) (*clientdomain.Client, error) {
	client, err := s.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if client.ArchivedAt != nil {
		return client, nil
	}

	now := time.Now().UTC()
	client.ArchivedAt = &now
	client.UpdatedAt = now

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}
