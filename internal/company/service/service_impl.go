package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	companydomain "github.com/tallybook/tallybook/internal/company/domain"
	"github.com/tallybook/tallybook/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  companydomain.Repository
}

type service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  companydomain.Repository
}

func NewService(p ServiceParam) companydomain.Service {
	return &service{
		log:   p.Log.Named("company.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *service) Create(ctx context.Context, req companydomain.CreateRequest) (*companydomain.Company, error) {
	now := time.Now().UTC()
	company := &companydomain.Company{
		ID:           s.genID.Generate(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		CurrencyCode: normalizeCurrency(req.CurrencyCode),

		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		CountryCode:  strings.ToUpper(strings.TrimSpace(req.CountryCode)),
		VATNumber:    req.VATNumber,

		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := company.Validate(); err != nil {
		return nil, err
	}
	company.Slug = s.uniqueSlug(ctx, company.Name)

	if err := s.repo.Create(ctx, company); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, companydomain.ErrSlugTaken
		}
		return nil, err
	}

	s.log.Info("company created",
		zap.String("company_id", company.ID.String()),
		zap.String("slug", company.Slug),
	)
	return company, nil
}

func (s *service) Get(ctx context.Context, id string) (*companydomain.Company, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, companydomain.ErrCompanyNotFound
	}
	company, err := s.repo.FindByID(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, companydomain.ErrCompanyNotFound
	}
	return company, nil
}

func (s *service) GetBySlug(ctx context.Context, rawSlug string) (*companydomain.Company, error) {
	company, err := s.repo.FindBySlug(ctx, strings.TrimSpace(rawSlug))
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, companydomain.ErrCompanyNotFound
	}
	return company, nil
}

func (s *service) List(ctx context.Context) ([]companydomain.Company, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, req companydomain.UpdateRequest) (*companydomain.Company, error) {
	company, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		company.Name = strings.TrimSpace(*req.Name)
		company.Slug = s.uniqueSlug(ctx, company.Name)
	}
	if req.Email != nil {
		company.Email = strings.TrimSpace(*req.Email)
	}
	if req.CurrencyCode != nil {
		company.CurrencyCode = normalizeCurrency(*req.CurrencyCode)
	}
	if req.AddressLine1 != nil {
		company.AddressLine1 = *req.AddressLine1
	}
	if req.AddressLine2 != nil {
		company.AddressLine2 = *req.AddressLine2
	}
	if req.City != nil {
		company.City = *req.City
	}
	if req.State != nil {
		company.State = *req.State
	}
	if req.PostalCode != nil {
		company.PostalCode = *req.PostalCode
	}
	if req.CountryCode != nil {
		company.CountryCode = strings.ToUpper(strings.TrimSpace(*req.CountryCode))
	}
	if req.VATNumber != nil {
		company.VATNumber = *req.VATNumber
	}

	if err := company.Validate(); err != nil {
		return nil, err
	}
	company.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// uniqueSlug appends a numeric suffix until the slug is free.
func (s *service) uniqueSlug(ctx context.Context, name string) string {
	base := slug.Make(name)
	candidate := base
	for i := 2; ; i++ {
		existing, err := s.repo.FindBySlug(ctx, candidate)
		if err != nil || existing == nil {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func normalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "USD"
	}
	return code
}
