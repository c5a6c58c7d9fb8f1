package services

import (
	"context"

	"counterpos/internal/domain"
	"counterpos/internal/repos"
)

type CatalogService struct {
	Prods *repos.ProductRepo
	Svcs  *repos.ServiceRepo
	Guard Guard
}

func NewCatalogService(prods *repos.ProductRepo, svcs *repos.ServiceRepo) *CatalogService {
	return &CatalogService{Prods: prods, Svcs: svcs}
}

func (s *CatalogService) ListProducts(ctx context.Context, actor *domain.StaffUser) ([]domain.Product, error) {
	if err := s.Guard.Authorize(actor, RolesAuthenticated).Err(); err != nil {
		return nil, err
	}
	return s.Prods.List(ctx, false)
}

func (s *CatalogService) GetProduct(ctx context.Context, actor *domain.StaffUser, id string) (domain.Product, error) {
	if err := s.Guard.Authorize(actor, RolesAuthenticated).Err(); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(ctx, nil, id)
}

func (s *CatalogService) ListServices(ctx context.Context, actor *domain.StaffUser) ([]domain.Service, error) {
	if err := s.Guard.Authorize(actor, RolesAuthenticated).Err(); err != nil {
		return nil, err
	}
	return s.Svcs.List(ctx)
}
