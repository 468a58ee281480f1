package services

import (
	"context"

	"smsportal/internal/models"
	"smsportal/internal/repositories"
)

const maxPageSize = 100

type HistoryService interface {
	Record(ctx context.Context, rec *models.MessageRecord) error
	// ListPage is 1-based. Pages outside [1, TotalPages] are clamped to the
	// nearest valid page; pageSize <= 0 uses the default.
	ListPage(ctx context.Context, kind models.MessageKind, page, pageSize int) (*models.Page, error)
}

type historyService struct {
	repo            repositories.HistoryRepository
	defaultPageSize int
}

func NewHistoryService(repo repositories.HistoryRepository, defaultPageSize int) HistoryService {
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}
	return &historyService{repo: repo, defaultPageSize: defaultPageSize}
}

func (s *historyService) Record(ctx context.Context, rec *models.MessageRecord) error {
	return s.repo.Create(ctx, rec)
}

func (s *historyService) ListPage(ctx context.Context, kind models.MessageKind, page, pageSize int) (*models.Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	total, err := s.repo.Count(ctx, kind)
	if err != nil {
		return nil, err
	}
	pages := (total + pageSize - 1) / pageSize
	if pages == 0 {
		pages = 1
	}
	// keeps (page-1)*pageSize within total so the offset cannot overflow
	if page > pages {
		page = pages
	}

	recs, err := s.repo.List(ctx, kind, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return &models.Page{
		Records:    recs,
		Number:     page,
		Size:       pageSize,
		Total:      total,
		TotalPages: pages,
	}, nil
}
