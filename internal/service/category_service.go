package service

import (
	"time"

	"github.com/shopfinity/internal/logger"
	"github.com/shopfinity/internal/models"
	"github.com/shopfinity/internal/repository"
)

// CategoryService 分类业务服务
type CategoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// SeedResult 分类初始化结果
type SeedResult struct {
	Seeded   bool `json:"seeded"`
	Inserted int  `json:"inserted"`
	Existing int  `json:"existing"`
}

// List 获取分类列表
func (s *CategoryService) List() ([]models.Category, error) {
	return s.repo.List()
}

// Seed 写入默认分类；已有任意分类时不做任何写入
func (s *CategoryService) Seed() (*SeedResult, error) {
	count, err := s.repo.Count()
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return &SeedResult{Seeded: false, Existing: int(count)}, nil
	}

	categories := models.DefaultCategories()
	now := time.Now()
	for i := range categories {
		categories[i].CreatedAt = now
	}
	if err := s.repo.CreateBatch(categories); err != nil {
		return nil, err
	}
	logger.Infow("category_seeded", "inserted", len(categories))
	return &SeedResult{Seeded: true, Inserted: len(categories)}, nil
}
