package repository

import (
	"strings"

	"github.com/shopfinity/internal/constants"
	"github.com/shopfinity/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetBySlug(slug string, onlyActive bool) (*models.Product, error)
	GetByID(id uint) (*models.Product, error)
	Create(product *models.Product) error
	CountBySlug(slug string) (int64, error)
	CreateImage(image *models.ProductImage) error
	CountImages(productID uint) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Transaction 执行事务
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

func preloadImages(db *gorm.DB) *gorm.DB {
	return db.Order("is_primary DESC, sort_order ASC, id ASC")
}

// List 商品列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	var products []models.Product

	query := r.db.Model(&models.Product{}).
		Preload("Category").
		Preload("Images", preloadImages)
	if filter.OnlyActive {
		query = query.Where("products.status = ?", constants.ProductStatusActive)
	}
	if filter.SellerID != 0 {
		query = query.Where("products.seller_id = ?", filter.SellerID)
	}
	if slug := strings.TrimSpace(filter.CategorySlug); slug != "" {
		query = query.Where("products.category_id IN (?)",
			r.db.Model(&models.Category{}).Select("id").Where("slug = ?", slug))
	}
	if condition := strings.TrimSpace(filter.Condition); condition != "" {
		query = query.Where("products.condition = ?", condition)
	}
	if minPrice, ok := parsePriceBound(filter.MinPrice); ok {
		query = query.Where("products.price_amount >= ?", minPrice)
	}
	if maxPrice, ok := parsePriceBound(filter.MaxPrice); ok {
		query = query.Where("products.price_amount <= ?", maxPrice)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, args := searchCondition(r.db, search, "products.title")
		query = query.Where(condition, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = paginate(query, filter.Page, filter.PageSize)

	if err := query.Order(productSortClause(filter.Sort)).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func productSortClause(sort string) string {
	switch strings.ToLower(strings.TrimSpace(sort)) {
	case constants.ProductSortPriceAsc:
		return "products.price_amount ASC, products.id DESC"
	case constants.ProductSortPriceDesc:
		return "products.price_amount DESC, products.id DESC"
	default:
		return "products.created_at DESC, products.id DESC"
	}
}

// parsePriceBound 解析价格区间边界，非法值视为未设置
func parsePriceBound(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil || value.IsNegative() {
		return "", false
	}
	return value.Round(2).StringFixed(2), true
}

// GetBySlug 根据 slug 获取商品
func (r *GormProductRepository) GetBySlug(slug string, onlyActive bool) (*models.Product, error) {
	query := r.db.Preload("Category").Preload("Images", preloadImages).Where("slug = ?", slug)
	if onlyActive {
		query = query.Where("status = ?", constants.ProductStatusActive)
	}

	return firstOrNil[models.Product](query)
}

// GetByID 根据 ID 获取商品
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	return firstOrNil[models.Product](r.db.Preload("Category").Preload("Images", preloadImages), id)
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// CountBySlug 统计 slug 数量
func (r *GormProductRepository) CountBySlug(slug string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateImage 写入商品图片
func (r *GormProductRepository) CreateImage(image *models.ProductImage) error {
	return r.db.Create(image).Error
}

// CountImages 统计商品已有图片数量
func (r *GormProductRepository) CountImages(productID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.ProductImage{}).Where("product_id = ?", productID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
