package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopfinity/internal/cart"
	"github.com/shopfinity/internal/constants"
	"github.com/shopfinity/internal/models"
	"github.com/shopfinity/internal/repository"

	"github.com/google/uuid"
)

var (
	slugStripPattern = regexp.MustCompile(`[^\w\s]`)
	slugSpacePattern = regexp.MustCompile(`\s+`)
)

// ProductService 商品业务服务
type ProductService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	now          func() time.Time
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductService {
	return &ProductService{
		repo:         repo,
		categoryRepo: categoryRepo,
		now:          time.Now,
	}
}

// ProductListInput 商城列表查询参数
type ProductListInput struct {
	Page      int
	PageSize  int
	Category  string
	Condition string
	MinPrice  string
	MaxPrice  string
	Search    string
	Sort      string
}

// CreateListingInput 发布商品输入
type CreateListingInput struct {
	SellerID    uint
	CategoryID  uint
	Title       string
	Description string
	Price       string
	Condition   string
	Quantity    int
	City        string
	Country     string
}

// List 获取在售商品列表
func (s *ProductService) List(input ProductListInput) ([]models.Product, int64, error) {
	return s.repo.List(repository.ProductListFilter{
		Page:         input.Page,
		PageSize:     input.PageSize,
		CategorySlug: input.Category,
		Condition:    strings.ToLower(strings.TrimSpace(input.Condition)),
		MinPrice:     input.MinPrice,
		MaxPrice:     input.MaxPrice,
		Search:       input.Search,
		Sort:         input.Sort,
		OnlyActive:   true,
	})
}

// ListBySeller 获取卖家发布的全部商品（含已售与下架）
func (s *ProductService) ListBySeller(sellerID uint, page, pageSize int) ([]models.Product, int64, error) {
	if sellerID == 0 {
		return nil, 0, ErrNotFound
	}
	return s.repo.List(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		SellerID: sellerID,
	})
}

// GetBySlug 获取在售商品详情
func (s *ProductService) GetBySlug(slug string) (*models.Product, error) {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return nil, ErrProductNotFound
	}
	product, err := s.repo.GetBySlug(trimmed, true)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetByID 根据 ID 获取商品
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrProductNotFound
	}
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// CreateListing 发布商品，状态默认为在售
func (s *ProductService) CreateListing(input CreateListingInput) (*models.Product, error) {
	if input.SellerID == 0 {
		return nil, ErrAuthRequired
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrInvalidListing
	}
	price, err := models.ParseMoney(input.Price)
	if err != nil || !price.Decimal.IsPositive() {
		return nil, ErrInvalidPrice
	}
	condition := strings.ToLower(strings.TrimSpace(input.Condition))
	if condition == "" {
		condition = constants.ProductConditionNew
	}
	if !isValidCondition(condition) {
		return nil, ErrInvalidCondition
	}
	if input.CategoryID == 0 {
		return nil, ErrCategoryNotFound
	}
	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	quantity := input.Quantity
	if quantity < 1 {
		quantity = 1
	}

	now := s.now()
	slug, err := s.uniqueSlug(title, now)
	if err != nil {
		return nil, err
	}
	product := &models.Product{
		SellerID:    input.SellerID,
		CategoryID:  category.ID,
		Title:       title,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		PriceAmount: price,
		Condition:   condition,
		Quantity:    quantity,
		City:        strings.TrimSpace(input.City),
		Country:     strings.TrimSpace(input.Country),
		Status:      constants.ProductStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	product.Category = *category
	return product, nil
}

// Snapshot 读取商品快照，供本地购物车刷新展示信息
func (s *ProductService) Snapshot(_ context.Context, productID string) (cart.ProductSnapshot, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(productID), 10, 64)
	if err != nil || id == 0 {
		return cart.ProductSnapshot{}, ErrProductNotFound
	}
	product, err := s.GetByID(uint(id))
	if err != nil {
		return cart.ProductSnapshot{}, err
	}
	return cart.SnapshotFromProduct(product), nil
}

// RequirePurchasable 校验商品存在且在售
func (s *ProductService) RequirePurchasable(productID string) (*models.Product, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(productID), 10, 64)
	if err != nil || id == 0 {
		return nil, ErrProductNotFound
	}
	product, err := s.GetByID(uint(id))
	if err != nil {
		return nil, err
	}
	if product.Status != constants.ProductStatusActive {
		return nil, ErrProductUnavailable
	}
	return product, nil
}

func (s *ProductService) uniqueSlug(title string, now time.Time) (string, error) {
	slug := buildListingSlug(title, now)
	count, err := s.repo.CountBySlug(slug)
	if err != nil {
		return "", err
	}
	if count == 0 {
		return slug, nil
	}
	// 同一毫秒尾号撞车时追加随机后缀
	return fmt.Sprintf("%s-%s", slug, uuid.NewString()[:4]), nil
}

// buildListingSlug 标题转小写，去掉非单词字符，空白替换为连字符，再拼接毫秒时间戳末 6 位
func buildListingSlug(title string, now time.Time) string {
	base := strings.ToLower(title)
	base = slugStripPattern.ReplaceAllString(base, "")
	base = slugSpacePattern.ReplaceAllString(base, "-")
	millis := strconv.FormatInt(now.UnixMilli(), 10)
	if len(millis) > 6 {
		millis = millis[len(millis)-6:]
	}
	return base + "-" + millis
}

func isValidCondition(condition string) bool {
	switch condition {
	case constants.ProductConditionNew,
		constants.ProductConditionLikeNew,
		constants.ProductConditionGood,
		constants.ProductConditionFair,
		constants.ProductConditionPoor:
		return true
	default:
		return false
	}
}
