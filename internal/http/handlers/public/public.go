package public

import (
	"strings"
	"time"

	"github.com/shopfinity/internal/cache"
	"github.com/shopfinity/internal/constants"
	handlershared "github.com/shopfinity/internal/http/handlers/shared"
	"github.com/shopfinity/internal/http/response"
	"github.com/shopfinity/internal/models"
	"github.com/shopfinity/internal/service"

	"github.com/gin-gonic/gin"
)

const categoriesCacheTTL = 60 * time.Second

// PublicProductView 公共商品响应结构
type PublicProductView struct {
	models.Product
	PrimaryImage string `json:"primary_image"`
	IsSoldOut    bool   `json:"is_sold_out"`
}

func decoratePublicProduct(product *models.Product) PublicProductView {
	return PublicProductView{
		Product:      *product,
		PrimaryImage: product.PrimaryImageURL(),
		IsSoldOut:    product.Status == constants.ProductStatusSold || product.Quantity <= 0,
	}
}

// GetProducts 商城商品列表
// 支持 category（分类 slug）、condition、min_price、max_price、search、sort 筛选
func (h *Handler) GetProducts(c *gin.Context) {
	page, pageSize := handlershared.PaginationFromQuery(c)

	products, total, err := h.ProductService.List(service.ProductListInput{
		Page:      page,
		PageSize:  pageSize,
		Category:  strings.TrimSpace(c.Query("category")),
		Condition: strings.TrimSpace(c.Query("condition")),
		MinPrice:  strings.TrimSpace(c.Query("min_price")),
		MaxPrice:  strings.TrimSpace(c.Query("max_price")),
		Search:    strings.TrimSpace(c.Query("search")),
		Sort:      strings.TrimSpace(c.Query("sort")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}

	decorated := make([]PublicProductView, 0, len(products))
	for i := range products {
		decorated = append(decorated, decoratePublicProduct(&products[i]))
	}
	response.SuccessWithPage(c, decorated, response.BuildPagination(page, pageSize, total))
}

// GetProductBySlug 根据 slug 获取商品详情
func (h *Handler) GetProductBySlug(c *gin.Context) {
	product, err := h.ProductService.GetBySlug(c.Param("slug"))
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.product_fetch_failed")
		return
	}
	response.Success(c, decoratePublicProduct(product))
}

// GetCategories 获取分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	var cached []models.Category
	if hit, err := cache.GetJSON(c.Request.Context(), constants.CacheKeyPublicCategories, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	categories, err := h.CategoryService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.category_fetch_failed", err)
		return
	}
	if err := cache.SetJSON(c.Request.Context(), constants.CacheKeyPublicCategories, categories, categoriesCacheTTL); err != nil {
		requestLog(c).Warnw("public_categories_cache_set_failed", "error", err)
	}
	response.Success(c, categories)
}
