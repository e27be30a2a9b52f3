package public

import (
	"encoding/json"
	"errors"
	"strconv"

	handlershared "github.com/shopfinity/internal/http/handlers/shared"
	"github.com/shopfinity/internal/http/response"
	"github.com/shopfinity/internal/i18n"
	"github.com/shopfinity/internal/service"

	"github.com/gin-gonic/gin"
)

const listingImagesField = "images"

// CreateListingRequest 发布商品请求
type CreateListingRequest struct {
	CategoryID  uint        `json:"category_id" binding:"required"`
	Title       string      `json:"title" binding:"required"`
	Description string      `json:"description"`
	Price       json.Number `json:"price" binding:"required"`
	Condition   string      `json:"condition"`
	Quantity    int         `json:"quantity"`
	City        string      `json:"city"`
	Country     string      `json:"country"`
}

// CreateListing 发布商品
func (h *Handler) CreateListing(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	product, err := h.ProductService.CreateListing(service.CreateListingInput{
		SellerID:    uid,
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price.String(),
		Condition:   req.Condition,
		Quantity:    req.Quantity,
		City:        req.City,
		Country:     req.Country,
	})
	if err != nil {
		respondListingError(c, err)
		return
	}
	requestLog(c).Infow("listing_created", "product_id", product.ID, "seller_id", uid, "slug", product.Slug)
	response.Success(c, product)
}

// UploadListingImages 上传商品图片（multipart 字段 images，可多张）
func (h *Handler) UploadListingImages(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "error.product_id_invalid", nil)
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.UploadService.UploadListingImages(c.Request.Context(), uid, uint(productID), form.File[listingImagesField])
	if errors.Is(err, service.ErrNoValidImages) && result != nil {
		// 全部失败时带回每张图片的跳过原因
		msg := i18n.T(i18n.ResolveLocale(c), "error.images_none_valid")
		response.ErrorWithData(c, response.CodeBadRequest, msg, gin.H{"skipped": result.Skipped})
		return
	}
	if err != nil {
		respondImageError(c, err)
		return
	}
	response.Success(c, result)
}

// ListMyListings 当前用户发布的商品
func (h *Handler) ListMyListings(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.PaginationFromQuery(c)

	products, total, err := h.ProductService.ListBySeller(uid, page, pageSize)
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
