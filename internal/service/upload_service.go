package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopfinity/internal/config"
	"github.com/shopfinity/internal/logger"
	"github.com/shopfinity/internal/models"
	"github.com/shopfinity/internal/repository"
	"github.com/shopfinity/internal/storage"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

const defaultMaxListingImages = 5

var extensionByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadService 商品图片上传服务
type UploadService struct {
	cfg         *config.Config
	productRepo repository.ProductRepository
	storage     *storage.Manager
	now         func() time.Time
}

// NewUploadService 创建商品图片上传服务
func NewUploadService(cfg *config.Config, productRepo repository.ProductRepository, store *storage.Manager) *UploadService {
	return &UploadService{
		cfg:         cfg,
		productRepo: productRepo,
		storage:     store,
		now:         time.Now,
	}
}

// SkippedImage 未能保存的图片及原因
type SkippedImage struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// UploadImagesResult 图片上传结果
type UploadImagesResult struct {
	Images  []models.ProductImage `json:"images"`
	Skipped []SkippedImage        `json:"skipped"`
}

// UploadListingImages 为卖家自己的商品上传图片
// 单张失败时跳过继续处理其余图片，全部失败返回 ErrNoValidImages
func (s *UploadService) UploadListingImages(ctx context.Context, sellerID, productID uint, files []*multipart.FileHeader) (*UploadImagesResult, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	if len(files) == 0 {
		return nil, ErrNoValidImages
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.SellerID != sellerID {
		return nil, ErrForbidden
	}

	existing, err := s.productRepo.CountImages(productID)
	if err != nil {
		return nil, err
	}
	if int(existing)+len(files) > s.maxImages() {
		return nil, ErrTooManyImages
	}

	bucket := s.cfg.Storage.ImageBucket
	if _, err := s.storage.LoadBucketConfig(ctx, bucket); err != nil {
		logger.Warnw("product_image_bucket_unavailable", "bucket", bucket, "error", err)
		return nil, ErrStorageUnavailable
	}

	result := &UploadImagesResult{
		Images:  make([]models.ProductImage, 0, len(files)),
		Skipped: make([]SkippedImage, 0),
	}
	stamp := s.now().UnixMilli()
	for i, file := range files {
		img, err := s.storeImage(ctx, bucket, productID, stamp, i, file)
		if err != nil {
			logger.Warnw("product_image_upload_failed",
				"product_id", productID,
				"filename", file.Filename,
				"error", err,
			)
			result.Skipped = append(result.Skipped, SkippedImage{Filename: file.Filename, Reason: skipReason(err)})
			continue
		}
		img.IsPrimary = existing == 0 && len(result.Images) == 0
		img.SortOrder = int(existing) + i
		if err := s.productRepo.CreateImage(img); err != nil {
			logger.Warnw("product_image_record_failed", "product_id", productID, "key", img.ObjectKey, "error", err)
			_ = s.storage.Delete(ctx, bucket, img.ObjectKey)
			result.Skipped = append(result.Skipped, SkippedImage{Filename: file.Filename, Reason: "record_failed"})
			continue
		}
		result.Images = append(result.Images, *img)
	}

	if len(result.Images) == 0 {
		return result, ErrNoValidImages
	}
	return result, nil
}

func (s *UploadService) storeImage(ctx context.Context, bucket string, productID uint, stamp int64, index int, file *multipart.FileHeader) (*models.ProductImage, error) {
	if limit := s.cfg.Storage.FileSizeLimit; limit > 0 && file.Size > limit {
		return nil, ErrFileTooLarge
	}
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	contentType, err := sniffImageType(src)
	if err != nil {
		return nil, err
	}
	if !s.typeAllowed(contentType) {
		return nil, ErrInvalidFileType
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" || (len(s.cfg.Upload.AllowedExtensions) > 0 && !isAllowedExtension(ext, s.cfg.Upload.AllowedExtensions)) {
		ext = extensionByContentType[contentType]
	}
	key := fmt.Sprintf("%d/%d-%d%s", productID, stamp, index, ext)
	url, err := s.storage.Put(ctx, bucket, key, src, file.Size, contentType)
	if err != nil {
		return nil, err
	}
	return &models.ProductImage{
		ProductID: productID,
		URL:       url,
		ObjectKey: key,
		CreatedAt: s.now(),
	}, nil
}

func (s *UploadService) maxImages() int {
	if s.cfg.Upload.MaxImages > 0 {
		return s.cfg.Upload.MaxImages
	}
	return defaultMaxListingImages
}

func (s *UploadService) typeAllowed(contentType string) bool {
	if !strings.HasPrefix(contentType, "image/") {
		return false
	}
	if len(s.cfg.Upload.AllowedTypes) == 0 {
		return true
	}
	for _, t := range s.cfg.Upload.AllowedTypes {
		if strings.EqualFold(contentType, strings.TrimSpace(t)) {
			return true
		}
	}
	return false
}

// sniffImageType 读取文件头识别类型，可解码的格式再校验一次图片头，最后复位读取位置
func sniffImageType(src multipart.File) (string, error) {
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	contentType := http.DetectContentType(buffer[:n])
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	switch contentType {
	case "image/jpeg", "image/png", "image/gif":
		if _, _, err := image.DecodeConfig(src); err != nil {
			return "", ErrInvalidFileType
		}
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return "", err
		}
	}
	return contentType, nil
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, allowedExt := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(allowedExt))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if strings.EqualFold(ext, normalized) {
			return true
		}
	}
	return false
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, ErrFileTooLarge), errors.Is(err, storage.ErrObjectTooLarge):
		return "file_too_large"
	case errors.Is(err, ErrInvalidFileType), errors.Is(err, storage.ErrObjectTypeBlocked):
		return "invalid_file_type"
	default:
		return "upload_failed"
	}
}
