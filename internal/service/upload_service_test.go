package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/shopfinity/internal/constants"
	"github.com/shopfinity/internal/repository"
	"github.com/shopfinity/internal/storage"

	"go.uber.org/zap"
)

type testUpload struct {
	name    string
	content []byte
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 3))); err != nil {
		t.Fatalf("encode png failed: %v", err)
	}
	return buf.Bytes()
}

func multipartFiles(t *testing.T, uploads ...testUpload) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, upload := range uploads {
		part, err := writer.CreateFormFile("images", upload.name)
		if err != nil {
			t.Fatalf("create form file failed: %v", err)
		}
		if _, err := part.Write(upload.content); err != nil {
			t.Fatalf("write form file failed: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer failed: %v", err)
	}
	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form failed: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["images"]
}

func newTestUploadService(t *testing.T, provision bool) (*UploadService, *storage.Manager, uint) {
	t.Helper()
	db := newTestDB(t)
	cfg := newTestConfig(t)
	category := seedCategory(t, db)
	product := seedProduct(t, db, 10, category.ID, "desk", "80.00", constants.ProductStatusActive)

	store := storage.NewManager(storage.MemoryOpener(), cfg.Storage.PublicBaseURL, zap.NewNop().Sugar())
	t.Cleanup(func() { _ = store.Close() })
	if provision {
		if _, err := store.EnsureBucket(context.Background(), storage.BucketConfig{
			Name:             cfg.Storage.ImageBucket,
			FileSizeLimit:    cfg.Storage.FileSizeLimit,
			AllowedMIMETypes: []string{"image/*"},
		}, nil); err != nil {
			t.Fatalf("ensure bucket failed: %v", err)
		}
	}
	return NewUploadService(cfg, repository.NewProductRepository(db), store), store, product.ID
}

func TestUploadListingImagesSkipsInvalidFiles(t *testing.T) {
	svc, store, productID := newTestUploadService(t, true)
	files := multipartFiles(t,
		testUpload{name: "front.png", content: pngBytes(t)},
		testUpload{name: "notes.txt", content: []byte("plain text, not an image")},
		testUpload{name: "back", content: pngBytes(t)},
	)

	result, err := svc.UploadListingImages(context.Background(), 10, productID, files)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if len(result.Images) != 2 || len(result.Skipped) != 1 {
		t.Fatalf("want 2 images and 1 skipped, got %d/%d", len(result.Images), len(result.Skipped))
	}
	if result.Skipped[0].Filename != "notes.txt" || result.Skipped[0].Reason != "invalid_file_type" {
		t.Fatalf("unexpected skipped entry: %+v", result.Skipped[0])
	}
	if !result.Images[0].IsPrimary || result.Images[1].IsPrimary {
		t.Fatalf("only the first image should be primary")
	}

	// 无扩展名时按识别到的类型补全
	second := result.Images[1]
	if !strings.HasSuffix(second.ObjectKey, ".png") {
		t.Fatalf("object key should get a .png extension, got %s", second.ObjectKey)
	}
	obj, err := store.Open(context.Background(), "product-images", second.ObjectKey)
	if err != nil {
		t.Fatalf("stored image should be readable: %v", err)
	}
	_ = obj.Reader.Close()
}

func TestUploadListingImagesErrors(t *testing.T) {
	svc, _, productID := newTestUploadService(t, true)
	valid := testUpload{name: "a.png", content: pngBytes(t)}

	if _, err := svc.UploadListingImages(context.Background(), 99, productID, multipartFiles(t, valid)); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other seller want ErrForbidden, got %v", err)
	}
	if _, err := svc.UploadListingImages(context.Background(), 10, 9999, multipartFiles(t, valid)); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("missing product want ErrProductNotFound, got %v", err)
	}
	if _, err := svc.UploadListingImages(context.Background(), 10, productID, nil); !errors.Is(err, ErrNoValidImages) {
		t.Fatalf("no files want ErrNoValidImages, got %v", err)
	}

	many := make([]testUpload, 6)
	for i := range many {
		many[i] = valid
	}
	if _, err := svc.UploadListingImages(context.Background(), 10, productID, multipartFiles(t, many...)); !errors.Is(err, ErrTooManyImages) {
		t.Fatalf("six images want ErrTooManyImages, got %v", err)
	}

	result, err := svc.UploadListingImages(context.Background(), 10, productID, multipartFiles(t, testUpload{name: "x.txt", content: []byte("nope")}))
	if !errors.Is(err, ErrNoValidImages) || result == nil || len(result.Skipped) != 1 {
		t.Fatalf("all invalid want ErrNoValidImages with skipped detail, got %v", err)
	}
}

func TestUploadListingImagesRequiresBucket(t *testing.T) {
	svc, _, productID := newTestUploadService(t, false)
	files := multipartFiles(t, testUpload{name: "a.png", content: pngBytes(t)})
	if _, err := svc.UploadListingImages(context.Background(), 10, productID, files); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("unprovisioned bucket want ErrStorageUnavailable, got %v", err)
	}
}
