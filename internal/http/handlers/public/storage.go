package public

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopfinity/internal/storage"

	"github.com/gin-gonic/gin"
)

// ServeObject 读取公开桶中的对象，不存在或桶非公开时返回 404
func (h *Handler) ServeObject(c *gin.Context) {
	if h.Storage == nil {
		c.Status(http.StatusNotFound)
		return
	}
	bucket := c.Param("bucket")
	key := strings.TrimPrefix(c.Param("key"), "/")

	obj, err := h.Storage.Open(c.Request.Context(), bucket, key)
	if err != nil {
		if !isMissingObject(err) {
			requestLog(c).Warnw("storage_object_open_failed", "bucket", bucket, "key", key, "error", err)
		}
		c.Status(http.StatusNotFound)
		return
	}
	defer obj.Reader.Close()

	c.Header("Content-Type", obj.ContentType)
	c.Header("Content-Length", strconv.FormatInt(obj.Size, 10))
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)
	if c.Request.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(c.Writer, obj.Reader); err != nil {
		requestLog(c).Warnw("storage_object_stream_failed", "bucket", bucket, "key", key, "error", err)
	}
}

func isMissingObject(err error) bool {
	return errors.Is(err, storage.ErrObjectNotFound) ||
		errors.Is(err, storage.ErrBucketNotFound) ||
		errors.Is(err, storage.ErrBucketNotPublic) ||
		errors.Is(err, storage.ErrInvalidBucketName)
}
