package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

// Object 对象读取结果
type Object struct {
	Reader      io.ReadCloser
	ContentType string
	Size        int64
}

// Put 写入对象，校验桶存在、大小上限与类型白名单，返回公开访问地址
func (m *Manager) Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) (string, error) {
	if err := validateObjectKey(key); err != nil {
		return "", err
	}
	cfg, err := m.LoadBucketConfig(ctx, bucket)
	if err != nil {
		return "", err
	}
	if cfg.FileSizeLimit > 0 && size > cfg.FileSizeLimit {
		return "", ErrObjectTooLarge
	}
	if !mimeAllowed(cfg.AllowedMIMETypes, contentType) {
		return "", ErrObjectTypeBlocked
	}

	b, err := m.bucket(ctx, bucket)
	if err != nil {
		return "", err
	}
	var body io.Reader = r
	if cfg.FileSizeLimit > 0 {
		// 声明大小不可信，写入时再次限制
		body = io.LimitReader(r, cfg.FileSizeLimit+1)
	}
	writeCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	w, err := b.NewWriter(writeCtx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	written, err := io.Copy(w, body)
	if err == nil && cfg.FileSizeLimit > 0 && written > cfg.FileSizeLimit {
		err = ErrObjectTooLarge
	}
	if err != nil {
		// 关闭前取消上下文会放弃本次写入，不留下半截对象
		cancel()
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return m.PublicURL(bucket, key), nil
}

// Open 读取公开桶中的对象
func (m *Manager) Open(ctx context.Context, bucket, key string) (*Object, error) {
	if err := validateObjectKey(key); err != nil {
		return nil, ErrObjectNotFound
	}
	cfg, err := m.LoadBucketConfig(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !cfg.Public {
		return nil, ErrBucketNotPublic
	}
	b, err := m.bucket(ctx, bucket)
	if err != nil {
		return nil, err
	}
	reader, err := b.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return &Object{
		Reader:      reader,
		ContentType: reader.ContentType(),
		Size:        reader.Size(),
	}, nil
}

// Delete 删除对象，不存在时不报错
func (m *Manager) Delete(ctx context.Context, bucket, key string) error {
	if err := validateObjectKey(key); err != nil {
		return err
	}
	b, err := m.bucket(ctx, bucket)
	if err != nil {
		return err
	}
	if err := b.Delete(ctx, key); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return err
	}
	return nil
}

func mimeAllowed(allowed []string, contentType string) bool {
	if len(allowed) == 0 {
		return true
	}
	normalized := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(normalized, ";"); idx >= 0 {
		normalized = strings.TrimSpace(normalized[:idx])
	}
	for _, item := range allowed {
		pattern := strings.ToLower(strings.TrimSpace(item))
		if pattern == normalized {
			return true
		}
		if strings.HasSuffix(pattern, "/*") && strings.HasPrefix(normalized, strings.TrimSuffix(pattern, "*")) {
			return true
		}
	}
	return false
}

func writeJSON(ctx context.Context, b *blob.Bucket, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := b.WriteAll(ctx, key, payload, &blob.WriterOptions{ContentType: "application/json"}); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// IsNotFound 判断存储错误是否为不存在
func IsNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound) || errors.Is(err, ErrBucketNotFound)
}
