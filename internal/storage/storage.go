package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/shopfinity/internal/logger"

	"go.uber.org/zap"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/memblob"
)

var (
	ErrBucketNotFound    = errors.New("storage bucket not found")
	ErrBucketNotPublic   = errors.New("storage bucket not public")
	ErrObjectNotFound    = errors.New("storage object not found")
	ErrObjectTooLarge    = errors.New("storage object too large")
	ErrObjectTypeBlocked = errors.New("storage object type not allowed")
	ErrInvalidBucketName = errors.New("invalid storage bucket name")
	ErrInvalidObjectKey  = errors.New("invalid storage object key")
)

// Opener 按桶名打开底层 blob 桶
type Opener func(ctx context.Context, name string) (*blob.Bucket, error)

// FileOpener 本地磁盘桶，每个桶是 root 下的一个目录
func FileOpener(root string) Opener {
	return func(_ context.Context, name string) (*blob.Bucket, error) {
		dir := filepath.Join(root, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create bucket dir failed: %w", err)
		}
		return fileblob.OpenBucket(dir, &fileblob.Options{CreateDir: true})
	}
}

// MemoryOpener 内存桶，用于测试
func MemoryOpener() Opener {
	return func(_ context.Context, _ string) (*blob.Bucket, error) {
		return memblob.OpenBucket(nil), nil
	}
}

// Manager 对象存储管理，负责桶的开通与对象读写
type Manager struct {
	opener        Opener
	publicBaseURL string
	log           *zap.SugaredLogger

	mu      sync.Mutex
	buckets map[string]*blob.Bucket
}

// NewManager 创建存储管理器
func NewManager(opener Opener, publicBaseURL string, log *zap.SugaredLogger) *Manager {
	if log == nil {
		log = logger.S()
	}
	return &Manager{
		opener:        opener,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
		log:           log,
		buckets:       make(map[string]*blob.Bucket),
	}
}

// PublicURL 生成对象的公开访问地址
func (m *Manager) PublicURL(bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", m.publicBaseURL, bucket, strings.TrimLeft(key, "/"))
}

// Close 关闭所有已打开的桶
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var errs []error
	for name, b := range m.buckets {
		if err := b.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close bucket %s: %w", name, err))
		}
		delete(m.buckets, name)
	}
	return errors.Join(errs...)
}

func (m *Manager) bucket(ctx context.Context, name string) (*blob.Bucket, error) {
	if err := validateBucketName(name); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.buckets[name]; ok {
		return b, nil
	}
	b, err := m.opener(ctx, name)
	if err != nil {
		return nil, err
	}
	m.buckets[name] = b
	return b, nil
}

func validateBucketName(name string) error {
	if name == "" || len(name) > 63 {
		return ErrInvalidBucketName
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
		default:
			return ErrInvalidBucketName
		}
	}
	return nil
}

func validateObjectKey(key string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" || strings.HasPrefix(trimmed, ".") || strings.HasPrefix(trimmed, "/") {
		return ErrInvalidObjectKey
	}
	for _, part := range strings.Split(trimmed, "/") {
		if part == ".." || part == "." || part == "" {
			return ErrInvalidObjectKey
		}
	}
	return nil
}
