package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gocloud.dev/gcerrors"
)

const (
	bucketConfigKey = ".bucket.json"
	bucketCORSKey   = ".cors.json"
)

// Outcome 开通结果
type Outcome string

const (
	OutcomeCreated           Outcome = "created"
	OutcomeUpdated           Outcome = "updated"
	OutcomeAlreadyConfigured Outcome = "already_configured"
)

// BucketConfig 桶配置，存放在桶内的保留对象中
type BucketConfig struct {
	Name             string    `json:"name"`
	Public           bool      `json:"public"`
	FileSizeLimit    int64     `json:"file_size_limit"`
	AllowedMIMETypes []string  `json:"allowed_mime_types"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CORSRule 跨域规则
type CORSRule struct {
	AllowedOrigins []string `json:"allowed_origins"`
	AllowedMethods []string `json:"allowed_methods"`
	AllowedHeaders []string `json:"allowed_headers"`
	MaxAgeSeconds  int      `json:"max_age_seconds"`
}

// EnsureResult 开通结果详情
type EnsureResult struct {
	Bucket  string       `json:"bucket"`
	Outcome Outcome      `json:"outcome"`
	Config  BucketConfig `json:"config"`
}

// EnsureBucket 幂等开通公开桶：不存在则创建，存在但非公开则改为公开，否则视为已配置
// 跨域规则写入失败只记录日志
func (m *Manager) EnsureBucket(ctx context.Context, desired BucketConfig, cors *CORSRule) (*EnsureResult, error) {
	name := strings.TrimSpace(desired.Name)
	b, err := m.bucket(ctx, name)
	if err != nil {
		return nil, err
	}

	current, found, err := m.readConfig(ctx, name)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := &EnsureResult{Bucket: name}
	switch {
	case !found:
		desired.Name = name
		desired.Public = true
		desired.CreatedAt = now
		desired.UpdatedAt = now
		if err := writeJSON(ctx, b, bucketConfigKey, desired); err != nil {
			return nil, fmt.Errorf("create bucket config failed: %w", err)
		}
		result.Outcome = OutcomeCreated
		result.Config = desired
	case !current.Public:
		current.Public = true
		if desired.FileSizeLimit > 0 {
			current.FileSizeLimit = desired.FileSizeLimit
		}
		if len(desired.AllowedMIMETypes) > 0 {
			current.AllowedMIMETypes = desired.AllowedMIMETypes
		}
		current.UpdatedAt = now
		if err := writeJSON(ctx, b, bucketConfigKey, current); err != nil {
			return nil, fmt.Errorf("update bucket config failed: %w", err)
		}
		result.Outcome = OutcomeUpdated
		result.Config = *current
	default:
		result.Outcome = OutcomeAlreadyConfigured
		result.Config = *current
	}

	if cors != nil && result.Outcome != OutcomeAlreadyConfigured {
		if err := writeJSON(ctx, b, bucketCORSKey, cors); err != nil {
			m.log.Warnw("storage_bucket_cors_update_failed", "bucket", name, "error", err)
		}
	}

	m.log.Infow("storage_bucket_ensured", "bucket", name, "outcome", result.Outcome)
	return result, nil
}

// LoadBucketConfig 读取桶配置
func (m *Manager) LoadBucketConfig(ctx context.Context, name string) (*BucketConfig, error) {
	cfg, found, err := m.readConfig(ctx, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrBucketNotFound
	}
	return cfg, nil
}

// SetPublic 修改桶的公开状态
func (m *Manager) SetPublic(ctx context.Context, name string, public bool) error {
	cfg, err := m.LoadBucketConfig(ctx, name)
	if err != nil {
		return err
	}
	b, err := m.bucket(ctx, name)
	if err != nil {
		return err
	}
	cfg.Public = public
	cfg.UpdatedAt = time.Now()
	return writeJSON(ctx, b, bucketConfigKey, cfg)
}

func (m *Manager) readConfig(ctx context.Context, name string) (*BucketConfig, bool, error) {
	b, err := m.bucket(ctx, name)
	if err != nil {
		return nil, false, err
	}
	raw, err := b.ReadAll(ctx, bucketConfigKey)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	var cfg BucketConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, false, fmt.Errorf("decode bucket config failed: %w", err)
	}
	return &cfg, true, nil
}
