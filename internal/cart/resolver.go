package cart

import (
	"fmt"
	"strings"

	"github.com/shopfinity/internal/repository"

	"go.uber.org/zap"
)

const defaultSlotKey = "shopfinity_cart"

// ResolverOptions 后端选择参数
type ResolverOptions struct {
	SlotKey      string
	SlotMaxBytes int
	Logger       *zap.SugaredLogger
}

// Resolver 登录用户使用服务端后端，匿名设备使用本地槽位后端
type Resolver struct {
	carts   repository.CartRepository
	slots   SlotStore
	catalog Catalog
	opts    ResolverOptions
}

// NewResolver 创建后端选择器
func NewResolver(carts repository.CartRepository, slots SlotStore, catalog Catalog, opts ResolverOptions) *Resolver {
	if strings.TrimSpace(opts.SlotKey) == "" {
		opts.SlotKey = defaultSlotKey
	}
	return &Resolver{
		carts:   carts,
		slots:   slots,
		catalog: catalog,
		opts:    opts,
	}
}

// Resolve 按身份选择后端
func (r *Resolver) Resolve(identity Identity) (Backend, error) {
	if identity.Authenticated() {
		if r.carts == nil {
			return nil, ErrBackendUnavailable
		}
		return NewServerBackend(r.carts, identity.UserID), nil
	}
	deviceID := strings.TrimSpace(identity.DeviceID)
	if deviceID == "" {
		return nil, ErrNoIdentity
	}
	if r.slots == nil {
		return nil, ErrBackendUnavailable
	}
	return NewLocalBackend(r.slots, r.SlotKey(deviceID), r.catalog, LocalBackendOptions{
		MaxBytes: r.opts.SlotMaxBytes,
		Logger:   r.opts.Logger,
	}), nil
}

// SlotKey 设备对应的槽位键
func (r *Resolver) SlotKey(deviceID string) string {
	return fmt.Sprintf("%s:%s", r.opts.SlotKey, strings.TrimSpace(deviceID))
}
