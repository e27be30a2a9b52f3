package identity

import (
	"context"
	"sort"
	"sync"

	"github.com/shopfinity/internal/cart"
)

// Session 单个浏览上下文的身份状态，登录与退出时同步通知订阅者
type Session struct {
	mu          sync.Mutex
	current     cart.Identity
	subscribers map[uint64]func(ctx context.Context, identity cart.Identity)
	nextID      uint64
}

// NewSession 创建会话
func NewSession(deviceID string, userID uint) *Session {
	return &Session{
		current: cart.Identity{
			UserID:   userID,
			DeviceID: deviceID,
		},
		subscribers: make(map[uint64]func(ctx context.Context, identity cart.Identity)),
	}
}

// CurrentIdentity 当前身份
func (s *Session) CurrentIdentity() cart.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// OnIdentityChange 订阅身份切换
func (s *Session) OnIdentityChange(fn func(ctx context.Context, identity cart.Identity)) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

// SignIn 切换为登录用户
func (s *Session) SignIn(ctx context.Context, userID uint) {
	s.transition(ctx, func(identity cart.Identity) cart.Identity {
		identity.UserID = userID
		return identity
	})
}

// SignOut 退出登录，回到匿名设备身份
func (s *Session) SignOut(ctx context.Context) {
	s.transition(ctx, func(identity cart.Identity) cart.Identity {
		identity.UserID = 0
		return identity
	})
}

func (s *Session) transition(ctx context.Context, next func(cart.Identity) cart.Identity) {
	s.mu.Lock()
	updated := next(s.current)
	if updated == s.current {
		s.mu.Unlock()
		return
	}
	s.current = updated
	ids := make([]uint64, 0, len(s.subscribers))
	for id := range s.subscribers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	callbacks := make([]func(ctx context.Context, identity cart.Identity), 0, len(ids))
	for _, id := range ids {
		callbacks = append(callbacks, s.subscribers[id])
	}
	s.mu.Unlock()

	// 回调在锁外执行，允许订阅者回读当前身份
	for _, fn := range callbacks {
		fn(ctx, updated)
	}
}
