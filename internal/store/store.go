package store

import (
	"sync"

	"github.com/storefront-next/internal/logger"
)

// Listener 状态变更监听，参数为 action 名称
type Listener func(action string)

// Store 进程内唯一的状态容器，所有写入串行执行
type Store struct {
	mu    sync.Mutex
	state State

	listenerMu sync.RWMutex
	listeners  map[int]Listener
	nextID     int
}

// New 创建状态容器
func New() *Store {
	return &Store{
		state:     initialState(),
		listeners: make(map[int]Listener),
	}
}

// Dispatch 在锁内执行 reducer，完成后通知监听者
func (s *Store) Dispatch(action string, reducer func(*State)) {
	if reducer == nil {
		return
	}
	s.mu.Lock()
	reducer(&s.state)
	s.mu.Unlock()

	logger.Debugw("store_dispatch", "action", action)
	s.notify(action)
}

// Snapshot 返回全局状态深拷贝
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Auth 身份切片
func (s *Store) Auth() AuthState {
	return s.Snapshot().Auth
}

// Cart 购物车切片
func (s *Store) Cart() CartState {
	return s.Snapshot().Cart
}

// Order 订单切片
func (s *Store) Order() OrderState {
	return s.Snapshot().Order
}

// Profile 用户资料切片
func (s *Store) Profile() ProfileState {
	return s.Snapshot().Profile
}

// Catalog 商品目录切片
func (s *Store) Catalog() CatalogState {
	return s.Snapshot().Catalog
}

// Chat 聊天切片
func (s *Store) Chat() ChatState {
	return s.Snapshot().Chat
}

// Token 当前 Bearer Token，供后端客户端使用
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Auth.Token
}

// Subscribe 注册监听，返回取消函数
func (s *Store) Subscribe(listener Listener) func() {
	if listener == nil {
		return func() {}
	}
	s.listenerMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.listenerMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenerMu.Lock()
			delete(s.listeners, id)
			s.listenerMu.Unlock()
		})
	}
}

func (s *Store) notify(action string) {
	s.listenerMu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, listener := range s.listeners {
		listeners = append(listeners, listener)
	}
	s.listenerMu.RUnlock()

	for _, listener := range listeners {
		listener(action)
	}
}
