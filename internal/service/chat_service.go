package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/storefront-next/internal/api"
	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/store"
)

// MessageRelay 聊天消息转发，只负责扇出，不保证顺序与送达
type MessageRelay interface {
	Publish(ctx context.Context, msg models.ChatMessage) error
	Subscribe(ctx context.Context, roomID uint) (<-chan models.ChatMessage, func(), error)
}

// NewMessageRelay Redis 启用时使用 pub/sub，否则进程内转发
func NewMessageRelay(channel string) MessageRelay {
	if cache.Enabled() {
		return &RedisRelay{channel: channel}
	}
	return NewLocalRelay()
}

// RedisRelay 基于 Redis pub/sub 的转发
type RedisRelay struct {
	channel string
}

// Publish 发布消息
func (r *RedisRelay) Publish(ctx context.Context, msg models.ChatMessage) error {
	return cache.Publish(ctx, cache.ChatRoomChannel(r.channel, msg.RoomID), msg)
}

// Subscribe 订阅房间
func (r *RedisRelay) Subscribe(ctx context.Context, roomID uint) (<-chan models.ChatMessage, func(), error) {
	pubsub := cache.Subscribe(ctx, cache.ChatRoomChannel(r.channel, roomID))
	if pubsub == nil {
		return nil, nil, ErrChatRoomMissing
	}
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, err
	}
	out := make(chan models.ChatMessage, 16)
	go func() {
		defer close(out)
		for raw := range pubsub.Channel() {
			var msg models.ChatMessage
			if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
				logger.Warnw("chat_relay_decode_failed", "channel", raw.Channel, "error", err)
				continue
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, func() { _ = pubsub.Close() }, nil
}

// LocalRelay 进程内转发
type LocalRelay struct {
	mu     sync.RWMutex
	nextID int
	subs   map[uint]map[int]chan models.ChatMessage
}

// NewLocalRelay 创建进程内转发
func NewLocalRelay() *LocalRelay {
	return &LocalRelay{subs: make(map[uint]map[int]chan models.ChatMessage)}
}

// Publish 发布消息，订阅者缓冲满时丢弃
func (r *LocalRelay) Publish(ctx context.Context, msg models.ChatMessage) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ch := range r.subs[msg.RoomID] {
		select {
		case ch <- msg:
		default:
			logger.Debugw("chat_relay_dropped", "room_id", msg.RoomID)
		}
	}
	return nil
}

// Subscribe 订阅房间
func (r *LocalRelay) Subscribe(ctx context.Context, roomID uint) (<-chan models.ChatMessage, func(), error) {
	ch := make(chan models.ChatMessage, 16)
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	if r.subs[roomID] == nil {
		r.subs[roomID] = make(map[int]chan models.ChatMessage)
	}
	r.subs[roomID][id] = ch
	r.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs[roomID], id)
			r.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel, nil
}

// ChatService 投诉聊天
type ChatService struct {
	store   *store.Store
	api     ChatAPI
	relay   MessageRelay
	adminID uint
	now     func() time.Time

	listenMu  sync.Mutex
	listeners map[uint]*roomListener
}

// roomListener 同一房间的所有 Listen 调用共用一个订阅
type roomListener struct {
	refs   int
	cancel context.CancelFunc
	done   chan struct{}
}

// NewChatService 创建聊天服务
func NewChatService(st *store.Store, chatAPI ChatAPI, relay MessageRelay, adminID uint) *ChatService {
	if relay == nil {
		relay = NewLocalRelay()
	}
	return &ChatService{
		store:     st,
		api:       chatAPI,
		relay:     relay,
		adminID:   adminID,
		now:       time.Now,
		listeners: make(map[uint]*roomListener),
	}
}

// GetOrCreateRoom 打开当前用户与管理员的房间
func (s *ChatService) GetOrCreateRoom(ctx context.Context) (*models.ChatRoom, error) {
	auth := s.store.Auth()
	if !auth.Authenticated() || auth.UserID == 0 {
		return nil, ErrNotAuthenticated
	}
	room, err := s.api.GetOrCreateRoom(ctx, auth.UserID, s.adminID)
	if err != nil {
		s.reject(err)
		return nil, err
	}
	opened := *room
	s.store.Dispatch(store.ActionChatRoom, func(st *store.State) {
		r := opened
		st.Chat.Room = &r
		st.Chat.Error = ""
		if len(r.Messages) > 0 {
			st.Chat.Messages = append([]models.ChatMessage(nil), r.Messages...)
		}
	})
	return &opened, nil
}

// Messages 拉取房间消息并替换本地列表
func (s *ChatService) Messages(ctx context.Context, roomID uint) ([]models.ChatMessage, error) {
	messages, err := s.api.ListMessages(ctx, roomID)
	if err != nil {
		s.reject(err)
		return nil, err
	}
	s.store.Dispatch(store.ActionChatMessages, func(st *store.State) {
		st.Chat.Messages = messages
		st.Chat.Error = ""
	})
	return messages, nil
}

// Send 发送消息到当前房间
func (s *ChatService) Send(ctx context.Context, content string) (*models.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	snap := s.store.Snapshot()
	if snap.Chat.Room == nil {
		return nil, ErrChatRoomMissing
	}
	msg := models.ChatMessage{
		SenderID:  snap.Auth.UserID,
		RoomID:    snap.Chat.Room.ID,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.relay.Publish(ctx, msg); err != nil {
		logger.Warnw("chat_publish_failed", "room_id", msg.RoomID, "error", err)
		return nil, err
	}
	s.store.Dispatch(store.ActionChatMessage, func(st *store.State) {
		st.Chat.Messages = append(st.Chat.Messages, msg)
	})
	return &msg, nil
}

// Listen 订阅当前房间，收到的他人消息追加到本地，直到 ctx 结束
// 并发调用共享同一订阅，每条消息只追加一次
func (s *ChatService) Listen(ctx context.Context) error {
	snap := s.store.Snapshot()
	if snap.Chat.Room == nil {
		return ErrChatRoomMissing
	}
	roomID := snap.Chat.Room.ID
	l, err := s.joinListener(ctx, roomID, snap.Auth.UserID)
	if err != nil {
		return err
	}
	defer s.leaveListener(roomID, l)

	select {
	case <-ctx.Done():
	case <-l.done:
	}
	return nil
}

func (s *ChatService) joinListener(ctx context.Context, roomID, self uint) (*roomListener, error) {
	s.listenMu.Lock()
	defer s.listenMu.Unlock()
	if l, ok := s.listeners[roomID]; ok {
		select {
		case <-l.done:
			// 订阅已断开，重新订阅
			delete(s.listeners, roomID)
		default:
			l.refs++
			return l, nil
		}
	}

	listenCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	messages, unsubscribe, err := s.relay.Subscribe(listenCtx, roomID)
	if err != nil {
		cancel()
		return nil, err
	}
	l := &roomListener{refs: 1, cancel: cancel, done: make(chan struct{})}
	s.listeners[roomID] = l
	go s.pump(listenCtx, l, messages, unsubscribe, self)
	logger.Debugw("chat_listener_started", "room_id", roomID)
	return l, nil
}

func (s *ChatService) leaveListener(roomID uint, l *roomListener) {
	s.listenMu.Lock()
	defer s.listenMu.Unlock()
	l.refs--
	if l.refs > 0 {
		return
	}
	l.cancel()
	if s.listeners[roomID] == l {
		delete(s.listeners, roomID)
	}
	logger.Debugw("chat_listener_stopped", "room_id", roomID)
}

func (s *ChatService) pump(ctx context.Context, l *roomListener, messages <-chan models.ChatMessage, unsubscribe func(), self uint) {
	defer close(l.done)
	defer unsubscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if msg.SenderID == self {
				continue
			}
			s.store.Dispatch(store.ActionChatMessage, func(st *store.State) {
				st.Chat.Messages = append(st.Chat.Messages, msg)
			})
		}
	}
}

func (s *ChatService) reject(err error) {
	s.store.Dispatch(store.ActionChatRejected, func(st *store.State) {
		st.Chat.Error = api.Message(err)
	})
}
