package public

import (
	"io"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/store"

	"github.com/gin-gonic/gin"
)

// ChatMessageRequest 发送消息请求
type ChatMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// OpenChatRoom 打开与管理员的投诉会话
func (h *Handler) OpenChatRoom(c *gin.Context) {
	room, err := h.ChatService.GetOrCreateRoom(c.Request.Context())
	if err != nil {
		respondChatError(c, err, "打开会话失败")
		return
	}
	response.Success(c, room)
}

// ListChatMessages 当前会话消息
func (h *Handler) ListChatMessages(c *gin.Context) {
	room := h.Store.Chat().Room
	if room == nil {
		opened, err := h.ChatService.GetOrCreateRoom(c.Request.Context())
		if err != nil {
			respondChatError(c, err, "打开会话失败")
			return
		}
		room = opened
	}
	messages, err := h.ChatService.Messages(c.Request.Context(), room.ID)
	if err != nil {
		respondChatError(c, err, "获取消息失败")
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	response.Success(c, messages)
}

// SendChatMessage 发送消息
func (h *Handler) SendChatMessage(c *gin.Context) {
	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "消息内容不能为空", err)
		return
	}
	msg, err := h.ChatService.Send(c.Request.Context(), req.Content)
	if err != nil {
		respondChatError(c, err, "发送消息失败")
		return
	}
	response.Success(c, msg)
}

// StreamChatMessages 以 SSE 推送会话中收到的新消息
func (h *Handler) StreamChatMessages(c *gin.Context) {
	if h.Store.Chat().Room == nil {
		if _, err := h.ChatService.GetOrCreateRoom(c.Request.Context()); err != nil {
			respondChatError(c, err, "打开会话失败")
			return
		}
	}
	ctx := c.Request.Context()
	incoming := make(chan models.ChatMessage, 16)
	unsubscribe := h.Store.Subscribe(func(action string) {
		if action != store.ActionChatMessage {
			return
		}
		messages := h.Store.Chat().Messages
		if len(messages) == 0 {
			return
		}
		select {
		case incoming <- messages[len(messages)-1]:
		default:
		}
	})
	defer unsubscribe()

	log := requestLog(c)
	go func() {
		if err := h.ChatService.Listen(ctx); err != nil {
			log.Warnw("chat_listen_failed", "error", err)
		}
	}()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case msg := <-incoming:
			c.SSEvent("message", msg)
			return true
		}
	})
}
