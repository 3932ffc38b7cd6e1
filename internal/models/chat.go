package models

import "time"

// ChatMessage 投诉聊天消息
type ChatMessage struct {
	ID        uint      `json:"id"`
	SenderID  uint      `json:"senderId"`
	RoomID    uint      `json:"roomId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatRoom 聊天房间
type ChatRoom struct {
	ID        uint          `json:"id"`
	Users     *UserProfile  `json:"users,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Messages  []ChatMessage `json:"messages,omitempty"`
}
