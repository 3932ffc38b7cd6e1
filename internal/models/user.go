package models

// UserProfile 用户资料
type UserProfile struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Address     string `json:"address,omitempty"`
	Gender      string `json:"gender,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	Role        string `json:"role"`
}

// ProfileUpdate 资料更新请求
type ProfileUpdate struct {
	Name        string `json:"name,omitempty"`
	Address     string `json:"address,omitempty"`
	Gender      string `json:"gender,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

// LoginInput 登录请求
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterInput 注册请求
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Avatar   string `json:"avatar,omitempty"`
}

// AuthUser 登录响应中的用户信息
type AuthUser struct {
	ID     FlexID `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
	Role   string `json:"role"`
}

// LoginResponse POST /auth/login 响应
type LoginResponse struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}
