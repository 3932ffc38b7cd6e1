package store

import (
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
)

// AuthState 登录身份切片，角色与用户ID统一从这里读取
type AuthState struct {
	Token     string     `json:"-"`
	Role      string     `json:"role"`
	UserID    uint       `json:"user_id"`
	Email     string     `json:"email"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Loading   bool       `json:"loading"`
	Error     string     `json:"error,omitempty"`
}

// Authenticated 是否已登录
func (a AuthState) Authenticated() bool {
	return a.Token != ""
}

// ProfileState 用户资料切片
type ProfileState struct {
	Data       *models.UserProfile  `json:"data"`
	AllUsers   []models.UserProfile `json:"all_users,omitempty"`
	Loading    bool                 `json:"loading"`
	Error      string               `json:"error,omitempty"`
	Generation uint64               `json:"-"`
}

// CartState 购物车切片
type CartState struct {
	CartID     uint              `json:"cart_id"`
	HasCart    bool              `json:"has_cart"`
	Items      []models.CartItem `json:"items"`
	Status     string            `json:"status"`
	Error      string            `json:"error,omitempty"`
	Generation uint64            `json:"-"`
}

// TotalQuantity 导航角标：所有购物车项数量之和
func (c CartState) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Subtotal 购物车小计
func (c CartState) Subtotal() models.Money {
	total := models.NewMoneyFromInt(0)
	for _, item := range c.Items {
		total = total.Plus(item.LineTotal())
	}
	return total
}

// IndexOf 按商品查找购物车项下标
func (c CartState) IndexOf(productID uint) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// OrderState 订单切片
type OrderState struct {
	Phase        string               `json:"phase"`
	Current      *models.Order        `json:"current"`
	LastDraft    *models.OrderDraft   `json:"last_draft,omitempty"`
	Transactions []models.Transaction `json:"transactions,omitempty"`
	Processing   bool                 `json:"processing"`
	Loading      bool                 `json:"loading"`
	Error        string               `json:"error,omitempty"`
}

// CatalogState 商品目录切片
type CatalogState struct {
	Products   []models.Product  `json:"products"`
	Categories []models.Category `json:"categories"`
	Loading    bool              `json:"loading"`
	Error      string            `json:"error,omitempty"`
}

// ChatState 投诉聊天切片
type ChatState struct {
	Room     *models.ChatRoom     `json:"room"`
	Messages []models.ChatMessage `json:"messages"`
	Loading  bool                 `json:"loading"`
	Error    string               `json:"error,omitempty"`
}

// State 全局状态
type State struct {
	Auth    AuthState    `json:"auth"`
	Profile ProfileState `json:"profile"`
	Cart    CartState    `json:"cart"`
	Order   OrderState   `json:"order"`
	Catalog CatalogState `json:"catalog"`
	Chat    ChatState    `json:"chat"`
}

func initialState() State {
	return State{
		Cart:  CartState{Items: []models.CartItem{}, Status: constants.RequestStatusIdle},
		Order: OrderState{Phase: constants.OrderPhaseNone},
	}
}

// clone 深拷贝，快照与内部状态互不影响
func (s State) clone() State {
	out := s
	if s.Auth.ExpiresAt != nil {
		t := *s.Auth.ExpiresAt
		out.Auth.ExpiresAt = &t
	}
	if s.Profile.Data != nil {
		p := *s.Profile.Data
		out.Profile.Data = &p
	}
	out.Profile.AllUsers = cloneSlice(s.Profile.AllUsers)
	out.Cart.Items = cloneCartItems(s.Cart.Items)
	if s.Order.Current != nil {
		o := *s.Order.Current
		out.Order.Current = &o
	}
	if s.Order.LastDraft != nil {
		d := *s.Order.LastDraft
		d.Products = cloneSlice(d.Products)
		out.Order.LastDraft = &d
	}
	out.Order.Transactions = cloneSlice(s.Order.Transactions)
	out.Catalog.Products = make([]models.Product, len(s.Catalog.Products))
	for i, p := range s.Catalog.Products {
		p.ProductMedia = cloneSlice(p.ProductMedia)
		out.Catalog.Products[i] = p
	}
	out.Catalog.Categories = cloneSlice(s.Catalog.Categories)
	if s.Chat.Room != nil {
		r := *s.Chat.Room
		r.Messages = cloneSlice(r.Messages)
		if r.Users != nil {
			u := *r.Users
			r.Users = &u
		}
		out.Chat.Room = &r
	}
	out.Chat.Messages = cloneSlice(s.Chat.Messages)
	return out
}

func cloneCartItems(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	for i, item := range items {
		item.Product.ProductMedia = cloneSlice(item.Product.ProductMedia)
		out[i] = item
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
