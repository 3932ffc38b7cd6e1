package service

import "errors"

var (
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrInvalidToken         = errors.New("无效的 token")
	ErrCredentialExpired    = errors.New("credential expired")
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrCartItemNotFound     = errors.New("cart item not found")
	ErrCartEmpty            = errors.New("your cart is empty, add items before checkout")
	ErrCheckoutInProgress   = errors.New("checkout already in progress")
	ErrOrderDraftInvalid    = errors.New("order draft invalid")
	ErrOrderConflict        = errors.New("order already submitted")
	ErrOrderNotFound        = errors.New("order not found")
	ErrNoCurrentOrder       = errors.New("no current order")
	ErrCountdownUnavailable = errors.New("order has no creation time")
	ErrValidation           = errors.New("validation failed")
	ErrStaleResult          = errors.New("stale result discarded")
	ErrChatRoomMissing      = errors.New("chat room not opened")
	ErrEmptyMessage         = errors.New("message content is empty")
)
