package store

// Action 名称
const (
	ActionAuthLogin    = "auth/login"
	ActionAuthRestore  = "auth/restore"
	ActionAuthLogout   = "auth/logout"
	ActionAuthPending  = "auth/pending"
	ActionAuthRejected = "auth/rejected"

	ActionProfilePending     = "profile/fetch/pending"
	ActionProfileFulfilled   = "profile/fetch/fulfilled"
	ActionProfileRejected    = "profile/fetch/rejected"
	ActionProfileUpdated     = "profile/update/fulfilled"
	ActionProfileUsers       = "profile/users/fulfilled"
	ActionProfileInvalidated = "profile/fetch/invalidated"

	ActionCartPending        = "cart/fetch/pending"
	ActionCartFulfilled      = "cart/fetch/fulfilled"
	ActionCartRejected       = "cart/fetch/rejected"
	ActionCartItemAdded      = "cart/add/fulfilled"
	ActionCartItemOptimistic = "cart/update/optimistic"
	ActionCartItemConfirmed  = "cart/update/fulfilled"
	ActionCartItemRolledBack = "cart/update/rolledback"
	ActionCartItemRemoved    = "cart/remove/optimistic"
	ActionCartMutationFailed = "cart/mutation/rejected"
	ActionCartCleared        = "cart/clear"
	ActionCartInvalidated    = "cart/fetch/invalidated"

	ActionOrderCreating      = "order/create/pending"
	ActionOrderCreated       = "order/create/fulfilled"
	ActionOrderRejected      = "order/rejected"
	ActionOrderFetching      = "order/fetch/pending"
	ActionOrderFetched       = "order/fetch/fulfilled"
	ActionOrderSettled       = "order/settle/fulfilled"
	ActionOrderFailed        = "order/failed"
	ActionOrderDeleted       = "order/delete/fulfilled"
	ActionOrderReset         = "order/reset"
	ActionOrderTransactions  = "order/transactions/fulfilled"
	ActionOrderProcessingEnd = "order/processing/end"

	ActionCatalogPending    = "catalog/pending"
	ActionCatalogProducts   = "catalog/products/fulfilled"
	ActionCatalogCategories = "catalog/categories/fulfilled"
	ActionCatalogRejected   = "catalog/rejected"

	ActionChatRoom     = "chat/room/fulfilled"
	ActionChatMessages = "chat/messages/fulfilled"
	ActionChatMessage  = "chat/message/received"
	ActionChatRejected = "chat/rejected"
)
