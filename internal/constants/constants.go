package constants

// 订单状态常量（与后端保持一致）
const (
	OrderStatusPending = "PENDING"
	OrderStatusPaid    = "PAID"
	OrderStatusFailed  = "FAILED"
)

// 结账流程阶段
const (
	OrderPhaseNone     = "none"
	OrderPhaseCreating = "creating"
	OrderPhaseCreated  = "created"
	OrderPhaseSettled  = "settled"
	OrderPhaseDeleted  = "deleted"
)

// 异步请求状态
const (
	RequestStatusIdle      = "idle"
	RequestStatusLoading   = "loading"
	RequestStatusSucceeded = "succeeded"
	RequestStatusFailed    = "failed"
)

// 用户角色常量
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// 支付网关回跳参数
const (
	PaymentQueryOrderID           = "order_id"
	PaymentQueryStatusCode        = "status_code"
	PaymentQueryTransactionStatus = "transaction_status"

	PaymentStatusCodeOK = "200"

	TransactionStatusSettlement = "settlement"
	TransactionStatusPending    = "pending"
	TransactionStatusDeny       = "deny"
	TransactionStatusCancel     = "cancel"
	TransactionStatusExpire     = "expire"
	TransactionStatusFailure    = "failure"
)

// 商品媒体类型
const (
	MediaTypeImage = "IMAGE"
	MediaTypeVideo = "VIDEO"
	MediaTypeGIF   = "GIF"
)

// 队列名称
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 队列任务类型
const (
	TaskOrderPaymentExpire = "order:payment_expire"
)

// 本地页面路径
const (
	CheckoutPathPrefix = "/user/checkout/"
	PaymentSuccessPath = "/success"
)

// 默认支付窗口（小时）
const DefaultPaymentWindowHours = 24
