package shared

import "context"

const (
	TypeSendOrderConfirmation = "email:order_confirmation"
	TypeSendRefundNotice      = "email:refund_notice"
	TypeSendResetEmail        = "email:reset_password"
	TypeProcessLaptopImage    = "laptop:process_image"
	TypeDeleteLaptopImages    = "laptop:delete_images"
	TypeExpireDiscounts       = "discount:expire"
	TypeExpirePendingOrders   = "order:expire_pending"
)

// Queue names, ordered by worker priority
const (
	QueueEmail   = "email"
	QueueImage   = "image"
	QueueDefault = "default"
)

// OrderEmailPayload represents data for order related emails
type OrderEmailPayload struct {
	OrderID string `json:"orderId"`
	Email   string `json:"email"`
	Amount  string `json:"amount,omitempty"`
}

// ResetEmailPayload represents data for password reset email
type ResetEmailPayload struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// ImagePayload represents data for laptop image processing
type ImagePayload struct {
	LaptopID   string `json:"laptopId"`
	ObjectName string `json:"objectName"`
}

// Enqueuer abstracts asynq task enqueueing so services can be tested
// without a running Redis.
type Enqueuer interface {
	EnqueueTask(ctx context.Context, taskType string, payload interface{}) error
}

// User basic info (để tránh import cycle với user domain)
type UserBasicInfo struct {
	ID       string
	Username string
	Email    string
	FullName string
}
