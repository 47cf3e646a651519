package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"laptopshop-backend/internal/shared"
	"laptopshop-backend/pkg/logger"
)

// Client wraps asynq.Client và route task vào đúng queue theo task type.
// Services chỉ thấy shared.Enqueuer nên test không cần Redis.
type Client struct {
	asynq *asynq.Client
}

func NewClient(redisAddr, redisPassword string, redisDB int) *Client {
	return &Client{
		asynq: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: redisPassword,
			DB:       redisDB,
		}),
	}
}

var _ shared.Enqueuer = (*Client)(nil)

// EnqueueTask marshal payload và đẩy task vào queue tương ứng
func (c *Client) EnqueueTask(ctx context.Context, taskType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal task payload: %w", err)
	}

	task := asynq.NewTask(taskType, data)

	info, err := c.asynq.EnqueueContext(ctx, task,
		asynq.Queue(queueFor(taskType)),
		asynq.MaxRetry(3),
		asynq.Timeout(2*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}

	logger.Debug(fmt.Sprintf("Enqueued task %s (id=%s)", taskType, info.ID))
	return nil
}

func (c *Client) Close() error {
	return c.asynq.Close()
}

// queueFor chọn queue dựa trên task type prefix
func queueFor(taskType string) string {
	switch taskType {
	case shared.TypeSendOrderConfirmation, shared.TypeSendRefundNotice, shared.TypeSendResetEmail:
		return shared.QueueEmail
	case shared.TypeProcessLaptopImage, shared.TypeDeleteLaptopImages:
		return shared.QueueImage
	default:
		return shared.QueueDefault
	}
}
