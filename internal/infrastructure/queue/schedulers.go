package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"laptopshop-backend/internal/shared"
	"laptopshop-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddr, redisPassword string, redisDB int) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: redisPassword,
			DB:       redisDB,
		},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

// RegisterPeriodicJobs đăng ký toàn bộ cron job của shop
func (s *Scheduler) RegisterPeriodicJobs() error {
	if err := s.registerExpireDiscountsJob(); err != nil {
		return err
	}
	if err := s.registerExpirePendingOrdersJob(); err != nil {
		return err
	}
	return nil
}

// ================================================
// JOB 1: Expire Discount Codes (hourly)
// ================================================
// Mã hết hạn vẫn bị chặn lúc checkout nhờ check expires_at trong query,
// job này chỉ dọn cờ active để admin list thấy đúng trạng thái.
func (s *Scheduler) registerExpireDiscountsJob() error {
	payload, err := json.Marshal(struct{}{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeExpireDiscounts, payload)

	_, err = s.scheduler.Register(
		"0 * * * *", // Hourly at minute 0
		task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register ExpireDiscounts job", err)
		return err
	}

	logger.Info("✓ Registered ExpireDiscounts: hourly", map[string]interface{}{})
	return nil
}

// ================================================
// JOB 2: Expire Pending Orders (every 15 minutes)
// ================================================
// Đơn VNPay chưa thanh toán giữ stock của khách khác, nên phải nhả ra
// sớm sau khi payment URL hết hạn.
func (s *Scheduler) registerExpirePendingOrdersJob() error {
	payload, err := json.Marshal(struct{}{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeExpirePendingOrders, payload)

	_, err = s.scheduler.Register(
		"*/15 * * * *", // Every 15 minutes
		task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register ExpirePendingOrders job", err)
		return err
	}

	logger.Info("✓ Registered ExpirePendingOrders: every 15 minutes", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
