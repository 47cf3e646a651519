package main

import (
	"github.com/hibiken/asynq"

	catalogJob "laptopshop-backend/internal/domains/catalog/job"
	discountJob "laptopshop-backend/internal/domains/discount/job"
	orderJob "laptopshop-backend/internal/domains/order/job"
	"laptopshop-backend/internal/infrastructure/email"
	emailJob "laptopshop-backend/internal/infrastructure/email/job"
	"laptopshop-backend/internal/shared"
	"laptopshop-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Email handlers
	orderConfirmation *emailJob.OrderConfirmationHandler
	refundNotice      *emailJob.RefundNoticeHandler
	resetPassword     *emailJob.ResetPasswordEmailHandler

	// Image handlers
	processImage *catalogJob.ProcessImageHandler
	deleteImages *catalogJob.DeleteImagesHandler

	// Maintenance handlers
	expireDiscounts     *discountJob.ExpireDiscountsHandler
	expirePendingOrders *orderJob.ExpirePendingOrdersHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	emailSvc := email.NewSMTPEmailService(c.Config.Email)

	return &HandlerRegistry{
		orderConfirmation: emailJob.NewOrderConfirmationHandler(emailSvc, c.OrderRepo, c.UserRepo),
		refundNotice:      emailJob.NewRefundNoticeHandler(emailSvc, c.OrderRepo, c.UserRepo),
		resetPassword:     emailJob.NewResetPasswordEmailHandler(emailSvc),

		processImage: catalogJob.NewProcessImageHandler(c.ImageService),
		deleteImages: catalogJob.NewDeleteImagesHandler(c.ImageService),

		expireDiscounts:     discountJob.NewExpireDiscountsHandler(c.DiscountService),
		expirePendingOrders: orderJob.NewExpirePendingOrdersHandler(c.OrderService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Email tasks
	mux.HandleFunc(shared.TypeSendOrderConfirmation, h.orderConfirmation.ProcessTask)
	mux.HandleFunc(shared.TypeSendRefundNotice, h.refundNotice.ProcessTask)
	mux.HandleFunc(shared.TypeSendResetEmail, h.resetPassword.ProcessTask)

	// Image tasks
	mux.HandleFunc(shared.TypeProcessLaptopImage, h.processImage.ProcessTask)
	mux.HandleFunc(shared.TypeDeleteLaptopImages, h.deleteImages.ProcessTask)

	// Maintenance tasks
	mux.HandleFunc(shared.TypeExpireDiscounts, h.expireDiscounts.ProcessTask)
	mux.HandleFunc(shared.TypeExpirePendingOrders, h.expirePendingOrders.ProcessTask)
}
