package email

import (
	"context"
	"fmt"
	"net/smtp"

	"laptopshop-backend/internal/config"
	"laptopshop-backend/pkg/logger"
)

type OrderConfirmationData struct {
	Email       string
	OrderID     string
	TotalAmount string
}

type RefundNoticeData struct {
	Email        string
	OrderID      string
	RefundAmount string
}

type ResetPasswordData struct {
	Email     string
	Token     string
	ExpiresIn string
}

type EmailService interface {
	SendOrderConfirmationEmail(ctx context.Context, data OrderConfirmationData) error
	SendRefundNoticeEmail(ctx context.Context, data RefundNoticeData) error
	SendResetPasswordEmail(ctx context.Context, data ResetPasswordData) error
}

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
	auth     smtp.Auth
}

func NewSMTPEmailService(cfg config.EmailConfig) EmailService {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &smtpEmailService{
		smtpAddr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		smtpFrom: cfg.From,
		auth:     auth,
	}
}

func (s *smtpEmailService) SendOrderConfirmationEmail(ctx context.Context, data OrderConfirmationData) error {
	subject := "Xác nhận đơn hàng Laptop Shop"
	body := fmt.Sprintf(`Chào bạn,

	Cảm ơn bạn đã đặt hàng tại Laptop Shop.

	Mã đơn hàng: %s
	Tổng tiền: %s

	Chúng tôi sẽ thông báo khi đơn hàng được giao cho đơn vị vận chuyển.`,
		data.OrderID, data.TotalAmount)

	return s.send(data.Email, subject, body)
}

func (s *smtpEmailService) SendRefundNoticeEmail(ctx context.Context, data RefundNoticeData) error {
	subject := "Hoàn tiền đơn hàng Laptop Shop"
	body := fmt.Sprintf(`Chào bạn,

	Yêu cầu trả hàng cho đơn %s đã được xử lý.
	Số tiền hoàn lại: %s

	Tiền sẽ về tài khoản của bạn trong 3-5 ngày làm việc.`,
		data.OrderID, data.RefundAmount)

	return s.send(data.Email, subject, body)
}

func (s *smtpEmailService) SendResetPasswordEmail(ctx context.Context, data ResetPasswordData) error {
	subject := "Đặt lại mật khẩu tài khoản Laptop Shop"
	body := fmt.Sprintf(`Chào bạn,

	Vui lòng sử dụng token sau để đặt lại mật khẩu:
	%s

	Link có hiệu lực %s.

	Nếu bạn không yêu cầu đặt lại mật khẩu, vui lòng bỏ qua email này.`,
		data.Token, data.ExpiresIn)

	return s.send(data.Email, subject, body)
}

func (s *smtpEmailService) send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.smtpFrom, to, subject, body))

	err := smtp.SendMail(s.smtpAddr, s.auth, s.smtpFrom, []string{to}, msg)
	if err != nil {
		logger.Info("Failed to send email", map[string]interface{}{
			"error":     err.Error(),
			"to":        to,
			"smtp_addr": s.smtpAddr,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
