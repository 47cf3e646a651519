package user

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"laptopshop-backend/internal/shared"
	"laptopshop-backend/pkg/jwt"
	"laptopshop-backend/pkg/logger"
)

const resetTokenTTL = 30 * time.Minute

// =====================================================
// USER SERVICE
// =====================================================

type UserService struct {
	repo     Repository
	jwt      *jwt.Manager
	enqueuer shared.Enqueuer
	now      func() time.Time
}

func NewUserService(repo Repository, jwtManager *jwt.Manager, enqueuer shared.Enqueuer) *UserService {
	return &UserService{
		repo:     repo,
		jwt:      jwtManager,
		enqueuer: enqueuer,
		now:      time.Now,
	}
}

// =====================================================
// AUTHENTICATION
// =====================================================

func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         RoleUser,
		IsActive:     true,
	}
	if req.Phone != "" {
		u.Phone = &req.Phone
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	logger.Info("Đăng ký tài khoản mới", map[string]interface{}{
		"user_id":  u.ID.String(),
		"username": u.Username,
	})

	dto := u.ToDTO()
	return &dto, nil
}

func (s *UserService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		// Hide whether the username exists
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, u)
}

func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*LoginResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrUserInactive
	}

	return s.issueTokens(ctx, u)
}

func (s *UserService) issueTokens(ctx context.Context, u *User) (*LoginResponse, error) {
	access, err := s.jwt.GenerateAccessToken(u.ID.String(), u.Username, u.Role.String())
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(u.ID.String())
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateLastLogin(ctx, u.ID); err != nil {
		logger.Warn("Không thể cập nhật last_login_at", map[string]interface{}{
			"user_id": u.ID.String(),
			"error":   err.Error(),
		})
	}

	return &LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    s.now().Add(s.jwt.AccessExpiry()),
		User:         u.ToDTO(),
	}, nil
}

// =====================================================
// PASSWORD RESET
// =====================================================

// ForgotPassword issues a reset token and mails it. Always succeeds
// from the caller's perspective so email addresses cannot be probed.
func (s *UserService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		logger.Debug("Yêu cầu reset cho email không tồn tại")
		return nil
	}

	token, err := generateToken()
	if err != nil {
		return err
	}

	if err := s.repo.SetResetToken(ctx, u.ID, token, s.now().Add(resetTokenTTL)); err != nil {
		return err
	}

	payload := shared.ResetEmailPayload{Email: u.Email, Token: token}
	if err := s.enqueuer.EnqueueTask(ctx, shared.TypeSendResetEmail, payload); err != nil {
		logger.Warn("Không thể xếp hàng email reset mật khẩu", map[string]interface{}{
			"user_id": u.ID.String(),
			"error":   err.Error(),
		})
	}
	return nil
}

func (s *UserService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.repo.FindByResetToken(ctx, req.Token)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, u.ID, string(hash))
}

func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if req.CurrentPassword == req.NewPassword {
		return ErrSamePassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, string(hash))
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// =====================================================
// PROFILE
// =====================================================

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != "" {
		u.FullName = req.FullName
	}
	if req.Phone != "" {
		u.Phone = &req.Phone
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

// =====================================================
// ADMIN
// =====================================================

func (s *UserService) ListUsers(ctx context.Context, req ListUsersRequest) ([]UserDTO, int, error) {
	req.Normalize()
	users, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, users[i].ToDTO())
	}
	return dtos, total, nil
}

func (s *UserService) UpdateUserRole(ctx context.Context, userID uuid.UUID, req UpdateRoleRequest) error {
	role := Role(req.Role)
	if !role.IsValid() {
		return ErrInvalidRole
	}
	return s.repo.UpdateRole(ctx, userID, role)
}

func (s *UserService) UpdateUserStatus(ctx context.Context, userID uuid.UUID, req UpdateStatusRequest) error {
	return s.repo.UpdateStatus(ctx, userID, req.IsActive)
}
