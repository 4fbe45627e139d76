package service

import (
	"context"
	"crypto/rand"
	"errors"
	"regexp"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/example/gomall/internal/auth"
	"github.com/example/gomall/internal/config"
	"github.com/example/gomall/internal/datamodels/user"
	"github.com/example/gomall/internal/infra/mq"
	"github.com/example/gomall/internal/logger"
)

const otpTTL = 5 * time.Minute

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// UserService 注册、验证码校验、登录
type UserService struct {
	repo user.Repository
	jwt  *config.JWTConfig
	mail MailPublisher
	log  *zap.Logger
}

// NewUserService 创建用户服务
func NewUserService(repo user.Repository, jwt *config.JWTConfig, mail MailPublisher) *UserService {
	return &UserService{repo: repo, jwt: jwt, mail: mail, log: logger.L()}
}

// SignUp 注册：写入未验证用户并投递验证码邮件。
// 验证码邮件投递失败不回滚注册，用户可以走重发流程。
func (s *UserService) SignUp(ctx context.Context, username, email, password, accountType string) (*user.User, error) {
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if accountType != user.TypeUser && accountType != user.TypeSeller {
		return nil, ErrInvalidAccountType
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	otp, err := generateOTP()
	if err != nil {
		return nil, err
	}

	u := &user.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		AccountType:  accountType,
		OTP:          otp,
		OTPExpiresAt: time.Now().Add(otpTTL),
		Verified:     false,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	if s.mail != nil {
		msg := &mq.EmailMessage{
			Kind:     mq.KindOTP,
			To:       email,
			Username: username,
			OTP:      otp,
		}
		if err := s.mail.Publish(ctx, msg); err != nil {
			GetMonitor().RecordMQError()
			s.log.Warn("failed to publish otp mail", zap.String("email", email), zap.Error(err))
		}
	}

	return u, nil
}

// VerifyOTP 校验注册验证码，成功后标记已验证并直接返回登录 token
func (s *UserService) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if u.Verified {
		return "", ErrAlreadyVerified
	}
	if time.Now().After(u.OTPExpiresAt) {
		return "", ErrOTPExpired
	}
	if u.OTP == "" || u.OTP != otp {
		return "", ErrOTPMismatch
	}

	u.Verified = true
	u.OTP = ""
	if err := s.repo.Update(ctx, u); err != nil {
		return "", err
	}

	return auth.GenerateToken(s.jwt, u.ID, u.Email, u.AccountType)
}

// SignIn 登录并返回 JWT，未验证的账号不允许登录
func (s *UserService) SignIn(ctx context.Context, email, password string) (string, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !u.Verified {
		return "", ErrNotVerified
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return auth.GenerateToken(s.jwt, u.ID, u.Email, u.AccountType)
}

// GetProfile 查询当前用户资料
func (s *UserService) GetProfile(ctx context.Context, id int64) (*user.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ListAll 用户列表（敏感字段靠 json tag 过滤）
func (s *UserService) ListAll(ctx context.Context) ([]*user.User, error) {
	return s.repo.ListAll(ctx)
}

// generateOTP 生成 6 位数字验证码
func generateOTP() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	digits := make([]byte, 6)
	for i, b := range buf {
		digits[i] = '0' + b%10
	}
	return string(digits), nil
}
