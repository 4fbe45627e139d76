package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/gomall/internal/auth"
	"github.com/example/gomall/internal/config"
	"github.com/example/gomall/internal/datamodels/user"
	"github.com/example/gomall/internal/infra/mq"
	"github.com/example/gomall/internal/repository/mysql"
)

var testJWT = &config.JWTConfig{Secret: "test-secret"}

func newUserService(t *testing.T) (*UserService, user.Repository, *mockPublisher) {
	t.Helper()
	db := newTestDB(t)
	repo := mysql.NewUserRepository(db)
	pub := &mockPublisher{}
	return NewUserService(repo, testJWT, pub), repo, pub
}

func TestSignUp(t *testing.T) {
	svc, repo, pub := newUserService(t)
	ctx := context.Background()

	u, err := svc.SignUp(ctx, "alice", "alice@example.com", "secret123", user.TypeUser)
	require.NoError(t, err)
	assert.False(t, u.Verified)
	assert.Len(t, u.OTP, 6)
	assert.True(t, u.OTPExpiresAt.After(time.Now()))

	// 密码只存哈希
	assert.NotEqual(t, "secret123", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")))

	stored, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, stored.ID)

	// 验证码邮件事件已投递
	msgs := pub.sent()
	require.Len(t, msgs, 1)
	assert.Equal(t, mq.KindOTP, msgs[0].Kind)
	assert.Equal(t, "alice@example.com", msgs[0].To)
	assert.Equal(t, u.OTP, msgs[0].OTP)
}

func TestSignUpRejections(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "bob", "not-an-email", "pw", user.TypeUser)
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.SignUp(ctx, "bob", "bob@example.com", "pw", "Admin")
	assert.ErrorIs(t, err, ErrInvalidAccountType)

	_, err = svc.SignUp(ctx, "bob", "bob@example.com", "pw", user.TypeUser)
	require.NoError(t, err)
	_, err = svc.SignUp(ctx, "bob2", "bob@example.com", "pw", user.TypeSeller)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestVerifyOTP(t *testing.T) {
	svc, repo, _ := newUserService(t)
	ctx := context.Background()

	u, err := svc.SignUp(ctx, "alice", "alice@example.com", "secret123", user.TypeSeller)
	require.NoError(t, err)

	_, err = svc.VerifyOTP(ctx, "nobody@example.com", u.OTP)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.VerifyOTP(ctx, "alice@example.com", "000000x")
	assert.ErrorIs(t, err, ErrOTPMismatch)

	token, err := svc.VerifyOTP(ctx, "alice@example.com", u.OTP)
	require.NoError(t, err)

	claims, err := auth.ParseToken(testJWT, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, user.TypeSeller, claims.AccountType)

	// 验证过的账号不能重复验证，且验证码已清空
	stored, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, stored.Verified)
	assert.Empty(t, stored.OTP)
	_, err = svc.VerifyOTP(ctx, "alice@example.com", u.OTP)
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestVerifyOTPExpired(t *testing.T) {
	svc, repo, _ := newUserService(t)
	ctx := context.Background()

	u, err := svc.SignUp(ctx, "alice", "alice@example.com", "secret123", user.TypeUser)
	require.NoError(t, err)

	u.OTPExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, repo.Update(ctx, u))

	_, err = svc.VerifyOTP(ctx, "alice@example.com", u.OTP)
	assert.ErrorIs(t, err, ErrOTPExpired)
}

func TestSignIn(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	u, err := svc.SignUp(ctx, "alice", "alice@example.com", "secret123", user.TypeUser)
	require.NoError(t, err)

	// 未验证不允许登录
	_, err = svc.SignIn(ctx, "alice@example.com", "secret123")
	assert.ErrorIs(t, err, ErrNotVerified)

	_, err = svc.VerifyOTP(ctx, "alice@example.com", u.OTP)
	require.NoError(t, err)

	_, err = svc.SignIn(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.SignIn(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, err := svc.SignIn(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)

	claims, err := auth.ParseToken(testJWT, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
}

func TestGenerateOTPFormat(t *testing.T) {
	for i := 0; i < 20; i++ {
		otp, err := generateOTP()
		require.NoError(t, err)
		require.Len(t, otp, 6)
		for _, r := range otp {
			assert.True(t, r >= '0' && r <= '9', "otp %q contains non-digit", otp)
		}
	}
}
