package user

import (
	"context"
	"time"
)

// 账户类型
const (
	TypeUser   = "User"
	TypeSeller = "Seller"
)

// User 用户模型
type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:128;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	AccountType  string    `gorm:"size:16;not null;index" json:"accountType"` // User / Seller
	OTP          string    `gorm:"size:8" json:"-"`                           // 注册验证码，验证通过后清空
	OTPExpiresAt time.Time `json:"-"`
	Verified     bool      `json:"verified"`
	Phone        string    `gorm:"size:32" json:"phone,omitempty"`
	Address      string    `gorm:"size:512" json:"address,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"-"`
}

// Repository 用户仓储接口
type Repository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	ListAll(ctx context.Context) ([]*User, error)
	CountByType(ctx context.Context, accountType string) (int64, error)
}
