package cart

import (
	"context"
	"time"
)

// Cart 购物车。每个用户最多一条记录，清空时整条删除。
type Cart struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"uniqueIndex;not null" json:"userId"`
	Items     []Item    `gorm:"foreignKey:CartID" json:"products"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Item 购物车行
type Item struct {
	ID        int64 `gorm:"primaryKey" json:"-"`
	CartID    int64 `gorm:"index;not null" json:"-"`
	ProductID int64 `gorm:"index;not null" json:"productId"`
	Quantity  int64 `gorm:"not null" json:"quantity"`
}

// TableName 避免与订单/心愿单子表撞名
func (Item) TableName() string {
	return "cart_items"
}

// Repository 购物车仓储接口。GetByUser 在记录不存在时返回 (nil, nil)。
type Repository interface {
	GetByUser(ctx context.Context, userID int64) (*Cart, error)
	Create(ctx context.Context, c *Cart) error
	SetItems(ctx context.Context, cartID int64, items []Item) error
	Delete(ctx context.Context, cartID int64) error
}
