package wishlist

import (
	"context"
	"time"
)

// Wishlist 心愿单。每个用户最多一条记录，清空时整条删除。
type Wishlist struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"uniqueIndex;not null" json:"userId"`
	Items     []Item    `gorm:"foreignKey:WishlistID" json:"products"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Item 心愿单行
type Item struct {
	ID         int64     `gorm:"primaryKey" json:"-"`
	WishlistID int64     `gorm:"index;not null" json:"-"`
	ProductID  int64     `gorm:"index;not null" json:"productId"`
	AddedAt    time.Time `json:"addedAt"`
}

// TableName 避免与订单/购物车子表撞名
func (Item) TableName() string {
	return "wishlist_items"
}

// Repository 心愿单仓储接口。GetByUser 在记录不存在时返回 (nil, nil)。
type Repository interface {
	GetByUser(ctx context.Context, userID int64) (*Wishlist, error)
	Create(ctx context.Context, w *Wishlist) error
	SetItems(ctx context.Context, wishlistID int64, items []Item) error
	Delete(ctx context.Context, wishlistID int64) error
}
