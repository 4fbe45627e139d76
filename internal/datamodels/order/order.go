package order

import (
	"context"
	"time"
)

// 支付方式
const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentCredit = "credit"
	PaymentDebit  = "debit"
)

// Order 订单模型。下单时一次性写入，之后不再修改。
type Order struct {
	ID          int64       `gorm:"primaryKey" json:"id"`
	UserID      int64       `gorm:"index;not null" json:"userId"`
	Items       []Item      `gorm:"foreignKey:OrderID" json:"products"`
	Address     string      `gorm:"size:512;not null" json:"address"`
	Phone       string      `gorm:"size:32" json:"phone,omitempty"`
	PaymentType string      `gorm:"size:16;not null" json:"paymentType"`
	Payment     CardDetails `gorm:"embedded;embeddedPrefix:card_" json:"paymentDetails"`
	OrderTime   time.Time   `gorm:"index" json:"orderTime"`
	CreatedAt   time.Time   `json:"-"`
	UpdatedAt   time.Time   `json:"-"`
}

// CardDetails 非现金支付的持卡信息。卡号只保存掩码结果，CVV 永远不落库。
type CardDetails struct {
	Name   string `gorm:"size:128" json:"cardName,omitempty"`
	Number string `gorm:"size:32" json:"cardNumber,omitempty"` // **** **** **** 1234
	Expiry string `gorm:"size:16" json:"expiry,omitempty"`
}

// Item 订单行。name/price/image 是下单时刻的商品快照，
// 后续改价、改图不会影响历史订单。
type Item struct {
	ID        int64  `gorm:"primaryKey" json:"-"`
	OrderID   int64  `gorm:"index;not null" json:"-"`
	ProductID int64  `gorm:"index;not null" json:"productId"`
	Name      string `gorm:"size:128" json:"name"`
	Price     int64  `json:"price"`
	Image     string `gorm:"size:512" json:"image"`
	Quantity  int64  `gorm:"not null" json:"quantity"`
}

// TableName 避免与购物车/心愿单子表撞名
func (Item) TableName() string {
	return "order_items"
}

// Repository 订单仓储接口
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*Order, error)
	ListRecent(ctx context.Context, limit int) ([]*Order, error)
}
