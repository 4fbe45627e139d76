package product

import (
	"context"
	"strings"
	"time"
)

// Product 商品模型
type Product struct {
	ID            int64    `gorm:"primaryKey" json:"id"`
	Name          string   `gorm:"size:128;not null" json:"name"`
	Category      string   `gorm:"size:32;index" json:"category"`
	Description   string   `gorm:"size:1024" json:"description"`
	CostPrice     int64    `gorm:"not null" json:"costPrice"`    // 分
	SellingPrice  int64    `gorm:"not null" json:"sellingPrice"` // 分
	Stock         int64    `gorm:"not null" json:"stock"`        // 只允许下单扣减和卖家直接改写，不允许为负
	Images        string   `gorm:"size:2048" json:"-"`           // 逗号分隔的图片 URL
	RatingCount   int64    `json:"ratingCount"`
	RatingSum     int64    `json:"-"`
	RatingAverage float64  `json:"ratingAverage"`
	Reviews       []Review `gorm:"foreignKey:ProductID" json:"reviews,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"-"`
}

// ImageURLs 返回图片列表
func (p *Product) ImageURLs() []string {
	if p.Images == "" {
		return nil
	}
	return strings.Split(p.Images, ",")
}

// SetImageURLs 以逗号分隔形式保存图片列表
func (p *Product) SetImageURLs(urls []string) {
	p.Images = strings.Join(urls, ",")
}

// FirstImage 商品主图，下单快照和卡片列表都用它
func (p *Product) FirstImage() string {
	urls := p.ImageURLs()
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}

// Review 商品评价，每个用户对同一商品只能评价一次
type Review struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	ProductID   int64     `gorm:"index;not null" json:"productId"`
	UserID      int64     `gorm:"index;not null" json:"userId"`
	Title       string    `gorm:"size:128" json:"title"`
	Description string    `gorm:"size:1024" json:"description"`
	Rating      int       `gorm:"not null" json:"rating"` // 1-5
	CreatedAt   time.Time `json:"createdAt"`
}

// TableName 避免与其它实体的子表撞名
func (Review) TableName() string {
	return "product_reviews"
}

// CategoryStat 分类统计
type CategoryStat struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// Repository 商品仓储接口
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetWithReviews(ctx context.Context, id int64) (*Product, error)
	ListAll(ctx context.Context) ([]*Product, error)
	ListByCategory(ctx context.Context, category string) ([]*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
	// DecrementStock 条件扣减库存：库存足够时原子地减掉 qty 并返回 true，
	// 否则不做任何修改返回 false。
	DecrementStock(ctx context.Context, id, qty int64) (bool, error)
	AddReview(ctx context.Context, r *Review) error
	ListReviews(ctx context.Context) ([]*Review, error)
	CategoryStats(ctx context.Context) ([]CategoryStat, error)
}
