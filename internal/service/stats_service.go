package service

import (
	"context"
	"math"

	"gorm.io/gorm"

	"github.com/example/gomall/internal/datamodels/order"
	"github.com/example/gomall/internal/datamodels/product"
	"github.com/example/gomall/internal/datamodels/user"
)

// Summary 卖家后台首页的汇总数据
type Summary struct {
	TotalProducts int64   `json:"totalProducts"`
	TotalUsers    int64   `json:"totalUsers"`
	TotalSellers  int64   `json:"totalSellers"`
	TotalSales    int64   `json:"totalSales"` // 分，Σ(price*quantity)
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int64   `json:"totalReviews"`
}

// StatsService 聚合统计
type StatsService struct {
	db *gorm.DB
}

// NewStatsService 创建统计服务
func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// Summary 计算汇总数据
func (s *StatsService) Summary(ctx context.Context) (*Summary, error) {
	db := s.db.WithContext(ctx)
	out := &Summary{}

	if err := db.Model(&product.Product{}).Count(&out.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&user.User{}).
		Where("account_type = ?", user.TypeUser).
		Count(&out.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&user.User{}).
		Where("account_type = ?", user.TypeSeller).
		Count(&out.TotalSellers).Error; err != nil {
		return nil, err
	}

	// 销售额基于订单行快照，后续改价不影响历史数据
	if err := db.Model(&order.Item{}).
		Select("COALESCE(SUM(price * quantity), 0)").
		Scan(&out.TotalSales).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&product.Review{}).Count(&out.TotalReviews).Error; err != nil {
		return nil, err
	}

	var avg float64
	if err := db.Model(&product.Product{}).
		Select("COALESCE(AVG(rating_average), 0)").
		Scan(&avg).Error; err != nil {
		return nil, err
	}
	out.AverageRating = math.Round(avg*100) / 100

	return out, nil
}
