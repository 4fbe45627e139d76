package service

import (
	"context"
	"errors"
	"math"

	"gorm.io/gorm"

	"github.com/example/gomall/internal/datamodels/product"
	"github.com/example/gomall/internal/repository/mysql"
)

// ProductDetails 商品详情 + 当前用户的购物车/心愿单标记
type ProductDetails struct {
	*product.Product
	InCart     bool `json:"inCart"`
	InWishlist bool `json:"inWishlist"`
}

// ProductService 商品目录与评价
type ProductService struct {
	db   *gorm.DB
	repo product.Repository
}

// NewProductService 创建商品服务
func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db, repo: mysql.NewProductRepository(db)}
}

// List 商品列表，category 为空时返回全部
func (s *ProductService) List(ctx context.Context, category string) ([]*product.Product, error) {
	return s.repo.ListByCategory(ctx, category)
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// GetDetails 商品详情，userID > 0 时附带 inCart/inWishlist 标记
func (s *ProductService) GetDetails(ctx context.Context, id, userID int64) (*ProductDetails, error) {
	p, err := s.repo.GetWithReviews(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ProductNotFoundError{ProductID: id}
		}
		return nil, err
	}

	details := &ProductDetails{Product: p}
	if userID > 0 {
		if c, err := mysql.NewCartRepository(s.db).GetByUser(ctx, userID); err == nil && c != nil {
			for _, it := range c.Items {
				if it.ProductID == id {
					details.InCart = true
					break
				}
			}
		}
		if w, err := mysql.NewWishlistRepository(s.db).GetByUser(ctx, userID); err == nil && w != nil {
			for _, it := range w.Items {
				if it.ProductID == id {
					details.InWishlist = true
					break
				}
			}
		}
	}
	return details, nil
}

// Create 新增商品（卖家）
func (s *ProductService) Create(ctx context.Context, p *product.Product) error {
	return s.repo.Create(ctx, p)
}

// Update 更新商品（卖家），允许直接改写库存
func (s *ProductService) Update(ctx context.Context, p *product.Product) error {
	return s.repo.Update(ctx, p)
}

// Delete 删除商品（卖家）
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// AddReview 添加评价并维护评分聚合，同一用户只能评价一次
func (s *ProductService) AddReview(ctx context.Context, userID, productID int64, rating int, title, description string) (*product.Product, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	var updated *product.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := mysql.NewProductRepository(tx)

		p, err := repo.GetWithReviews(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ProductNotFoundError{ProductID: productID}
			}
			return err
		}
		for _, r := range p.Reviews {
			if r.UserID == userID {
				return ErrAlreadyReviewed
			}
		}

		if err := repo.AddReview(ctx, &product.Review{
			ProductID:   productID,
			UserID:      userID,
			Title:       title,
			Description: description,
			Rating:      rating,
		}); err != nil {
			return err
		}

		p.RatingCount++
		p.RatingSum += int64(rating)
		p.RatingAverage = math.Round(float64(p.RatingSum)/float64(p.RatingCount)*100) / 100
		p.Reviews = nil // 聚合字段单独保存，不重写评价子表
		if err := repo.Update(ctx, p); err != nil {
			return err
		}

		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ListReviews 全部评价（卖家后台）
func (s *ProductService) ListReviews(ctx context.Context) ([]*product.Review, error) {
	return s.repo.ListReviews(ctx)
}

// CategoryStats 按分类统计商品数
func (s *ProductService) CategoryStats(ctx context.Context) ([]product.CategoryStat, error) {
	return s.repo.CategoryStats(ctx)
}
