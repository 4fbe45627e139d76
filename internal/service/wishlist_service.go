package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/example/gomall/internal/datamodels/wishlist"
	"github.com/example/gomall/internal/repository/mysql"
)

// WishlistLine 返回给前端的心愿单行，带商品信息
type WishlistLine struct {
	ProductID int64     `json:"productId"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Image     string    `json:"image"`
	Stock     int64     `json:"stock"`
	AddedAt   time.Time `json:"addedAt"`
}

// WishlistService 心愿单。规则与购物车一致：每人一条记录，清空即删除。
type WishlistService struct {
	db *gorm.DB
}

// NewWishlistService 创建心愿单服务
func NewWishlistService(db *gorm.DB) *WishlistService {
	return &WishlistService{db: db}
}

// Add 加入心愿单：商品必须存在、不允许重复加入
func (s *WishlistService) Add(ctx context.Context, userID, productID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := mysql.NewProductRepository(tx).GetByID(ctx, productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ProductNotFoundError{ProductID: productID}
			}
			return err
		}

		repo := mysql.NewWishlistRepository(tx)
		w, err := repo.GetByUser(ctx, userID)
		if err != nil {
			return err
		}
		if w == nil {
			return repo.Create(ctx, &wishlist.Wishlist{
				UserID: userID,
				Items:  []wishlist.Item{{ProductID: productID, AddedAt: time.Now()}},
			})
		}
		for _, it := range w.Items {
			if it.ProductID == productID {
				return ErrAlreadyInWishlist
			}
		}
		return repo.SetItems(ctx, w.ID, append(w.Items, wishlist.Item{ProductID: productID, AddedAt: time.Now()}))
	})
}

// Get 查询心愿单；没有记录时返回空列表
func (s *WishlistService) Get(ctx context.Context, userID int64) ([]WishlistLine, error) {
	w, err := mysql.NewWishlistRepository(s.db).GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return []WishlistLine{}, nil
	}

	productRepo := mysql.NewProductRepository(s.db)
	lines := make([]WishlistLine, 0, len(w.Items))
	for _, it := range w.Items {
		line := WishlistLine{ProductID: it.ProductID, AddedAt: it.AddedAt}
		if p, err := productRepo.GetByID(ctx, it.ProductID); err == nil {
			line.Name = p.Name
			line.Price = p.SellingPrice
			line.Image = p.FirstImage()
			line.Stock = p.Stock
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Remove 移除一行；移除后心愿单为空则删除整条记录
func (s *WishlistService) Remove(ctx context.Context, userID, productID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := mysql.NewWishlistRepository(tx)
		w, err := repo.GetByUser(ctx, userID)
		if err != nil {
			return err
		}
		if w == nil {
			return ErrWishlistNotFound
		}

		kept := make([]wishlist.Item, 0, len(w.Items))
		found := false
		for _, it := range w.Items {
			if it.ProductID == productID {
				found = true
				continue
			}
			kept = append(kept, it)
		}
		if !found {
			return ErrNotInWishlist
		}
		if len(kept) == 0 {
			return repo.Delete(ctx, w.ID)
		}
		return repo.SetItems(ctx, w.ID, kept)
	})
}
