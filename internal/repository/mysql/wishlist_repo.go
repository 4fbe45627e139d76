package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/example/gomall/internal/datamodels/wishlist"
)

type wishlistRepo struct {
	db *gorm.DB
}

// NewWishlistRepository 创建心愿单仓储
func NewWishlistRepository(db *gorm.DB) wishlist.Repository {
	return &wishlistRepo{db: db}
}

func (r *wishlistRepo) GetByUser(ctx context.Context, userID int64) (*wishlist.Wishlist, error) {
	var w wishlist.Wishlist
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *wishlistRepo) Create(ctx context.Context, w *wishlist.Wishlist) error {
	return r.db.WithContext(ctx).Create(w).Error
}

// SetItems 整体替换心愿单行。调用方负责把本次操作包进事务。
func (r *wishlistRepo) SetItems(ctx context.Context, wishlistID int64, items []wishlist.Item) error {
	if err := r.db.WithContext(ctx).
		Where("wishlist_id = ?", wishlistID).
		Delete(&wishlist.Item{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ID = 0
		items[i].WishlistID = wishlistID
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *wishlistRepo) Delete(ctx context.Context, wishlistID int64) error {
	if err := r.db.WithContext(ctx).
		Where("wishlist_id = ?", wishlistID).
		Delete(&wishlist.Item{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&wishlist.Wishlist{}, wishlistID).Error
}
