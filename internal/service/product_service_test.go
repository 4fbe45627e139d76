package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/gomall/internal/repository/mysql"
)

func TestProductListByCategory(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db)
	ctx := context.Background()

	seedProduct(t, db, "Mouse", 2990, 10)
	seedProduct(t, db, "Mat", 4990, 10)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := svc.List(ctx, "Test")
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	none, err := svc.List(ctx, "Books")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestProductGetDetailsFlags(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db)
	ctx := context.Background()
	p := seedProduct(t, db, "Mouse", 2990, 10)

	details, err := svc.GetDetails(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.False(t, details.InCart)
	assert.False(t, details.InWishlist)

	require.NoError(t, NewCartService(db).Add(ctx, 1, p.ID, 1))
	require.NoError(t, NewWishlistService(db).Add(ctx, 1, p.ID))

	details, err = svc.GetDetails(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.True(t, details.InCart)
	assert.True(t, details.InWishlist)

	// 别的用户不受影响
	details, err = svc.GetDetails(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.False(t, details.InCart)

	var notFound *ProductNotFoundError
	_, err = svc.GetDetails(ctx, 99999, 1)
	assert.ErrorAs(t, err, &notFound)
}

func TestAddReviewAggregates(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db)
	ctx := context.Background()
	p := seedProduct(t, db, "Mouse", 2990, 10)

	updated, err := svc.AddReview(ctx, 1, p.ID, 4, "good", "works fine")
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.RatingCount)
	assert.Equal(t, 4.0, updated.RatingAverage)

	updated, err = svc.AddReview(ctx, 2, p.ID, 5, "great", "love it")
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.RatingCount)
	assert.Equal(t, 4.5, updated.RatingAverage)

	// 三条评价，平均值保留两位小数
	updated, err = svc.AddReview(ctx, 3, p.ID, 5, "", "")
	require.NoError(t, err)
	assert.Equal(t, 4.67, updated.RatingAverage)

	// 评价子表不因聚合更新被改写
	reviews, err := svc.ListReviews(ctx)
	require.NoError(t, err)
	assert.Len(t, reviews, 3)
}

func TestAddReviewRejections(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db)
	ctx := context.Background()
	p := seedProduct(t, db, "Mouse", 2990, 10)

	_, err := svc.AddReview(ctx, 1, p.ID, 0, "", "")
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = svc.AddReview(ctx, 1, p.ID, 6, "", "")
	assert.ErrorIs(t, err, ErrInvalidRating)

	var notFound *ProductNotFoundError
	_, err = svc.AddReview(ctx, 1, 99999, 3, "", "")
	assert.ErrorAs(t, err, &notFound)

	_, err = svc.AddReview(ctx, 1, p.ID, 4, "", "")
	require.NoError(t, err)
	_, err = svc.AddReview(ctx, 1, p.ID, 5, "", "")
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestCategoryStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db)
	ctx := context.Background()

	seedProduct(t, db, "Mouse", 2990, 10)
	seedProduct(t, db, "Mat", 4990, 10)

	stats, err := svc.CategoryStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "Test", stats[0].Category)
	assert.Equal(t, int64(2), stats[0].Count)
}

func TestDecrementStock(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := mysql.NewProductRepository(db)
	p := seedProduct(t, db, "Mouse", 2990, 3)

	ok, err := repo.DecrementStock(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	// 剩 1 件时再扣 2 件必须失败且不产生修改
	ok, err = repo.DecrementStock(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Stock)
}
