package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/gomall/internal/repository/mysql"
)

func TestCartAddAndGet(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	ctx := context.Background()
	p := seedProduct(t, db, "Mouse", 2990, 10)

	require.NoError(t, svc.Add(ctx, 1, p.ID, 2))

	lines, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, p.ID, lines[0].ProductID)
	assert.Equal(t, "Mouse", lines[0].Name)
	assert.Equal(t, int64(2990), lines[0].Price)
	assert.Equal(t, int64(2), lines[0].Quantity)
	assert.Equal(t, int64(10), lines[0].Stock)
}

func TestCartGetEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)

	lines, err := svc.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCartAddRejections(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	ctx := context.Background()
	p := seedProduct(t, db, "Mouse", 2990, 3)

	assert.ErrorIs(t, svc.Add(ctx, 1, p.ID, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, svc.Add(ctx, 1, p.ID, -2), ErrInvalidQuantity)

	var notFound *ProductNotFoundError
	assert.ErrorAs(t, svc.Add(ctx, 1, 99999, 1), &notFound)

	var stockErr *InsufficientStockError
	assert.ErrorAs(t, svc.Add(ctx, 1, p.ID, 5), &stockErr)

	require.NoError(t, svc.Add(ctx, 1, p.ID, 2))
	assert.ErrorIs(t, svc.Add(ctx, 1, p.ID, 1), ErrAlreadyInCart)
}

func TestCartRemove(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	ctx := context.Background()
	p1 := seedProduct(t, db, "Mouse", 2990, 10)
	p2 := seedProduct(t, db, "Mat", 4990, 10)

	assert.ErrorIs(t, svc.Remove(ctx, 1, p1.ID), ErrCartNotFound)

	require.NoError(t, svc.Add(ctx, 1, p1.ID, 1))
	require.NoError(t, svc.Add(ctx, 1, p2.ID, 1))

	assert.ErrorIs(t, svc.Remove(ctx, 1, 99999), ErrNotInCart)

	require.NoError(t, svc.Remove(ctx, 1, p1.ID))
	lines, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, p2.ID, lines[0].ProductID)

	// 移除最后一行后整条购物车删除
	require.NoError(t, svc.Remove(ctx, 1, p2.ID))
	c, err := mysql.NewCartRepository(db).GetByUser(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestCartUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	ctx := context.Background()
	p1 := seedProduct(t, db, "Mouse", 2990, 10)
	p2 := seedProduct(t, db, "Mat", 4990, 10)

	require.NoError(t, svc.Add(ctx, 1, p1.ID, 1))
	require.NoError(t, svc.Add(ctx, 1, p2.ID, 1))

	// 改数量 + 删除一行
	require.NoError(t, svc.Update(ctx, 1, []CartUpdate{
		{ProductID: p1.ID, Quantity: 3},
		{ProductID: p2.ID, Quantity: 0},
	}))
	lines, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, p1.ID, lines[0].ProductID)
	assert.Equal(t, int64(3), lines[0].Quantity)

	// 超库存整体拒绝，购物车保持不变
	var stockErr *InsufficientStockError
	err = svc.Update(ctx, 1, []CartUpdate{{ProductID: p1.ID, Quantity: 99}})
	require.ErrorAs(t, err, &stockErr)
	lines, err = svc.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(3), lines[0].Quantity)

	// 全部清零后整条记录删除
	require.NoError(t, svc.Update(ctx, 1, []CartUpdate{{ProductID: p1.ID, Quantity: 0}}))
	c, err := mysql.NewCartRepository(db).GetByUser(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestCartUpdateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	ctx := context.Background()
	p := seedProduct(t, db, "Mouse", 2990, 10)

	assert.ErrorIs(t, svc.Update(ctx, 1, nil), ErrInvalidQuantity)
	assert.ErrorIs(t, svc.Update(ctx, 1, []CartUpdate{{ProductID: p.ID, Quantity: -1}}), ErrInvalidQuantity)

	var notFound *ProductNotFoundError
	assert.ErrorAs(t, svc.Update(ctx, 1, []CartUpdate{{ProductID: 99999, Quantity: 1}}), &notFound)
}
