package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/gomall/internal/datamodels/order"
	"github.com/example/gomall/internal/datamodels/user"
	"github.com/example/gomall/internal/repository/mysql"
)

func TestStatsSummary(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db)
	ctx := context.Background()

	userRepo := mysql.NewUserRepository(db)
	require.NoError(t, userRepo.Create(ctx, &user.User{Username: "a", Email: "a@example.com", AccountType: user.TypeUser}))
	require.NoError(t, userRepo.Create(ctx, &user.User{Username: "b", Email: "b@example.com", AccountType: user.TypeUser}))
	require.NoError(t, userRepo.Create(ctx, &user.User{Username: "s", Email: "s@example.com", AccountType: user.TypeSeller}))

	p1 := seedProduct(t, db, "Mouse", 2990, 10)
	p2 := seedProduct(t, db, "Mat", 4990, 10)

	productSvc := NewProductService(db)
	_, err := productSvc.AddReview(ctx, 1, p1.ID, 4, "", "")
	require.NoError(t, err)
	_, err = productSvc.AddReview(ctx, 1, p2.ID, 5, "", "")
	require.NoError(t, err)

	// 两笔订单，销售额按快照行计算
	orderSvc := NewOrderService(db, &mockPublisher{})
	_, err = orderSvc.PlaceOrder(ctx, 1, cashOrder(LineItem{ProductID: p1.ID, Quantity: 2}))
	require.NoError(t, err)
	_, err = orderSvc.PlaceOrder(ctx, 2, cashOrder(LineItem{ProductID: p2.ID, Quantity: 1}))
	require.NoError(t, err)

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sum.TotalProducts)
	assert.Equal(t, int64(2), sum.TotalUsers)
	assert.Equal(t, int64(1), sum.TotalSellers)
	assert.Equal(t, int64(2*2990+4990), sum.TotalSales)
	assert.Equal(t, int64(2), sum.TotalReviews)
	assert.Equal(t, 4.5, sum.AverageRating)
}

func TestStatsSummaryEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatsService(db)

	sum, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), sum.TotalProducts)
	assert.Equal(t, int64(0), sum.TotalSales)
	assert.Equal(t, 0.0, sum.AverageRating)
}

func TestOrderListByUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := mysql.NewOrderRepository(db)

	// ListByUser 只返回本人的订单
	require.NoError(t, repo.Create(ctx, &order.Order{UserID: 1, Address: "a", PaymentType: order.PaymentCash}))
	require.NoError(t, repo.Create(ctx, &order.Order{UserID: 2, Address: "b", PaymentType: order.PaymentCash}))

	list, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].UserID)
}
