package service

import (
	"context"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/gomall/internal/datamodels/product"
	"github.com/example/gomall/internal/infra/mq"
	"github.com/example/gomall/internal/repository/mysql"
)

// newTestDB 打开内存库并迁移全部业务表。
// 限制连接数为 1，保证所有操作落在同一个内存实例上。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, mysql.AutoMigrate(db))
	return db
}

// seedProduct 写入一个测试商品
func seedProduct(t *testing.T, db *gorm.DB, name string, price, stock int64) *product.Product {
	t.Helper()

	p := &product.Product{
		Name:         name,
		Category:     "Test",
		CostPrice:    price / 2,
		SellingPrice: price,
		Stock:        stock,
	}
	p.SetImageURLs([]string{"/img/" + name + ".png"})
	require.NoError(t, mysql.NewProductRepository(db).Create(context.Background(), p))
	return p
}

// mockPublisher 记录投递的邮件消息，可注入失败
type mockPublisher struct {
	mu       sync.Mutex
	messages []*mq.EmailMessage
	err      error
}

func (m *mockPublisher) Publish(_ context.Context, msg *mq.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockPublisher) sent() []*mq.EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*mq.EmailMessage, len(m.messages))
	copy(out, m.messages)
	return out
}
