package mysql

import (
	"log"
	"sync"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/example/gomall/internal/config"
	"github.com/example/gomall/internal/datamodels/cart"
	"github.com/example/gomall/internal/datamodels/order"
	"github.com/example/gomall/internal/datamodels/product"
	"github.com/example/gomall/internal/datamodels/user"
	"github.com/example/gomall/internal/datamodels/wishlist"
)

var (
	db   *gorm.DB
	once sync.Once
)

// Init 初始化全局 GORM 实例并自动迁移表结构
func Init(cfg *config.MySQLConfig) *gorm.DB {
	once.Do(func() {
		var err error
		db, err = gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to connect mysql: %v", err)
		}

		if err = AutoMigrate(db); err != nil {
			log.Fatalf("auto migrate failed: %v", err)
		}
	})
	return db
}

// AutoMigrate 迁移全部业务表，测试里也用它初始化内存库
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&product.Product{},
		&product.Review{},
		&order.Order{},
		&order.Item{},
		&cart.Cart{},
		&cart.Item{},
		&wishlist.Wishlist{},
		&wishlist.Item{},
	)
}

// DB 获取全局 DB
func DB() *gorm.DB {
	return db
}
