package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/example/gomall/internal/datamodels/cart"
	"github.com/example/gomall/internal/repository/mysql"
)

// CartLine 返回给前端的购物车行，带商品信息
type CartLine struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Image     string `json:"image"`
	Stock     int64  `json:"stock"`
	Quantity  int64  `json:"quantity"`
}

// CartUpdate 批量更新的一行，quantity 为 0 表示删除该行
type CartUpdate struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

// CartService 购物车。每个用户最多一条购物车记录，清空即删除。
type CartService struct {
	db *gorm.DB
}

// NewCartService 创建购物车服务
func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// Add 加入购物车：商品必须存在、数量不超库存、不允许重复加入
func (s *CartService) Add(ctx context.Context, userID, productID, quantity int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := mysql.NewProductRepository(tx).GetByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ProductNotFoundError{ProductID: productID}
			}
			return err
		}
		if quantity > p.Stock {
			return &InsufficientStockError{ProductName: p.Name, Requested: quantity, Available: p.Stock}
		}

		repo := mysql.NewCartRepository(tx)
		c, err := repo.GetByUser(ctx, userID)
		if err != nil {
			return err
		}
		if c == nil {
			return repo.Create(ctx, &cart.Cart{
				UserID: userID,
				Items:  []cart.Item{{ProductID: productID, Quantity: quantity}},
			})
		}
		for _, it := range c.Items {
			if it.ProductID == productID {
				return ErrAlreadyInCart
			}
		}
		return repo.SetItems(ctx, c.ID, append(c.Items, cart.Item{ProductID: productID, Quantity: quantity}))
	})
}

// Get 查询购物车，返回带商品信息的行；没有购物车时返回空列表
func (s *CartService) Get(ctx context.Context, userID int64) ([]CartLine, error) {
	c, err := mysql.NewCartRepository(s.db).GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return []CartLine{}, nil
	}

	productRepo := mysql.NewProductRepository(s.db)
	lines := make([]CartLine, 0, len(c.Items))
	for _, it := range c.Items {
		line := CartLine{ProductID: it.ProductID, Quantity: it.Quantity}
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

// Remove 移除一行；移除后购物车为空则删除整条记录
func (s *CartService) Remove(ctx context.Context, userID, productID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := mysql.NewCartRepository(tx)
		c, err := repo.GetByUser(ctx, userID)
		if err != nil {
			return err
		}
		if c == nil {
			return ErrCartNotFound
		}

		kept := make([]cart.Item, 0, len(c.Items))
		found := false
		for _, it := range c.Items {
			if it.ProductID == productID {
				found = true
				continue
			}
			kept = append(kept, it)
		}
		if !found {
			return ErrNotInCart
		}
		if len(kept) == 0 {
			return repo.Delete(ctx, c.ID)
		}
		return repo.SetItems(ctx, c.ID, kept)
	})
}

// Update 批量调整数量。每行数量都先对库存校验；quantity 为 0 删除该行；
// 更新后购物车为空则删除整条记录。
func (s *CartService) Update(ctx context.Context, userID int64, updates []CartUpdate) error {
	if len(updates) == 0 {
		return ErrInvalidQuantity
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		productRepo := mysql.NewProductRepository(tx)
		for _, up := range updates {
			if up.Quantity < 0 {
				return ErrInvalidQuantity
			}
			p, err := productRepo.GetByID(ctx, up.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ProductNotFoundError{ProductID: up.ProductID}
				}
				return err
			}
			if up.Quantity > p.Stock {
				return &InsufficientStockError{ProductName: p.Name, Requested: up.Quantity, Available: p.Stock}
			}
		}

		repo := mysql.NewCartRepository(tx)
		c, err := repo.GetByUser(ctx, userID)
		if err != nil {
			return err
		}
		if c == nil {
			c = &cart.Cart{UserID: userID}
			if err := repo.Create(ctx, c); err != nil {
				return err
			}
		}

		byProduct := make(map[int64]int64, len(c.Items))
		orderKeys := make([]int64, 0, len(c.Items))
		for _, it := range c.Items {
			byProduct[it.ProductID] = it.Quantity
			orderKeys = append(orderKeys, it.ProductID)
		}
		for _, up := range updates {
			if up.Quantity == 0 {
				delete(byProduct, up.ProductID)
				continue
			}
			if _, exists := byProduct[up.ProductID]; !exists {
				orderKeys = append(orderKeys, up.ProductID)
			}
			byProduct[up.ProductID] = up.Quantity
		}

		items := make([]cart.Item, 0, len(byProduct))
		for _, pid := range orderKeys {
			if qty, ok := byProduct[pid]; ok {
				items = append(items, cart.Item{ProductID: pid, Quantity: qty})
			}
		}

		if len(items) == 0 {
			return repo.Delete(ctx, c.ID)
		}
		return repo.SetItems(ctx, c.ID, items)
	})
}
