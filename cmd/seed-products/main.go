package main

import (
	"context"
	"log"

	"github.com/example/gomall/internal/config"
	"github.com/example/gomall/internal/datamodels/product"
	"github.com/example/gomall/internal/repository/mysql"
)

// 演示用商品目录，价格单位为分
var seedProducts = []product.Product{
	{Name: "Wireless Mouse", Category: "Electronics", Description: "2.4G wireless mouse with silent click", CostPrice: 1500, SellingPrice: 2990, Stock: 120},
	{Name: "Mechanical Keyboard", Category: "Electronics", Description: "87-key hot-swappable mechanical keyboard", CostPrice: 12000, SellingPrice: 19900, Stock: 60},
	{Name: "USB-C Hub", Category: "Electronics", Description: "7-in-1 USB-C hub with HDMI and PD", CostPrice: 4500, SellingPrice: 7990, Stock: 200},
	{Name: "Running Shoes", Category: "Sports", Description: "Lightweight breathable running shoes", CostPrice: 9000, SellingPrice: 15900, Stock: 80},
	{Name: "Yoga Mat", Category: "Sports", Description: "6mm non-slip TPE yoga mat", CostPrice: 2500, SellingPrice: 4990, Stock: 150},
	{Name: "Ceramic Mug", Category: "Home", Description: "350ml ceramic mug with bamboo lid", CostPrice: 800, SellingPrice: 1990, Stock: 300},
	{Name: "Desk Lamp", Category: "Home", Description: "Eye-care LED desk lamp, 3 color modes", CostPrice: 3500, SellingPrice: 6990, Stock: 90},
	{Name: "Novel: The Long Road", Category: "Books", Description: "Bestselling fiction, paperback", CostPrice: 1800, SellingPrice: 3490, Stock: 50},
}

func main() {
	cfg := config.Load()
	db := mysql.Init(&cfg.MySQL)

	ctx := context.Background()
	repo := mysql.NewProductRepository(db)

	existing, err := repo.ListAll(ctx)
	if err != nil {
		log.Fatalf("failed to list products: %v", err)
	}
	for _, p := range existing {
		if err := repo.Delete(ctx, p.ID); err != nil {
			log.Fatalf("failed to delete product %d: %v", p.ID, err)
		}
	}
	log.Printf("removed %d existing products", len(existing))

	for i := range seedProducts {
		p := seedProducts[i]
		p.SetImageURLs([]string{"/static/images/placeholder.png"})
		if err := repo.Create(ctx, &p); err != nil {
			log.Fatalf("failed to create product %q: %v", p.Name, err)
		}
		log.Printf("created product id=%d name=%s stock=%d", p.ID, p.Name, p.Stock)
	}

	log.Printf("seeded %d products", len(seedProducts))
}
