package server

import (
	"github.com/kataras/iris/v12"

	"github.com/example/gomall/internal/datamodels/product"
	"github.com/example/gomall/internal/middleware"
	"github.com/example/gomall/internal/service"
)

// productRequest 卖家创建/更新商品的请求体
type productRequest struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Description  string   `json:"description"`
	CostPrice    int64    `json:"costPrice"`
	SellingPrice int64    `json:"sellingPrice"`
	Stock        int64    `json:"stock"`
	ImageURLs    []string `json:"imageUrls"`
}

func (r *productRequest) validate() string {
	switch {
	case r.Name == "":
		return "product name is required"
	case r.SellingPrice <= 0:
		return "selling price must be positive"
	case r.CostPrice < 0:
		return "cost price must not be negative"
	case r.Stock < 0:
		return "stock must not be negative"
	}
	return ""
}

func (r *productRequest) applyTo(p *product.Product) {
	p.Name = r.Name
	p.Category = r.Category
	p.Description = r.Description
	p.CostPrice = r.CostPrice
	p.SellingPrice = r.SellingPrice
	p.Stock = r.Stock
	p.SetImageURLs(r.ImageURLs)
}

// registerSellerRoutes 卖家后台接口，挂在已鉴权 party 之下
func registerSellerRoutes(parent iris.Party, productSvc *service.ProductService, orderSvc *service.OrderService, statsSvc *service.StatsService) {
	seller := parent.Party("/seller", middleware.SellerOnly())

	// 创建商品
	seller.Post("/products", func(ctx iris.Context) {
		var req productRequest
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		if msg := req.validate(); msg != "" {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": msg})
			return
		}

		p := &product.Product{}
		req.applyTo(p)
		if err := productSvc.Create(ctx.Request().Context(), p); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.StatusCode(201)
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{"id": p.ID}})
	})

	// 更新商品（整体覆盖）
	seller.Put("/products/{id:uint64}", func(ctx iris.Context) {
		pid, _ := ctx.Params().GetUint64("id")
		var req productRequest
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		if msg := req.validate(); msg != "" {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": msg})
			return
		}

		p, err := productSvc.GetByID(ctx.Request().Context(), int64(pid))
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		req.applyTo(p)
		if err := productSvc.Update(ctx.Request().Context(), p); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "product updated"})
	})

	// 删除商品
	seller.Delete("/products/{id:uint64}", func(ctx iris.Context) {
		pid, _ := ctx.Params().GetUint64("id")
		if err := productSvc.Delete(ctx.Request().Context(), int64(pid)); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "product deleted"})
	})

	// 最近订单（?limit= 控制条数，默认 50）
	seller.Get("/orders", func(ctx iris.Context) {
		limit := ctx.URLParamIntDefault("limit", 50)
		list, err := orderSvc.ListRecent(ctx.Request().Context(), limit)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	// 全部评价
	seller.Get("/reviews", func(ctx iris.Context) {
		list, err := productSvc.ListReviews(ctx.Request().Context())
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	// 汇总统计
	seller.Get("/stats", func(ctx iris.Context) {
		summary, err := statsSvc.Summary(ctx.Request().Context())
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": summary})
	})

	// 分类统计
	seller.Get("/category-stats", func(ctx iris.Context) {
		stats, err := productSvc.CategoryStats(ctx.Request().Context())
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": stats})
	})

	// 运行时指标（进程内计数器）
	seller.Get("/stats/runtime", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"code": 0, "data": service.GetMonitor().GetStats()})
	})
}
