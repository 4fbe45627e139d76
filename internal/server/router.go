package server

import (
	"errors"
	"strings"
	"time"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"github.com/example/gomall/internal/auth"
	"github.com/example/gomall/internal/config"
	"github.com/example/gomall/internal/infra/mq"
	"github.com/example/gomall/internal/infra/redis"
	"github.com/example/gomall/internal/logger"
	"github.com/example/gomall/internal/middleware"
	"github.com/example/gomall/internal/repository/mysql"
	"github.com/example/gomall/internal/service"
)

// RegisterRoutes 注册所有 HTTP 路由
func RegisterRoutes(app *iris.Application, cfg *config.Config) {
	// 初始化基础设施
	db := mysql.Init(&cfg.MySQL)
	redisClient := redis.Init(&cfg.Redis)
	mqConn := mq.Init(&cfg.RabbitMQ)

	publisher := mq.NewEmailPublisher(mqConn)

	// 仓储与服务
	userRepo := mysql.NewUserRepository(db)

	userSvc := service.NewUserService(userRepo, &cfg.JWT, publisher)
	productSvc := service.NewProductService(db)
	cartSvc := service.NewCartService(db)
	wishlistSvc := service.NewWishlistService(db)
	orderSvc := service.NewOrderService(db, publisher)
	statsSvc := service.NewStatsService(db)

	ring := auth.NewConsistentHashRing(cfg.Auth.Nodes, cfg.Auth.HashReplicas)
	tokenCache := auth.NewTokenCache(redisClient, ring,
		time.Duration(cfg.Auth.TokenCacheTTLSeconds)*time.Second)

	api := app.Party("/api")

	// 健康检查
	api.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{
			"code": 0,
			"msg":  "ok",
		})
	})

	// ---------------- 注册 / 登录 ----------------

	api.Post("/auth/signup", func(ctx iris.Context) {
		var req struct {
			Username    string `json:"username"`
			Email       string `json:"email"`
			Password    string `json:"password"`
			AccountType string `json:"accountType"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		u, err := userSvc.SignUp(ctx.Request().Context(), req.Username, req.Email, req.Password, req.AccountType)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "user created, otp sent to email", "data": u})
	})

	api.Post("/auth/verify-otp", func(ctx iris.Context) {
		var req struct {
			Email string `json:"email"`
			OTP   string `json:"otp"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		token, err := userSvc.VerifyOTP(ctx.Request().Context(), req.Email, req.OTP)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{"token": token}})
	})

	api.Post("/auth/sign-in", func(ctx iris.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		token, err := userSvc.SignIn(ctx.Request().Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrNotVerified) {
				ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": err.Error()})
				return
			}
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{"token": token}})
	})

	// 需要登录的接口
	authAPI := api.Party("/", middleware.JWT(&cfg.JWT, tokenCache))

	// ---------------- 用户 ----------------

	authAPI.Get("/users", func(ctx iris.Context) {
		list, err := userSvc.ListAll(ctx.Request().Context())
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	authAPI.Get("/users/profile", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		u, err := userSvc.GetProfile(ctx.Request().Context(), userID)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": u})
	})

	// ---------------- 商品 ----------------

	// 商品列表（支持 ?category= 和 ?q= 关键字过滤），返回卡片投影
	authAPI.Get("/products", func(ctx iris.Context) {
		category := ctx.URLParam("category")
		keyword := ctx.URLParam("q")
		list, err := productSvc.List(ctx.Request().Context(), category)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}

		cards := make([]iris.Map, 0, len(list))
		for _, p := range list {
			if keyword != "" &&
				!strings.Contains(strings.ToLower(p.Name), strings.ToLower(keyword)) {
				continue
			}
			cards = append(cards, iris.Map{
				"id":            p.ID,
				"name":          p.Name,
				"category":      p.Category,
				"sellingPrice":  p.SellingPrice,
				"stock":         p.Stock,
				"imageUrl":      p.FirstImage(),
				"ratingAverage": p.RatingAverage,
			})
		}
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{"total": len(cards), "products": cards}})
	})

	// 商品详情（带当前用户的购物车/心愿单标记）
	authAPI.Get("/products/{id:uint64}", func(ctx iris.Context) {
		pid, _ := ctx.Params().GetUint64("id")
		userID := ctx.Values().GetInt64Default("user_id", 0)
		details, err := productSvc.GetDetails(ctx.Request().Context(), int64(pid), userID)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": details})
	})

	// 添加评价
	authAPI.Post("/reviews", func(ctx iris.Context) {
		var req struct {
			ProductID   int64  `json:"productId"`
			Rating      int    `json:"rating"`
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		userID := ctx.Values().GetInt64Default("user_id", 0)
		p, err := productSvc.AddReview(ctx.Request().Context(), userID, req.ProductID, req.Rating, req.Title, req.Description)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.StatusCode(201)
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{
			"ratingAverage": p.RatingAverage,
			"ratingCount":   p.RatingCount,
		}})
	})

	// ---------------- 购物车 ----------------

	authAPI.Get("/cart", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		lines, err := cartSvc.Get(ctx.Request().Context(), userID)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": lines})
	})

	authAPI.Post("/cart", func(ctx iris.Context) {
		var req struct {
			ProductID int64 `json:"productId"`
			Quantity  int64 `json:"quantity"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		userID := ctx.Values().GetInt64Default("user_id", 0)
		if err := cartSvc.Add(ctx.Request().Context(), userID, req.ProductID, req.Quantity); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "product added to cart"})
	})

	authAPI.Put("/cart", func(ctx iris.Context) {
		var updates []service.CartUpdate
		if err := ctx.ReadJSON(&updates); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		userID := ctx.Values().GetInt64Default("user_id", 0)
		if err := cartSvc.Update(ctx.Request().Context(), userID, updates); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "cart updated"})
	})

	authAPI.Delete("/cart/{productId:uint64}", func(ctx iris.Context) {
		pid, _ := ctx.Params().GetUint64("productId")
		userID := ctx.Values().GetInt64Default("user_id", 0)
		if err := cartSvc.Remove(ctx.Request().Context(), userID, int64(pid)); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "product removed from cart"})
	})

	// ---------------- 心愿单 ----------------

	authAPI.Get("/wishlist", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		lines, err := wishlistSvc.Get(ctx.Request().Context(), userID)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": lines})
	})

	authAPI.Post("/wishlist", func(ctx iris.Context) {
		var req struct {
			ProductID int64 `json:"productId"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		userID := ctx.Values().GetInt64Default("user_id", 0)
		if err := wishlistSvc.Add(ctx.Request().Context(), userID, req.ProductID); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "product added to wishlist"})
	})

	authAPI.Delete("/wishlist/{productId:uint64}", func(ctx iris.Context) {
		pid, _ := ctx.Params().GetUint64("productId")
		userID := ctx.Values().GetInt64Default("user_id", 0)
		if err := wishlistSvc.Remove(ctx.Request().Context(), userID, int64(pid)); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "product removed from wishlist"})
	})

	// ---------------- 订单 ----------------

	// 下单（整体事务，见 OrderService.PlaceOrder）
	authAPI.Post("/orders", middleware.CheckoutRateLimit(), func(ctx iris.Context) {
		var req service.PlaceOrderRequest
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		userID := ctx.Values().GetInt64Default("user_id", 0)
		orderID, err := orderSvc.PlaceOrder(ctx.Request().Context(), userID, &req)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.StatusCode(201)
		ctx.JSON(iris.Map{"code": 0, "msg": "order placed successfully", "data": iris.Map{"orderId": orderID}})
	})

	// 当前用户的订单
	authAPI.Get("/orders", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		list, err := orderSvc.ListByUser(ctx.Request().Context(), userID)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	// 卖家后台
	registerSellerRoutes(authAPI, productSvc, orderSvc, statsSvc)
}

// writeServiceError 把服务层错误映射成 HTTP 状态码。
// 系统错误统一返回模糊提示，细节只进日志。
func writeServiceError(ctx iris.Context, err error) {
	var notFound *service.ProductNotFoundError
	var stock *service.InsufficientStockError

	switch {
	case errors.As(err, &notFound):
		ctx.StopWithJSON(404, iris.Map{"code": 404, "msg": err.Error()})
	case errors.As(err, &stock):
		ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
	case errors.Is(err, service.ErrNotAuthenticated):
		ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": err.Error()})
	case errors.Is(err, service.ErrNotInCart),
		errors.Is(err, service.ErrCartNotFound),
		errors.Is(err, service.ErrNotInWishlist),
		errors.Is(err, service.ErrWishlistNotFound):
		ctx.StopWithJSON(404, iris.Map{"code": 404, "msg": err.Error()})
	case errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrMissingAddress),
		errors.Is(err, service.ErrInvalidPaymentType),
		errors.Is(err, service.ErrMissingCardDetails),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidAccountType),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrNotVerified),
		errors.Is(err, service.ErrAlreadyVerified),
		errors.Is(err, service.ErrOTPExpired),
		errors.Is(err, service.ErrOTPMismatch),
		errors.Is(err, service.ErrAlreadyInCart),
		errors.Is(err, service.ErrAlreadyInWishlist),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrAlreadyReviewed):
		ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
	default:
		service.GetMonitor().RecordDBError()
		logger.L().Error("request failed",
			zap.String("path", ctx.Path()), zap.Error(err))
		ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": "server error, please try again"})
	}
}
