package middleware

import (
	"strings"

	"github.com/kataras/iris/v12"

	"github.com/example/gomall/internal/auth"
	"github.com/example/gomall/internal/config"
)

// JWT 鉴权中间件：解析 Authorization 头并把身份放进请求上下文。
// cache 可以为 nil，此时每个请求都走签名校验。
func JWT(cfg *config.JWTConfig, cache *auth.TokenCache) iris.Handler {
	return func(ctx iris.Context) {
		token := strings.TrimPrefix(ctx.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "missing token"})
			return
		}

		reqCtx := ctx.Request().Context()
		if cache != nil {
			if claims, hit, err := cache.Get(reqCtx, token); err == nil && hit {
				setIdentity(ctx, claims)
				ctx.Next()
				return
			}
		}

		claims, err := auth.ParseToken(cfg, token)
		if err != nil {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "invalid token"})
			return
		}
		if cache != nil {
			_ = cache.Set(reqCtx, token, claims)
		}
		setIdentity(ctx, claims)
		ctx.Next()
	}
}

func setIdentity(ctx iris.Context, claims *auth.Claims) {
	ctx.Values().Set("user_id", claims.UserID)
	ctx.Values().Set("email", claims.Email)
	ctx.Values().Set("account_type", claims.AccountType)
}

// SellerOnly 卖家接口守卫，必须在 JWT 之后挂载
func SellerOnly() iris.Handler {
	return func(ctx iris.Context) {
		if ctx.Values().GetString("account_type") != "Seller" {
			ctx.StopWithJSON(403, iris.Map{"code": 403, "msg": "seller account required"})
			return
		}
		ctx.Next()
	}
}
