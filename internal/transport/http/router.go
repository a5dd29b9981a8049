package http

import (
	"github.com/gin-gonic/gin"

	"github.com/you/shop-backoffice/internal/domain"
	"github.com/you/shop-backoffice/internal/transport/http/handlers"
	"github.com/you/shop-backoffice/internal/transport/http/middlewares"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Product *handlers.ProductHandler
	Order   *handlers.OrderHandler
	Stats   *handlers.StatsHandler
}

func NewRouter(h Handlers) *gin.Engine {
	r := gin.Default()

	r.POST("/login", h.Auth.Login)

	user := r.Group("/user")
	{
		user.POST("/signup", h.Auth.Signup)
		user.POST("/verify-otp", h.Auth.VerifyOTP)
		user.POST("/request-password-reset", h.Auth.RequestPasswordReset)
		user.POST("/reset-password", h.Auth.ResetPassword)
		user.POST("/change-password", h.Auth.ChangePassword)
		user.PUT("/profile", middlewares.JWTAuth(), h.Auth.UpdateProfile)
	}

	r.GET("/products", h.Product.List)
	r.GET("/product/:id", h.Product.Get)
	r.PATCH("/products/:id/update-stock", h.Product.UpdateStock)

	catalog := r.Group("")
	catalog.Use(middlewares.JWTAuth(), middlewares.RequireRole(string(domain.RoleAdmin)))
	{
		catalog.POST("/add-product", h.Product.Add)
		catalog.PUT("/products/:id", h.Product.Update)
		catalog.POST("/remove", h.Product.Remove)
	}

	order := r.Group("/order")
	order.Use(middlewares.JWTAuth())
	{
		order.POST("/placeorder", h.Order.Place)
		order.GET("/getorders", h.Order.ListMine)
		order.GET("/:id", h.Order.Get)
		order.POST("/orders/:id/request-cancel", h.Order.RequestCancel)

		admin := order.Group("")
		admin.Use(middlewares.RequireRole(string(domain.RoleAdmin)))
		{
			admin.GET("/admin/orders", h.Order.ListAll)
			admin.PATCH("/order/:id", h.Order.UpdateStatus)
			admin.POST("/orders/:id/handle-cancel", h.Order.HandleCancel)
			admin.DELETE("/:id", h.Order.Delete)
		}
	}

	count := r.Group("/count")
	count.Use(middlewares.JWTAuth(), middlewares.RequireRole(string(domain.RoleAdmin)))
	{
		count.GET("/products", h.Stats.ProductCount)
		count.GET("/products/low-stock", h.Stats.LowStockCount)
		count.GET("/orders", h.Stats.OrderCount)
		count.GET("/orders/recent", h.Stats.RecentOrderCount)
		count.GET("/users", h.Stats.CustomerCount)
	}

	return r
}
