package routes

import (
	"checkout-service/controllers"
	"checkout-service/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up the public checkout API and the admin lead routes.
func RegisterRoutes(
	r *gin.Engine,
	sc *controllers.ShippingController,
	cc *controllers.CheckoutController,
	lc *controllers.LeadController,
	jwtSecret []byte,
) {
	api := r.Group("/api")

	// Public: storefront checkout
	api.POST("/shipping/estimate", sc.Estimate)
	api.POST("/checkout/summary", cc.Summary)
	api.GET("/currency/rates", cc.Rates)
	api.POST("/currency/convert", cc.Convert)
	api.POST("/leads", lc.Create)

	// Protected (admin): lead follow-up
	admin := api.Group("/leads")
	admin.Use(middleware.JWTAuth(jwtSecret), middleware.AdminOnly())
	admin.GET("", lc.List)
	admin.PATCH("/:id/status", lc.UpdateStatus)
}
