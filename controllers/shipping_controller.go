package controllers

import (
	"net/http"

	"checkout-service/models"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
)

// ShippingController handles HTTP requests for shipping estimates.
type ShippingController struct {
	shippingService services.ShippingService
}

// NewShippingController creates a new ShippingController.
func NewShippingController(svc services.ShippingService) *ShippingController {
	return &ShippingController{shippingService: svc}
}

// Estimate handles POST /api/shipping/estimate
func (sc *ShippingController) Estimate(ctx *gin.Context) {
	var req models.EstimateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestJSON(ctx, err)
		return
	}

	est, svcErr := sc.shippingService.Estimate(ctx.Request.Context(), &req)
	if svcErr != nil {
		errorJSON(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, models.EstimateResponse{OK: true, Shipping: est})
}

func badRequestJSON(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid request", "details": err.Error()})
}

func errorJSON(ctx *gin.Context, svcErr *services.ServiceError) {
	ctx.JSON(svcErr.StatusCode, gin.H{"ok": false, "error": svcErr.Message})
}
