package controllers

import (
	"net/http"

	"checkout-service/models"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
)

// CheckoutController prices carts and converts amounts for display.
type CheckoutController struct {
	checkoutService services.CheckoutService
	currencyService services.CurrencyService
}

func NewCheckoutController(checkoutSvc services.CheckoutService, currencySvc services.CurrencyService) *CheckoutController {
	return &CheckoutController{checkoutService: checkoutSvc, currencyService: currencySvc}
}

// Summary handles POST /api/checkout/summary
func (cc *CheckoutController) Summary(ctx *gin.Context) {
	var req models.CheckoutSummaryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestJSON(ctx, err)
		return
	}

	summary, svcErr := cc.checkoutService.Summarize(ctx.Request.Context(), &req)
	if svcErr != nil {
		errorJSON(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true, "summary": summary})
}

// Rates handles GET /api/currency/rates
func (cc *CheckoutController) Rates(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, cc.currencyService.Rates(ctx.Request.Context()))
}

// Convert handles POST /api/currency/convert
func (cc *CheckoutController) Convert(ctx *gin.Context) {
	var req models.ConvertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestJSON(ctx, err)
		return
	}

	out, svcErr := cc.currencyService.Convert(ctx.Request.Context(), &req)
	if svcErr != nil {
		errorJSON(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, out)
}
