package controllers

import (
	"net/http"
	"strconv"

	"checkout-service/models"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LeadController handles storefront enquiries.
type LeadController struct {
	leadService services.LeadService
}

func NewLeadController(svc services.LeadService) *LeadController {
	return &LeadController{leadService: svc}
}

// Create handles POST /api/leads
func (lc *LeadController) Create(ctx *gin.Context) {
	var req models.CreateLeadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestJSON(ctx, err)
		return
	}

	lead, svcErr := lc.leadService.CaptureLead(ctx.Request.Context(), &req)
	if svcErr != nil {
		errorJSON(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"ok": true, "lead": lead})
}

// List handles GET /api/leads?status=&page=&limit=
func (lc *LeadController) List(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)

	leads, total, svcErr := lc.leadService.ListLeads(ctx.Request.Context(), ctx.Query("status"), page, limit)
	if svcErr != nil {
		errorJSON(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"leads": leads,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// UpdateStatus handles PATCH /api/leads/:id/status
func (lc *LeadController) UpdateStatus(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid lead id"})
		return
	}

	var req models.UpdateLeadStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestJSON(ctx, err)
		return
	}

	if svcErr := lc.leadService.UpdateLeadStatus(ctx.Request.Context(), id, req.Status); svcErr != nil {
		errorJSON(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

// parsePaginationParams extracts and validates page/limit query params.
func parsePaginationParams(ctx *gin.Context) (int, int) {
	const maxLimit = 100
	pageInt, limitInt := 1, 20
	if p, err := strconv.Atoi(ctx.DefaultQuery("page", "1")); err == nil && p > 0 {
		pageInt = p
	}
	if l, err := strconv.Atoi(ctx.DefaultQuery("limit", "20")); err == nil && l > 0 {
		if l > maxLimit {
			l = maxLimit
		}
		limitInt = l
	}
	return pageInt, limitInt
}
