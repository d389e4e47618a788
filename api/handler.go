package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pos_sales/internal/duration"
	"pos_sales/internal/sales"
)

// salesHandler holds the sales service and implements HTTP handlers for sales operations.
type salesHandler struct {
	salesService *sales.Service
	logger       *zap.Logger
	now          func() time.Time
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(salesService *sales.Service, logger *zap.Logger) *salesHandler {
	return &salesHandler{
		salesService: salesService,
		logger:       logger,
		now:          time.Now,
	}
}

type commitItem struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type commitRequest struct {
	StaffID string       `json:"staff_id" binding:"required"`
	Items   []commitItem `json:"items"`
}

// handleCreateSale handles the POST /sales endpoint. It builds a cart from
// the requested items and commits it.
func (h *salesHandler) handleCreateSale(ctx *gin.Context) {
	var req commitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	cart := sales.NewCart()
	for _, item := range req.Items {
		product, err := h.salesService.GetProduct(ctx.Request.Context(), item.ProductID)
		if err != nil {
			h.writeError(ctx, err)
			return
		}
		if err := cart.AddItem(*product, item.Quantity); err != nil {
			h.writeError(ctx, err)
			return
		}
	}

	saleID, err := h.salesService.Commit(ctx.Request.Context(), cart, req.StaffID)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"id": saleID, "total": cart.Total()})
}

func (h *salesHandler) handleDeleteSale(ctx *gin.Context) {
	if err := h.salesService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (h *salesHandler) handleGetSale(ctx *gin.Context) {
	sale, err := h.salesService.GetSale(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sale)
}

// handleListSales serves GET /sales. q searches, duration or start/end
// restrict the date range; both may be combined.
func (h *salesHandler) handleListSales(ctx *gin.Context) {
	start, end, ranged, err := h.parseRange(ctx)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	var results []*sales.Sale
	switch text := ctx.Query("q"); {
	case text != "":
		results, err = h.salesService.Search(ctx.Request.Context(), text)
		if err == nil && ranged {
			results = inRange(results, start, end)
		}
	case ranged:
		results, err = h.salesService.ListInRange(ctx.Request.Context(), start, end)
	default:
		results, err = h.salesService.ListAll(ctx.Request.Context())
	}
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	if results == nil {
		results = []*sales.Sale{}
	}
	ctx.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

func (h *salesHandler) handleSummary(ctx *gin.Context) {
	start, end, ranged, err := h.parseRange(ctx)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	if !ranged {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "duration or start and end are required"})
		return
	}

	amount, err := h.salesService.TotalAmount(ctx.Request.Context(), start, end)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	count, err := h.salesService.TotalCount(ctx.Request.Context(), start, end)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"start":        start,
		"end":          end,
		"total_amount": amount,
		"total_count":  count,
	})
}

var errPartialRange = errors.New("start and end must be given together")

func (h *salesHandler) parseRange(ctx *gin.Context) (start, end time.Time, ok bool, err error) {
	if name := ctx.Query("duration"); name != "" {
		preset, err := duration.ParsePreset(name)
		if err != nil {
			return start, end, false, err
		}
		start, end, err = duration.Resolve(preset, h.now())
		return start, end, err == nil, err
	}

	rawStart, rawEnd := ctx.Query("start"), ctx.Query("end")
	if rawStart == "" && rawEnd == "" {
		return start, end, false, nil
	}
	if rawStart == "" || rawEnd == "" {
		return start, end, false, errPartialRange
	}
	if start, err = time.Parse(time.RFC3339, rawStart); err != nil {
		return start, end, false, err
	}
	if end, err = time.Parse(time.RFC3339, rawEnd); err != nil {
		return start, end, false, err
	}
	if start.After(end) {
		return start, end, false, sales.ErrInvalidRange
	}
	return start, end, true, nil
}

func inRange(in []*sales.Sale, start, end time.Time) []*sales.Sale {
	out := make([]*sales.Sale, 0, len(in))
	for _, s := range in {
		if !s.Date.Before(start) && !s.Date.After(end) {
			out = append(out, s)
		}
	}
	return out
}

// writeError maps engine errors to HTTP responses.
func (h *salesHandler) writeError(ctx *gin.Context, err error) {
	var stockErr *sales.InsufficientStockError
	var parseErr *time.ParseError
	switch {
	case errors.As(err, &stockErr):
		ctx.JSON(http.StatusConflict, gin.H{
			"error":      "insufficient stock",
			"product_id": stockErr.ProductID,
			"requested":  stockErr.Requested,
			"available":  stockErr.Available,
		})
	case errors.Is(err, sales.ErrEmptyCart),
		errors.Is(err, sales.ErrInvalidQuantity),
		errors.Is(err, sales.ErrInvalidRange),
		errors.Is(err, duration.ErrUnknownPreset),
		errors.Is(err, errPartialRange),
		errors.As(err, &parseErr):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, sales.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "sale not found"})
	case errors.Is(err, sales.ErrProductNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	default:
		h.logger.Error("sales request failed", zap.String("path", ctx.FullPath()), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
