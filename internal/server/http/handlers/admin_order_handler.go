package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/studiodesk/internal/domain/errors"
	"github.com/polkiloo/studiodesk/internal/domain/model"
	"github.com/polkiloo/studiodesk/internal/server/http/dto"
)

// AdminOrderHandler manages order endpoints of the admin panel.
type AdminOrderHandler struct {
	facade AdminFacade
}

// NewAdminOrderHandler constructs AdminOrderHandler.
func NewAdminOrderHandler(facade AdminFacade) *AdminOrderHandler {
	return &AdminOrderHandler{facade: facade}
}

// List handles GET /api/admin/orders.
func (h *AdminOrderHandler) List(c *gin.Context) {
	var query dto.ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid query")
		return
	}

	filter := model.OrderFilter{Limit: query.Limit, Offset: query.Offset}
	if query.Status != "" {
		status := model.OrderStatus(query.Status)
		filter.Status = &status
	}

	orders, err := h.facade.Orders(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, domainErrors.ErrValidation) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.AdminOrderResponse, 0, len(orders))
	for i := range orders {
		response = append(response, toAdminOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/admin/orders/:id.
func (h *AdminOrderHandler) Get(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := h.facade.Order(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, toAdminOrderResponse(order))
}

// UpdateProgress handles PATCH /api/admin/orders/:id/progress.
func (h *AdminOrderHandler) UpdateProgress(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req dto.ProgressUpdateRequest
	if err := bindStrictJSON(c, &req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid progress update")
		return
	}

	update := model.ProgressUpdate{
		Progress:      req.Progress,
		ClientNotes:   req.ClientNotes,
		InternalNotes: req.InternalNotes,
	}
	if req.Status != nil {
		status := model.OrderStatus(*req.Status)
		update.Status = &status
	}
	if req.ProgressStage != nil {
		stage := model.ProgressStage(*req.ProgressStage)
		update.Stage = &stage
	}

	order, err := h.facade.UpdateProgress(c.Request.Context(), id, update)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrInvalidTransition):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, domainErrors.ErrValidation):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.JSON(http.StatusOK, toAdminOrderResponse(order))
}

func orderIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return id, true
}
