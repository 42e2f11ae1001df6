package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/studiodesk/internal/domain/errors"
	"github.com/polkiloo/studiodesk/internal/domain/model"
	"github.com/polkiloo/studiodesk/internal/server/http/dto"
)

// CheckoutHandler serves the public catalog, checkout and order tracking endpoints.
type CheckoutHandler struct {
	facade CheckoutFacade
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(facade CheckoutFacade) *CheckoutHandler {
	return &CheckoutHandler{facade: facade}
}

// Catalog handles GET /api/catalog.
func (h *CheckoutHandler) Catalog(c *gin.Context) {
	catalog := h.facade.Catalog()
	entries := catalog.Entries()
	response := dto.CatalogResponse{
		Currency: catalog.Currency(),
		Entries:  make([]dto.CatalogEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		response.Entries = append(response.Entries, dto.CatalogEntryResponse{
			ID:        e.ID,
			Name:      e.Name,
			Price:     e.Price.StringFixed(2),
			Category:  string(e.Category),
			Recurring: e.Recurring,
		})
	}
	c.JSON(http.StatusOK, response)
}

// CreateOrder handles POST /api/orders.
func (h *CheckoutHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := bindStrictJSON(c, &req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid order request")
		return
	}

	session, err := h.facade.CreateOrder(c.Request.Context(), model.OrderRequest{
		ServiceType:    model.ServiceType(req.ServiceType),
		Addons:         req.Addons,
		HostingType:    model.HostingType(req.HostingType),
		Email:          req.Email,
		ProjectDetails: req.ProjectDetails,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrValidation):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, domainErrors.ErrUpstream):
			abortWithError(c, http.StatusBadGateway, domainErrors.ErrUpstream.Error())
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.CheckoutResponse{
		OrderID:                 session.OrderID,
		ClientConfirmationToken: session.ClientSecret,
		PaymentIntentID:         session.PaymentIntentID,
		TotalAmount:             session.Total.StringFixed(2),
		Currency:                session.Currency,
	})
}

// OrderStatus handles GET /api/orders/by-intent/:intentID.
func (h *CheckoutHandler) OrderStatus(c *gin.Context) {
	view, err := h.facade.OrderStatus(c.Request.Context(), c.Param("intentID"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, toClientOrderResponse(view))
}
