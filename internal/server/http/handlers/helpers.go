package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/polkiloo/studiodesk/internal/domain/model"
	"github.com/polkiloo/studiodesk/internal/server/http/dto"
)

const maxJSONBody = 64 << 10

var errTrailingData = errors.New("unexpected data after JSON body")

// bindStrictJSON decodes a single JSON object rejecting unknown fields, then runs binding validation.
func bindStrictJSON(c *gin.Context, dst any) error {
	dec := json.NewDecoder(io.LimitReader(c.Request.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errTrailingData
	}
	return binding.Validator.ValidateStruct(dst)
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: message})
}

func toAddonResponses(addons []model.Addon) []dto.AddonResponse {
	out := make([]dto.AddonResponse, 0, len(addons))
	for _, a := range addons {
		out = append(out, dto.AddonResponse{ID: a.ID, Name: a.Name, Price: a.Price.StringFixed(2)})
	}
	return out
}

func toClientOrderResponse(v *model.ClientView) dto.ClientOrderResponse {
	return dto.ClientOrderResponse{
		OrderID:        v.OrderID,
		ServiceType:    string(v.ServiceType),
		Status:         string(v.Status),
		Progress:       v.Progress,
		ProgressStage:  string(v.ProgressStage),
		TotalAmount:    v.TotalAmount.StringFixed(2),
		Currency:       v.Currency,
		Addons:         toAddonResponses(v.Addons),
		HostingType:    string(v.HostingType),
		HostingPrice:   v.HostingPrice.StringFixed(2),
		ProjectDetails: v.ProjectDetails,
		ClientNotes:    v.ClientNotes,
		CreatedAt:      v.CreatedAt,
		PaidAt:         v.PaidAt,
	}
}

func toAdminOrderResponse(o *model.Order) dto.AdminOrderResponse {
	return dto.AdminOrderResponse{
		ID:              o.ID,
		CustomerEmail:   o.CustomerEmail,
		ServiceType:     string(o.ServiceType),
		BasePrice:       o.BasePrice.StringFixed(2),
		Addons:          toAddonResponses(o.Addons),
		HostingType:     string(o.HostingType),
		HostingPrice:    o.HostingPrice.StringFixed(2),
		TotalAmount:     o.TotalAmount.StringFixed(2),
		Currency:        o.Currency,
		PaymentIntentID: o.PaymentIntentID,
		Status:          string(o.Status),
		Progress:        o.Progress,
		ProgressStage:   string(o.ProgressStage),
		ProjectDetails:  o.ProjectDetails,
		ClientNotes:     o.ClientNotes,
		InternalNotes:   o.InternalNotes,
		PaidAt:          o.PaidAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
