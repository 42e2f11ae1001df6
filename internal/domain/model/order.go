package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes the purchase lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
)

var statusOrder = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusPaid:       1,
	OrderStatusInProgress: 2,
	OrderStatusCompleted:  3,
}

// Valid reports whether the status is a known lifecycle value.
func (s OrderStatus) Valid() bool {
	_, ok := statusOrder[s]
	return ok
}

// CanTransitionTo reports whether moving to next keeps the lifecycle monotonic.
// Staying in the same status is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	from, ok := statusOrder[s]
	if !ok {
		return false
	}
	to, ok := statusOrder[next]
	if !ok {
		return false
	}
	return to >= from
}

// ProgressStage is a coarse delivery phase.
type ProgressStage string

const (
	StagePlanning    ProgressStage = "planning"
	StageDesign      ProgressStage = "design"
	StageDevelopment ProgressStage = "development"
	StageTesting     ProgressStage = "testing"
	StageLaunch      ProgressStage = "launch"
)

var stageOrder = map[ProgressStage]int{
	StagePlanning:    0,
	StageDesign:      1,
	StageDevelopment: 2,
	StageTesting:     3,
	StageLaunch:      4,
}

var stageThresholds = map[ProgressStage]int{
	StagePlanning:    0,
	StageDesign:      10,
	StageDevelopment: 30,
	StageTesting:     70,
	StageLaunch:      90,
}

// Valid reports whether the stage is a known value.
func (s ProgressStage) Valid() bool {
	_, ok := stageOrder[s]
	return ok
}

// Threshold returns the minimum progress percent required by the stage.
func (s ProgressStage) Threshold() int {
	return stageThresholds[s]
}

// CanAdvanceTo reports whether next is the same stage or a later one.
func (s ProgressStage) CanAdvanceTo(next ProgressStage) bool {
	from, ok := stageOrder[s]
	if !ok {
		return false
	}
	to, ok := stageOrder[next]
	if !ok {
		return false
	}
	return to >= from
}

// ServiceType identifies the base service purchased.
type ServiceType string

const (
	ServiceNewWebsite ServiceType = "new_website"
	ServiceRedesign   ServiceType = "redesign"
)

// HostingType identifies the hosting tier purchased.
type HostingType string

const (
	HostingManaged   HostingType = "managed"
	HostingFilesOnly HostingType = "files_only"
)

// InitialPaidProgress is the progress set when a payment is confirmed.
const InitialPaidProgress = 10

// Addon is a priced add-on captured on the order at creation time.
type Addon struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Order describes one purchase attempt and its delivery progress.
type Order struct {
	ID              int64
	CustomerEmail   string
	ServiceType     ServiceType
	BasePrice       decimal.Decimal
	Addons          []Addon
	HostingType     HostingType
	HostingPrice    decimal.Decimal
	TotalAmount     decimal.Decimal
	Currency        string
	PaymentIntentID *string
	Status          OrderStatus
	Progress        int
	ProgressStage   ProgressStage
	ProjectDetails  string
	ClientNotes     string
	InternalNotes   string
	PaidAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ComponentsTotal sums base, hosting and add-on prices.
func (o *Order) ComponentsTotal() decimal.Decimal {
	total := o.BasePrice.Add(o.HostingPrice)
	for _, a := range o.Addons {
		total = total.Add(a.Price)
	}
	return total.Round(2)
}

// ClientView projects the order for unauthenticated customer tracking.
// Customer email and internal notes are never included.
func (o *Order) ClientView() ClientView {
	addons := make([]Addon, len(o.Addons))
	copy(addons, o.Addons)
	return ClientView{
		OrderID:        o.ID,
		ServiceType:    o.ServiceType,
		Status:         o.Status,
		Progress:       o.Progress,
		ProgressStage:  o.ProgressStage,
		TotalAmount:    o.TotalAmount,
		Currency:       o.Currency,
		Addons:         addons,
		HostingType:    o.HostingType,
		HostingPrice:   o.HostingPrice,
		ProjectDetails: o.ProjectDetails,
		ClientNotes:    o.ClientNotes,
		CreatedAt:      o.CreatedAt,
		PaidAt:         o.PaidAt,
	}
}

// ClientView is the read-only customer-facing projection of an order.
type ClientView struct {
	OrderID        int64
	ServiceType    ServiceType
	Status         OrderStatus
	Progress       int
	ProgressStage  ProgressStage
	TotalAmount    decimal.Decimal
	Currency       string
	Addons         []Addon
	HostingType    HostingType
	HostingPrice   decimal.Decimal
	ProjectDetails string
	ClientNotes    string
	CreatedAt      time.Time
	PaidAt         *time.Time
}

// OrderFilter narrows admin order listings.
type OrderFilter struct {
	Status *OrderStatus
	Limit  int
	Offset int
}
