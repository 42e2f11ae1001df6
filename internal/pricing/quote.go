package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/studiodesk/internal/domain/errors"
	"github.com/polkiloo/studiodesk/internal/domain/model"
)

// Selection is the client's choice of service, add-ons and hosting.
type Selection struct {
	ServiceType model.ServiceType
	AddonIDs    []string
	HostingType model.HostingType
}

// Quote is the priced selection.
type Quote struct {
	ServiceType  model.ServiceType
	BasePrice    decimal.Decimal
	Addons       []model.Addon
	HostingType  model.HostingType
	HostingPrice decimal.Decimal
	Recurring    bool
	Total        decimal.Decimal
	Currency     string
}

// Calculator prices selections against a catalog.
type Calculator struct {
	catalog *Catalog
}

// NewCalculator constructs a calculator over catalog.
func NewCalculator(catalog *Catalog) *Calculator {
	return &Calculator{catalog: catalog}
}

// Catalog exposes the underlying price table.
func (c *Calculator) Catalog() *Catalog {
	return c.catalog
}

// Quote returns total = base + hosting + sum of known add-ons.
// Unknown add-on ids are dropped; repeated ids are priced once.
func (c *Calculator) Quote(sel Selection) (Quote, error) {
	service, ok := c.catalog.Service(string(sel.ServiceType))
	if !ok {
		return Quote{}, fmt.Errorf("%w: unknown service type %q", domainErrors.ErrValidation, sel.ServiceType)
	}
	hosting, ok := c.catalog.Hosting(string(sel.HostingType))
	if !ok {
		return Quote{}, fmt.Errorf("%w: unknown hosting type %q", domainErrors.ErrValidation, sel.HostingType)
	}

	total := service.Price.Add(hosting.Price)
	addons := make([]model.Addon, 0, len(sel.AddonIDs))
	seen := make(map[string]struct{}, len(sel.AddonIDs))
	for _, id := range sel.AddonIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		entry, ok := c.catalog.Addon(id)
		if !ok {
			continue
		}
		addons = append(addons, model.Addon{ID: entry.ID, Name: entry.Name, Price: entry.Price})
		total = total.Add(entry.Price)
	}

	return Quote{
		ServiceType:  sel.ServiceType,
		BasePrice:    service.Price,
		Addons:       addons,
		HostingType:  sel.HostingType,
		HostingPrice: hosting.Price,
		Recurring:    hosting.Recurring,
		Total:        total.Round(2),
		Currency:     c.catalog.Currency(),
	}, nil
}
