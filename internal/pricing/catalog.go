package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/polkiloo/studiodesk/internal/domain/model"
)

// Category groups catalog entries.
type Category string

const (
	CategoryService Category = "service"
	CategoryAddon   Category = "addon"
	CategoryHosting Category = "hosting"
)

// CatalogCurrency is the currency every catalog price is expressed in.
const CatalogCurrency = "usd"

// Entry is a priced catalog item.
type Entry struct {
	ID        string
	Name      string
	Price     decimal.Decimal
	Category  Category
	Recurring bool
}

// Catalog is the immutable price table of services, add-ons and hosting tiers.
type Catalog struct {
	currency string
	entries  []Entry
	index    map[Category]map[string]Entry
}

// NewCatalog builds a catalog from entries. Later duplicates of an id within a category are ignored.
func NewCatalog(currency string, entries []Entry) *Catalog {
	c := &Catalog{
		currency: currency,
		index:    make(map[Category]map[string]Entry),
	}
	for _, e := range entries {
		byID, ok := c.index[e.Category]
		if !ok {
			byID = make(map[string]Entry)
			c.index[e.Category] = byID
		}
		if _, dup := byID[e.ID]; dup {
			continue
		}
		byID[e.ID] = e
		c.entries = append(c.entries, e)
	}
	return c
}

// Default returns the agency price list.
func Default() *Catalog {
	usd := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
	return NewCatalog(CatalogCurrency, []Entry{
		{ID: string(model.ServiceNewWebsite), Name: "New Website", Price: usd(999), Category: CategoryService},
		{ID: string(model.ServiceRedesign), Name: "Website Redesign", Price: usd(799), Category: CategoryService},
		{ID: "gallery", Name: "Photo Gallery", Price: usd(149), Category: CategoryAddon},
		{ID: "seo", Name: "SEO Optimization", Price: usd(199), Category: CategoryAddon},
		{ID: "blog", Name: "Blog", Price: usd(249), Category: CategoryAddon},
		{ID: "contact_form", Name: "Contact Form", Price: usd(49), Category: CategoryAddon},
		{ID: "booking", Name: "Booking System", Price: usd(199), Category: CategoryAddon},
		{ID: "ecommerce", Name: "E-commerce", Price: usd(499), Category: CategoryAddon},
		{ID: "analytics", Name: "Analytics Setup", Price: usd(79), Category: CategoryAddon},
		{ID: string(model.HostingManaged), Name: "Managed Hosting", Price: usd(29), Category: CategoryHosting, Recurring: true},
		{ID: string(model.HostingFilesOnly), Name: "Files Only", Price: decimal.Zero, Category: CategoryHosting},
	})
}

func (c *Catalog) lookup(cat Category, id string) (Entry, bool) {
	e, ok := c.index[cat][id]
	return e, ok
}

// Service returns the base service entry.
func (c *Catalog) Service(id string) (Entry, bool) { return c.lookup(CategoryService, id) }

// Addon returns the add-on entry.
func (c *Catalog) Addon(id string) (Entry, bool) { return c.lookup(CategoryAddon, id) }

// Hosting returns the hosting tier entry.
func (c *Catalog) Hosting(id string) (Entry, bool) { return c.lookup(CategoryHosting, id) }

// Entries returns all entries in display order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Currency returns the catalog currency code.
func (c *Catalog) Currency() string { return c.currency }
