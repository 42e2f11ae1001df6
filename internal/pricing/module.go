package pricing

import (
	"fmt"
	"strings"

	"go.uber.org/fx"

	"github.com/polkiloo/studiodesk/internal/config"
)

// Module provides the catalog and quote calculator.
var Module = fx.Provide(
	NewConfiguredCatalog,
	NewCalculator,
)

// NewConfiguredCatalog returns the default catalog after checking the configured currency matches it.
func NewConfiguredCatalog(cfg *config.Config) (*Catalog, error) {
	catalog := Default()
	if cfg != nil && !strings.EqualFold(cfg.BaseCurrency, catalog.Currency()) {
		return nil, fmt.Errorf("base currency %q does not match catalog currency %q", cfg.BaseCurrency, catalog.Currency())
	}
	return catalog, nil
}
