package dto

// CatalogEntryResponse is one row of the public price table.
type CatalogEntryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Category  string `json:"category"`
	Recurring bool   `json:"recurring"`
}

// CatalogResponse is the full price table.
type CatalogResponse struct {
	Currency string                 `json:"currency"`
	Entries  []CatalogEntryResponse `json:"entries"`
}

// WebhookResponse acknowledges a processed webhook.
type WebhookResponse struct {
	Received bool `json:"received"`
}

// HealthResponse reports service readiness.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
