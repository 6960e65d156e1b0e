package api

// IdentifyResponse is returned by /api/identify
type IdentifyResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Model     string `json:"model"`
	Content   string `json:"content"`
	Format    string `json:"format"` // "json" or "text"
}

// ModelEntry describes one selectable model
type ModelEntry struct {
	Label   string `json:"label"`
	ID      string `json:"id"`
	Default bool   `json:"default"`
}

// ModelsResponse for /api/models endpoint
type ModelsResponse struct {
	Models []ModelEntry `json:"models"`
}

// HealthResponse for /healthz endpoint
type HealthResponse struct {
	Status           string `json:"status"`
	APIKeyConfigured bool   `json:"api_key_configured"`
}
