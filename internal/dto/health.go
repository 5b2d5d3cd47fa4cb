package dto

// HealthResponse is returned by /healthz, /livez and /readyz
type HealthResponse struct {
	Status  string            `json:"status"`
	Details map[string]string `json:"details,omitempty"`
}
