package health

// HealthResponse es la respuesta de /readyz.
type HealthResponse struct {
	Status     string                     `json:"status"` // ready | degraded | unavailable
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentStatus `json:"components"`
}

type ComponentStatus struct {
	Status string `json:"status"` // ok | error
	Error  string `json:"error,omitempty"`
}
