// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}

// StatusResponse represents the state of the cache client.
type StatusResponse struct {
	State    string `json:"state"`
	Enabled  bool   `json:"enabled"`
	Database int    `json:"database"`
}

// ValueResponse represents a stored value.
type ValueResponse struct {
	Key      string      `json:"key"`
	Value    interface{} `json:"value,omitempty"`
	Found    bool        `json:"found"`
	Disabled bool        `json:"disabled,omitempty"`
}

// KeysResponse represents a list of keys.
type KeysResponse struct {
	Keys     []string `json:"keys"`
	Total    int      `json:"total"`
	Disabled bool     `json:"disabled,omitempty"`
}

// CounterResponse represents the value of a counter after an adjustment.
type CounterResponse struct {
	Key      string `json:"key"`
	Value    int64  `json:"value"`
	Disabled bool   `json:"disabled,omitempty"`
}

// AckResponse represents the outcome of a write operation.
type AckResponse struct {
	OK       bool `json:"ok"`
	Disabled bool `json:"disabled,omitempty"`
}

// LastErrorResponse represents the last error reported by the server.
type LastErrorResponse struct {
	Error    string `json:"error,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}
