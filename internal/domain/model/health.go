package model

// Health is the backend liveness report.
type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Healthy reports whether the backend and its database are up.
func (h Health) Healthy() bool {
	return h.Status == "healthy" && h.Database == "connected"
}
