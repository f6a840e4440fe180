package api

type (
	// HealthResponse provides service health information
	HealthResponse struct {
		Service  string   `json:"service"`
		Version  string   `json:"version"`
		Status     string   `json:"status"`
		Variants   []string `json:"variants,omitempty"`
		ClaimTypes []string `json:"claimTypes,omitempty"`
	}

	// ErrorResponse contains error details for failed requests
	ErrorResponse struct {
		Error    string `json:"error"`
		Status   int    `json:"status,omitempty"`
		Upstream string `json:"upstream,omitempty"`
		Detail   string `json:"detail,omitempty"`
	}
)

// HealthOK is reported by a running service
const HealthOK = "ok"
