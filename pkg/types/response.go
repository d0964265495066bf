package types

// SuccessEnvelope is the wire shape for every successful API response.
type SuccessEnvelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
}

// ErrorEnvelope is the wire shape for every failed API response. Error carries
// the machine-readable code; Message stays human-readable.
type ErrorEnvelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Error     string `json:"error"`
	Details   any    `json:"details,omitempty"`
	Timestamp string `json:"timestamp"`
}
