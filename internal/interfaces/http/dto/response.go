package dto

// Response is the envelope of the dashboard API
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message},
	}
}

// WebhookResponse is returned to the gateway for every delivery.
// The body never says whether the gateway slug or the tenant was the problem.
type WebhookResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	SaleID    string `json:"saleId,omitempty"`
	Action    string `json:"action,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// NewWebhookError creates a failed webhook response
func NewWebhookError(code, message, requestID string) WebhookResponse {
	return WebhookResponse{Success: false, Code: code, Message: message, RequestID: requestID}
}

// GatewayInfo describes a supported gateway for URL construction in the dashboard
type GatewayInfo struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	WebhookPath string `json:"webhookPath"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status   string `json:"status"`
	Time     string `json:"time"`
	Database string `json:"database"`
}
