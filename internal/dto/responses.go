package dto

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorListResponse struct {
	Error  string            `json:"error"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// AmountValidationResponse tells the caller whether a payment amount fits the
// tenant's regional ceilings.
type AmountValidationResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

type SeedResponse struct {
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
	Warning string `json:"warning,omitempty"`
}
