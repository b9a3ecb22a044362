// Package dto defines request/response shapes for API v1.
package dto

// SuccessResponse is a generic operation acknowledgement.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Warning string `json:"warning,omitempty"`
}
