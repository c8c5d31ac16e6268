package model

// FormRequest is the body accepted by the JSON create and update endpoints.
// It mirrors the dashboard form: applications is a comma separated string.
type FormRequest struct {
	Name         string `json:"name"`
	CPU          string `json:"cpu"`
	RAM          string `json:"ram"`
	Storage      string `json:"storage"`
	Applications string `json:"applications"`
	Unit         string `json:"unit"`
	Status       string `json:"status"`
}

type Stats struct {
	Total             int `json:"total"`
	Active            int `json:"active"`
	TotalApplications int `json:"totalApplications"`
}

type ListResponse struct {
	Items      []VPS  `json:"items"`
	Term       string `json:"q,omitempty"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
	TotalItems int    `json:"totalItems"`
	Stats      Stats  `json:"stats"`
}

type MessageResponse struct {
	Message string      `json:"msg,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Status  int         `json:"status,omitempty"`
	Message string      `json:"msg,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
