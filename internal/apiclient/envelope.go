package apiclient

import "encoding/json"

// PageMeta is the backend's pagination block.
type PageMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type envelope struct {
	Data    json.RawMessage   `json:"data"`
	Meta    *PageMeta         `json:"meta,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}
