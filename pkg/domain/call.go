package domain

import (
	"strings"
	"time"
)

// Method is the HTTP verb of a recorded call.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodPatch  Method = "PATCH"
	MethodDelete Method = "DELETE"
)

// Valid reports whether the method belongs to the supported verb set.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete:
		return true
	}
	return false
}

// Response is the successful outcome of a call: HTTP status plus decoded body.
type Response struct {
	Status int `json:"status"`
	Data   any `json:"data,omitempty"`
}

// identifierKeys are response fields treated as freshly issued identifiers,
// checked in order so the strongest signal wins.
var identifierKeys = []string{"uuid", "id", "rowid"}

// Identifier returns the first id-like field found in the response data.
// It only inspects the top level of an object body; nested identifiers
// belong to nested resources and are not "issued by" this call.
func (r *Response) Identifier() (field string, value any, ok bool) {
	if r == nil {
		return "", nil, false
	}
	data, isMap := r.Data.(map[string]any)
	if !isMap {
		return "", nil, false
	}
	for _, key := range identifierKeys {
		if v, exists := data[key]; exists && v != nil && v != "" {
			return key, v, true
		}
	}
	for key, v := range data {
		if strings.HasSuffix(strings.ToLower(key), "_id") && v != nil && v != "" {
			return key, v, true
		}
	}
	return "", nil, false
}

// CallMetadata carries free-form annotations attached at record time.
type CallMetadata struct {
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Call is one attempted API invocation inside a Recording.
// A Call is immutable once recorded. Failed calls keep their Error and no
// Response so they stay visible to analysis.
type Call struct {
	ID        int            `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Method    Method         `json:"method"`
	Path      string         `json:"path"`
	Params    map[string]any `json:"params,omitempty"`
	Payload   any            `json:"payload,omitempty"`
	Response  *Response      `json:"response,omitempty"`
	Error     string         `json:"error,omitempty"`
	Duration  time.Duration  `json:"duration,omitempty"`
	Metadata  CallMetadata   `json:"metadata,omitempty"`
}

// Key identifies a call for comparison purposes (method + path).
func (c Call) Key() string {
	return string(c.Method) + " " + c.Path
}

// Failed reports whether the call ended in an error.
func (c Call) Failed() bool {
	return c.Error != ""
}
