package payment

import (
	"encoding/json"
	"strings"
)

const (
	StatusSuccess = "success"
	refPrefix     = "pro_"
)

type (
	InitRequest struct {
		Email       string
		Amount      string // smallest currency unit
		Reference   string
		CallbackURL string
		Metadata    map[string]string
	}

	InitResult struct {
		AuthorizationURL string `json:"authorization_url"`
		Reference        string `json:"reference"`
	}

	// Transaction is the part of a verified gateway transaction we act on.
	Transaction struct {
		Reference string
		Status    string
		Metadata  json.RawMessage // an object, or a string holding one
	}
)

// GatewayError is a rejection reported by the gateway itself.
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	if e.Message == "" {
		return "payment gateway rejected the request"
	}
	return e.Message
}

// UserIDFromMetadata reads `user_id` from transaction metadata, which may be JSON-encoded twice.
func UserIDFromMetadata(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return ""
		}
		raw = json.RawMessage(s)
	}

	var meta map[string]interface{}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return ""
	}
	id, _ := meta["user_id"].(string)
	return strings.TrimSpace(id)
}
