package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Context keys used to store authentication metadata.
const (
	ContextKeyOwnerID    = "owner_id"
	ContextKeyOwnerEmail = "owner_email"
	ContextKeyRole       = "role"
	ContextKeyRequestID  = "request_id"
)

// OwnerFromContext returns the authenticated owner stored by Auth.
func OwnerFromContext(c echo.Context) (uuid.UUID, string, bool) {
	id, ok := c.Get(ContextKeyOwnerID).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, "", false
	}
	email, _ := c.Get(ContextKeyOwnerEmail).(string)
	return id, email, true
}
