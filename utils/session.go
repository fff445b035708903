package utils

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionIdKey = "session_id"

// SessionID returns the opaque per-connection session identifier from the
// cookie session, minting one on first contact.
func SessionID(c *gin.Context) string {
	session := sessions.Default(c)
	if id, ok := session.Get(sessionIdKey).(string); ok && id != "" {
		return id
	}
	id := uuid.NewString()
	session.Set(sessionIdKey, id)
	_ = session.Save()
	return id
}
