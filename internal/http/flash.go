package http

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gin-gonic/gin"
)

const flashCookieName = "kanban_flash"

// Flash messages cross the post-redirect-get boundary in a short-lived
// cookie rather than server-side state, so each request carries its own
// outgoing messages.

func addFlash(c *gin.Context, message string) {
	flashes := append(pendingFlashes(c), message)
	payload, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	c.SetCookie(flashCookieName, base64.RawURLEncoding.EncodeToString(payload), 300, "/", "", false, true)
}

// consumeFlashes returns the messages queued by the previous request and
// clears the cookie so they render exactly once.
func consumeFlashes(c *gin.Context) []string {
	flashes := pendingFlashes(c)
	if len(flashes) > 0 {
		c.SetCookie(flashCookieName, "", -1, "/", "", false, true)
	}
	return flashes
}

func pendingFlashes(c *gin.Context) []string {
	raw, err := c.Cookie(flashCookieName)
	if err != nil || raw == "" {
		return nil
	}
	payload, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var flashes []string
	if err := json.Unmarshal(payload, &flashes); err != nil {
		return nil
	}
	return flashes
}
