package util

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS allows the configured WebApp origin. "*" means any origin.
func CORS(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed := origin
		if allowed == "" {
			allowed = "*"
		}
		c.Header("Access-Control-Allow-Origin", allowed)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// CleanToken strips whitespace and stray quote/padding characters that
// Telegram WebView clients occasionally wrap around the session token.
func CleanToken(t string) string {
	t = strings.TrimSpace(t)
	t = strings.Trim(t, `"`)
	t = strings.Trim(t, "=")
	return t
}

// NormalizePhone keeps digits and a single leading '+'. Empty or
// punctuation-only input collapses to nil.
func NormalizePhone(p string) *string {
	s := strings.TrimSpace(p)
	if s == "" {
		return nil
	}
	var b strings.Builder
	for i, r := range s {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	norm := b.String()
	if norm == "" || norm == "+" {
		return nil
	}
	return &norm
}

// TrimToNil trims a string and returns nil when nothing remains.
func TrimToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// ToBool coerces the loose truthy values the legacy clients send
// (true/1/"yes"); unknown values are treated as true.
func ToBool(v interface{}) bool {
	switch x := v.(type) {
	case bool:
		return x
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "yes", "y", "1":
			return true
		case "false", "no", "n", "0", "":
			return false
		}
		return true
	case nil:
		return false
	}
	return true
}
