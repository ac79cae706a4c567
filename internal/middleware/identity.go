package middleware

// identity.go resolves the caller identity for keying purposes. JWTAuth
// stores the token's subject under "user_id" in the Echo context; the
// claim arrives as a string or a JSON number depending on how the token
// was issued, so both shapes are handled. Unauthenticated requests
// (the guest booking surface) resolve to "guest".

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID returns a stable identifier for the requester, used by
// the rate limiter to bucket authenticated staff per account rather
// than per source IP alone.
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return "guest"
}
