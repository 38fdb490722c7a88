package middleware

import (
	"net"
	"strings"

	"github.com/labstack/echo/v4"
)

// IPExtractor resolves the caller address from X-Forwarded-For, skipping only hops that belong to
// trusted proxies (loopback, link-local and private ranges are trusted by default).
func IPExtractor(trustedProxies []*net.IPNet) echo.IPExtractor {
	opts := make([]echo.TrustOption, 0, len(trustedProxies))
	for _, ipNet := range trustedProxies {
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// ClientIP returns the first X-Forwarded-For hop, falling back to echo's RealIP.
// The value is caller supplied; use c.RealIP() for anything security relevant.
func ClientIP(c echo.Context) string {
	if xff := c.Request().Header.Get(echo.HeaderXForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	return c.RealIP()
}
