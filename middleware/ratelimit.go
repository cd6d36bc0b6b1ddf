package middleware

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	ginmiddleware "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimit returns a per-client-IP rate limiting middleware. The rate uses
// limiter's formatted notation, e.g. "10-M" for 10 requests per minute.
// Intended for the auth endpoints, which are the only unauthenticated
// mutation surface.
func RateLimit(rateStr string) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(rateStr)
	if err != nil {
		log.Printf("Invalid rate %q, rate limiting disabled: %v", rateStr, err)
		return func(c *gin.Context) {
			c.Next()
		}
	}

	store := memory.NewStore()
	return ginmiddleware.NewMiddleware(limiter.New(store, rate))
}
