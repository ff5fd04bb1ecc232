package middlewares

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Token bucket per key. Keys are principal ids when identity has been
// resolved, client IPs otherwise.
type rateBucket struct {
	tokens     float64
	lastRefill time.Time
}

const bucketIdleEviction = 10 * time.Minute

// RateLimitMiddleware refills limitPerMinute tokens per minute per key and
// rejects with 429 once a bucket runs dry.
func RateLimitMiddleware(limitPerMinute float64) gin.HandlerFunc {
	var (
		mu        sync.Mutex
		buckets   = make(map[string]*rateBucket)
		perSecond = limitPerMinute / 60.0
		lastSweep = time.Now()
	)

	return func(c *gin.Context) {
		key := rateKey(c)
		now := time.Now()

		mu.Lock()
		if now.Sub(lastSweep) > bucketIdleEviction {
			for k, b := range buckets {
				if now.Sub(b.lastRefill) > bucketIdleEviction {
					delete(buckets, k)
				}
			}
			lastSweep = now
		}

		bucket, ok := buckets[key]
		if !ok {
			bucket = &rateBucket{tokens: limitPerMinute, lastRefill: now}
			buckets[key] = bucket
		}

		elapsed := now.Sub(bucket.lastRefill).Seconds()
		bucket.tokens = math.Min(limitPerMinute, bucket.tokens+elapsed*perSecond)
		bucket.lastRefill = now

		if bucket.tokens < 1 {
			waitSeconds := int(math.Ceil((1 - bucket.tokens) / perSecond))
			mu.Unlock()
			c.Header("Retry-After", strconv.Itoa(waitSeconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limited",
				"message": "Too many requests",
			})
			return
		}
		bucket.tokens--
		mu.Unlock()

		c.Next()
	}
}

func rateKey(c *gin.Context) string {
	if principal, ok := PrincipalFromContext(c); ok && principal.ID != "" {
		return "pid:" + principal.ID
	}
	if ip := clientIP(c.ClientIP()); ip != "" {
		return "ip:" + ip
	}
	return "anonymous"
}

// Normalize IPv6-mapped IPv4 etc.
func clientIP(raw string) string {
	if raw == "" {
		return ""
	}
	if ip := net.ParseIP(raw); ip != nil {
		return ip.String()
	}
	return raw
}
