package middleware

import (
	"log"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jobtrackr/backend/internal/web"
)

// RateLimit caps requests per client IP to limit hits per window using a
// fixed window counter in Redis. A Redis failure lets the request through.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			if host, _, err := net.SplitHostPort(ip); err == nil {
				ip = host
			}
			key := "ratelimit:" + ip

			count, err := rdb.Incr(r.Context(), key).Result()
			if err != nil {
				log.Printf("ratelimit: redis incr: %v", err)
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				rdb.Expire(r.Context(), key, window)
			}
			if count > int64(limit) {
				web.Fail(w, http.StatusTooManyRequests, "Too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
