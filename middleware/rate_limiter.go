package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"urbanvest/utils"
)

// In-memory sliding-window rate limiting, keyed by client IP. Intentionally
// simple; swap for Redis when running more than one instance.

type timestamps []int64 // unix nanos

func nowUnix() int64 { return time.Now().UnixNano() }

// IPRateLimiter implements per-IP sliding-window counters with optional
// trusted-proxy parsing of X-Forwarded-For.
type IPRateLimiter struct {
	maxReq      int
	window      time.Duration
	mu          sync.Mutex
	state       map[string]timestamps
	trustedCIDR []string
}

func NewIPRateLimiter(maxReq int, window time.Duration) *IPRateLimiter {
	l := &IPRateLimiter{
		maxReq: maxReq,
		window: window,
		state:  make(map[string]timestamps),
	}
	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		l.trustedCIDR = strings.Split(v, ",")
	}
	go l.cleanupLoop()
	return l
}

// clientIP honors X-Forwarded-For / X-Real-IP only when the remote address
// falls inside one of the configured trusted CIDRs or IPs.
func clientIP(r *http.Request, trustedCIDR []string) string {
	remoteHost, _, _ := net.SplitHostPort(r.RemoteAddr)
	remoteIP := net.ParseIP(remoteHost)
	trusted := false
	for _, cidr := range trustedCIDR {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}
		if strings.Contains(cidr, "/") {
			if _, ipnet, err := net.ParseCIDR(cidr); err == nil {
				if remoteIP != nil && ipnet.Contains(remoteIP) {
					trusted = true
					break
				}
			}
			continue
		}
		if ip := net.ParseIP(cidr); ip != nil && remoteIP != nil && ip.Equal(remoteIP) {
			trusted = true
			break
		}
	}
	if trusted {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			if len(parts) > 0 {
				return strings.TrimSpace(parts[0])
			}
		}
		if xr := r.Header.Get("X-Real-IP"); xr != "" {
			return strings.TrimSpace(xr)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Allow records one request for ip and reports whether it is within the
// limit, plus the seconds to wait when it is not.
func (l *IPRateLimiter) Allow(ip string) (bool, int) {
	now := nowUnix()
	cutoff := now - int64(l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	var filtered timestamps
	for _, ts := range l.state[ip] {
		if ts >= cutoff {
			filtered = append(filtered, ts)
		}
	}
	filtered = append(filtered, now)
	l.state[ip] = filtered

	if len(filtered) <= l.maxReq {
		return true, 0
	}

	oldest := filtered[0]
	for _, ts := range filtered {
		if ts < oldest {
			oldest = ts
		}
	}
	retryAfter := int((oldest + int64(l.window) - now) / 1e9)
	if retryAfter < 1 {
		retryAfter = 1
	}
	return false, retryAfter
}

// Middleware applies per-IP limits and sets rate-limit headers.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r, l.trustedCIDR)
		ok, retryAfter := l.Allow(ip)

		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", l.maxReq))
		if !ok {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			utils.WriteJSON(w, http.StatusTooManyRequests, utils.APIResponse{
				Success: false,
				Message: "Too many requests, please try again later",
				Data:    map[string]interface{}{"retry_after_seconds": retryAfter},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *IPRateLimiter) cleanupLoop() {
	tick := time.NewTicker(time.Minute)
	defer tick.Stop()
	for range tick.C {
		l.mu.Lock()
		cutoff := nowUnix() - int64(l.window)
		for k, arr := range l.state {
			var filtered timestamps
			for _, ts := range arr {
				if ts >= cutoff {
					filtered = append(filtered, ts)
				}
			}
			if len(filtered) == 0 {
				delete(l.state, k)
			} else {
				l.state[k] = filtered
			}
		}
		l.mu.Unlock()
	}
}

// Failed-login lockout with progressive penalties. Redis-backed when
// configured, so lockouts hold across instances; in-memory otherwise.
var (
	loginMu   sync.Mutex
	failedMap = make(map[string]int)
	lockMap   = make(map[string]int64) // key -> lockUntil unix nanos
)

func lockoutDuration(failures int) time.Duration {
	switch {
	case failures <= 2:
		return 0
	case failures == 3:
		return time.Minute
	case failures == 4:
		return 5 * time.Minute
	case failures == 5:
		return 15 * time.Minute
	default:
		return 30 * time.Minute
	}
}

func IsAccountLocked(userID uint) (bool, time.Duration) {
	if utils.RedisClient != nil {
		lockKey := fmt.Sprintf("login:lock:u:%d", userID)
		ttl, err := utils.RedisClient.TTL(context.Background(), lockKey).Result()
		if err == nil && ttl > 0 {
			return true, ttl
		}
		return false, 0
	}
	loginMu.Lock()
	defer loginMu.Unlock()
	key := fmt.Sprintf("u:%d", userID)
	until := lockMap[key]
	if until == 0 {
		return false, 0
	}
	now := nowUnix()
	if until > now {
		return true, time.Duration(until - now)
	}
	delete(lockMap, key)
	failedMap[key] = 0
	return false, 0
}

func RecordFailedLogin(userID uint) {
	if utils.RedisClient != nil {
		ctx := context.Background()
		failKey := fmt.Sprintf("login:fail:u:%d", userID)
		lockKey := fmt.Sprintf("login:lock:u:%d", userID)
		failures, err := utils.RedisClient.Incr(ctx, failKey).Result()
		if err == nil {
			_ = utils.RedisClient.Expire(ctx, failKey, 30*time.Minute).Err()
			if d := lockoutDuration(int(failures)); d > 0 {
				_ = utils.RedisClient.Set(ctx, lockKey, "1", d).Err()
			}
			return
		}
		// Redis error: fall through to in-memory tracking
	}
	loginMu.Lock()
	defer loginMu.Unlock()
	key := fmt.Sprintf("u:%d", userID)
	failedMap[key]++
	if d := lockoutDuration(failedMap[key]); d > 0 {
		lockMap[key] = nowUnix() + int64(d)
	}
}

func ResetFailedLogin(userID uint) {
	if utils.RedisClient != nil {
		ctx := context.Background()
		_ = utils.RedisClient.Del(ctx,
			fmt.Sprintf("login:fail:u:%d", userID),
			fmt.Sprintf("login:lock:u:%d", userID)).Err()
		return
	}
	loginMu.Lock()
	defer loginMu.Unlock()
	key := fmt.Sprintf("u:%d", userID)
	delete(lockMap, key)
	failedMap[key] = 0
}
