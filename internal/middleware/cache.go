package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/logging"
	"github.com/iliyamo/movie-catalog/internal/metrics"
	"github.com/iliyamo/movie-catalog/internal/service"
)

// captureWriter copies the response body, up to limit bytes, while
// forwarding it to the client.
type captureWriter struct {
	http.ResponseWriter
	status    int
	buf       bytes.Buffer
	size      int64
	limit     int64
	truncated bool
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit > 0 && cw.size+int64(len(b)) > cw.limit {
		cw.truncated = true
	}
	if !cw.truncated {
		cw.buf.Write(b)
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// cacheKeyFrom keys a read-tool call by tool name and its sorted query.
func cacheKeyFrom(prefix string, c echo.Context) string {
	tail := c.Param("name") + "?" + c.Request().URL.Query().Encode()
	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// encodePayload packs [4 bytes status][4 bytes headerLen][headerJSON][body].
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

// NewRedisCache caches successful GET responses of read-only tools.
// Only 200 responses are stored, so failure envelopes are never served
// from cache.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKeyFrom(cfg.Prefix, c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					metrics.CacheHits.Inc()
					for k, vals := range hdr {
						if strings.EqualFold(k, echo.HeaderContentLength) {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					_, _ = c.Response().Write(body)
					return nil
				}
			}
			metrics.CacheMisses.Inc()

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.truncated {
				return nil
			}
			hdr := c.Response().Header().Clone()
			hdr.Del("X-Cache")
			hdr.Del("X-RateLimit-Remaining")
			if payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes()); err == nil {
				if err := rdb.SetEx(context.WithoutCancel(ctx), key, payload, cfg.TTL).Err(); err != nil {
					logging.Warn().Err(err).Str("key", key).Msg("cache store failed")
				}
			}
			return nil
		}
	}
}

// CacheInvalidator drops every cached read-tool response after a
// mutation.  It implements service.MutationHook.
type CacheInvalidator struct {
	rdb    *redis.Client
	prefix string
}

// NewCacheInvalidator returns nil when caching is disabled.
func NewCacheInvalidator(cfg config.CacheConfig, rdb *redis.Client) *CacheInvalidator {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	return &CacheInvalidator{rdb: rdb, prefix: cfg.Prefix}
}

var _ service.MutationHook = (*CacheInvalidator)(nil)

// MovieChanged deletes all keys under the cache prefix.
func (ci *CacheInvalidator) MovieChanged(ctx context.Context, c service.Change) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	n, err := ci.flush(ctx)
	if err != nil {
		logging.Warn().Err(err).Str("action", c.Action).Msg("cache invalidation failed")
		return
	}
	metrics.CacheInvalidations.Inc()
	logging.Debug().Str("action", c.Action).Int("keys", n).Msg("cache invalidated")
}

func (ci *CacheInvalidator) flush(ctx context.Context) (int, error) {
	var cursor uint64
	deleted := 0
	for {
		keys, next, err := ci.rdb.Scan(ctx, cursor, ci.prefix+":*", 200).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			if err := ci.rdb.Del(ctx, keys...).Err(); err != nil {
				return deleted, err
			}
			deleted += len(keys)
		}
		if next == 0 {
			return deleted, nil
		}
		cursor = next
	}
}
