package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/binary"
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/invoice-dashboard/internal/config"
    "github.com/iliyamo/invoice-dashboard/internal/logging"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
    http.ResponseWriter
    status int
    buf    bytes.Buffer
    size   int64
    limit  int64
}

func (cw *captureWriter) WriteHeader(code int) { cw.status = code; cw.ResponseWriter.WriteHeader(code) }
func (cw *captureWriter) Write(b []byte) (int, error) {
    if cw.limit <= 0 || cw.size < cw.limit {
        remain := cw.limit - cw.size
        if cw.limit <= 0 {
            cw.buf.Write(b)
        } else if remain > 0 {
            if int64(len(b)) <= remain {
                cw.buf.Write(b)
            } else {
                cw.buf.Write(b[:remain])
            }
        }
    }
    cw.size += int64(len(b))
    return cw.ResponseWriter.Write(b)
}

// ViewCache stores rendered GET responses in Redis grouped by view name.
// Every key of a view shares the prefix "<prefix>:<view>:" so Invalidate
// can drop the whole view at once.  Keys also carry the view's generation,
// read before the handler runs; Invalidate bumps it first, so a response
// rendered from data older than the invalidation lands under a generation
// nobody reads again.  A nil Redis client or a disabled config turns both
// caching and invalidation into no-ops.
type ViewCache struct {
    cfg config.CacheConfig
    rdb *redis.Client
}

func NewViewCache(cfg config.CacheConfig, rdb *redis.Client) *ViewCache {
    if cfg.TTL <= 0 {
        cfg.TTL = 30 * time.Second
    }
    return &ViewCache{cfg: cfg, rdb: rdb}
}

func (v *ViewCache) enabled() bool { return v != nil && v.cfg.Enabled && v.rdb != nil }

func (v *ViewCache) viewPrefix(view string) string {
    return fmt.Sprintf("%s:%s:", v.cfg.Prefix, view)
}

// genKey sits outside viewPrefix(view) so the SCAN in Invalidate never
// deletes it.
func (v *ViewCache) genKey(view string) string {
    return fmt.Sprintf("%s:%s.gen", v.cfg.Prefix, view)
}

func (v *ViewCache) generation(ctx context.Context, view string) (int64, error) {
    gen, err := v.rdb.Get(ctx, v.genKey(view)).Int64()
    if errors.Is(err, redis.Nil) {
        return 0, nil
    }
    return gen, err
}

// key hashes route and query so any query string maps to a bounded key.
func (v *ViewCache) key(view string, gen int64, c echo.Context) string {
    tail := strings.Join([]string{"route", c.Path(), "q", c.Request().URL.RawQuery}, ":")
    sum := sha1.Sum([]byte(tail))
    return fmt.Sprintf("%s%d:%x", v.viewPrefix(view), gen, sum[:])
}

// Invalidate retires the current generation of view and deletes every
// response cached under it.
func (v *ViewCache) Invalidate(ctx context.Context, view string) error {
    if !v.enabled() {
        return nil
    }
    if err := v.rdb.Incr(ctx, v.genKey(view)).Err(); err != nil {
        return fmt.Errorf("bump %s: %w", view, err)
    }
    iter := v.rdb.Scan(ctx, 0, v.viewPrefix(view)+"*", 100).Iterator()
    var keys []string
    for iter.Next(ctx) {
        keys = append(keys, iter.Val())
    }
    if err := iter.Err(); err != nil {
        return fmt.Errorf("scan %s: %w", view, err)
    }
    if len(keys) == 0 {
        return nil
    }
    if err := v.rdb.Del(ctx, keys...).Err(); err != nil {
        return fmt.Errorf("del %s: %w", view, err)
    }
    return nil
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
    hdrJSON, err := json.Marshal(header)
    if err != nil {
        return nil, err
    }
    out := make([]byte, 8+len(hdrJSON)+len(body))
    binary.BigEndian.PutUint32(out[0:4], uint32(status))
    binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
    copy(out[8:8+len(hdrJSON)], hdrJSON)
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
    hdr := make(http.Header)
    if hlen > 0 {
        if err := json.Unmarshal(bs[8:8+hlen], &hdr); err != nil {
            return 0, nil, nil, false
        }
    }
    return status, hdr, bs[8+hlen:], true
}

// skipReplay reports headers that belong to the live request rather than
// the stored response.
func skipReplay(name string) bool {
    return strings.EqualFold(name, echo.HeaderContentLength) ||
        strings.EqualFold(name, echo.HeaderXRequestID)
}

// Middleware caches 200 responses of the wrapped route under view.
func (v *ViewCache) Middleware(view string) echo.MiddlewareFunc {
    if !v.enabled() {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    maxBody := int64(v.cfg.MaxBodyBytes)

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !v.cfg.Methods[strings.ToUpper(c.Request().Method)] {
                return next(c)
            }

            ctx := c.Request().Context()
            gen, err := v.generation(ctx, view)
            if err != nil {
                return next(c)
            }
            key := v.key(view, gen, c)

            if bs, err := v.rdb.Get(ctx, key).Bytes(); err == nil {
                if status, hdr, body, ok := decodePayload(bs); ok {
                    for k, vals := range hdr {
                        if skipReplay(k) {
                            continue
                        }
                        for _, val := range vals {
                            c.Response().Header().Add(k, val)
                        }
                    }
                    c.Response().Header().Set("X-Cache", "HIT")
                    c.Response().WriteHeader(status)
                    if len(body) > 0 {
                        _, _ = c.Response().Write(body)
                    }
                    return nil
                }
            }

            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }
            // truncated bodies are never stored
            if cw.status != http.StatusOK || (maxBody > 0 && cw.size > maxBody) {
                return nil
            }
            // invalidated while rendering: the body may predate the write
            if now, err := v.generation(context.Background(), view); err != nil || now != gen {
                return nil
            }
            hdr := c.Response().Header().Clone()
            hdr.Del("X-Cache")
            hdr.Del(echo.HeaderXRequestID)
            payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes())
            if err != nil {
                return nil
            }
            if err := v.rdb.SetEx(context.Background(), key, payload, v.cfg.TTL).Err(); err != nil {
                log := logging.With("view-cache")
                log.Warn().Err(err).Str("view", view).Msg("cache store failed")
            }
            return nil
        }
    }
}
