package idempotency

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/ledgerbook/internal/observability/logger"
	"github.com/smallbiznis/ledgerbook/pkg/apperr"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	HeaderKey  = "Idempotency-Key"
	keyPattern = "ledgerbook:idempotency:"
	defaultTTL = 24 * time.Hour
	maxKeyLen  = 128
)

var Module = fx.Module("idempotency",
	fx.Provide(NewGuard),
)

// Guard rejects a repeated Idempotency-Key while the first request holding it
// is in flight or has succeeded. Failed requests release the key so the
// client can retry.
type Guard struct {
	locker *Locker
	ttl    time.Duration
}

// NewGuard returns a disabled guard when redis is not configured.
func NewGuard(client *redis.Client) *Guard {
	return &Guard{locker: NewLocker(client), ttl: defaultTTL}
}

func (g *Guard) Enabled() bool {
	return g != nil && g.locker != nil
}

func (g *Guard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderKey))
		if raw == "" || !g.Enabled() {
			c.Next()
			return
		}
		if len(raw) > maxKeyLen {
			_ = c.Error(apperr.Invalid("idempotency_key", "must be at most 128 characters"))
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		key := keyPattern + c.Request.Method + ":" + c.FullPath() + ":" + raw
		token, ok, err := g.locker.TryLock(ctx, key, g.ttl)
		if err != nil {
			// redis being down must not block writes
			logger.FromContext(ctx).Warn("idempotency lock unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			_ = c.Error(apperr.Conflict("idempotency_key", "a request with this key was already processed"))
			c.Abort()
			return
		}

		c.Next()

		// errors recorded on the context are rendered by an outer middleware,
		// so the status may not be written yet
		if c.Writer.Status() >= http.StatusBadRequest || len(c.Errors) > 0 {
			if err := g.locker.Release(ctx, key, token); err != nil {
				logger.FromContext(ctx).Warn("idempotency release failed", zap.Error(err))
			}
		}
	}
}
