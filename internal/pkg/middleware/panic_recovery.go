package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/piresc/kirimjek/internal/pkg/logger"
	"github.com/piresc/kirimjek/internal/utils"
)

// PanicRecoveryWithZapMiddleware recovers panics in handlers, logs them with
// the stack and reports them to New Relic
func PanicRecoveryWithZapMiddleware(zapLogger *logger.ZapLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				panicMsg := fmt.Sprintf("Panic recovered: %v", r)
				requestID := c.Response().Header().Get(echo.HeaderXRequestID)
				if requestID == "" {
					requestID = c.Request().Header.Get(echo.HeaderXRequestID)
				}

				txn := newrelic.FromContext(c.Request().Context())
				if txn != nil {
					txn.NoticeError(newrelic.Error{Message: panicMsg, Class: "PanicError"})
					txn.AddAttribute("panic.recovered", true)
				}

				zapLogger.WithNewRelicContext(txn).Error("Panic recovered during request processing",
					logger.Any("panic_value", r),
					logger.String("panic_type", fmt.Sprintf("%T", r)),
					logger.String("stack_trace", string(debug.Stack())),
					logger.String("method", c.Request().Method),
					logger.String("path", c.Request().URL.Path),
					logger.String("request_id", requestID),
				)

				if !c.Response().Committed {
					err = utils.InternalServerErrorResponse(c, "An unexpected error occurred while processing your request")
				}
			}()

			return next(c)
		}
	}
}
