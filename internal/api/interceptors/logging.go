package interceptors

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Logging writes one debug line per backend call. The Authorization header is never logged.
func Logging(logger *zap.Logger) Middleware {
	if logger == nil {
		return nil
	}
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("request_id", r.Header.Get(RequestIDHeader)),
				zap.Duration("duration", time.Since(start)),
			}
			if err != nil {
				logger.Debug("api request failed", append(fields, zap.Error(err))...)
				return resp, err
			}
			logger.Debug("api request", append(fields, zap.Int("status", resp.StatusCode))...)
			return resp, nil
		})
	}
}
