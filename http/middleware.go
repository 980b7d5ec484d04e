package http

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Middleware func(next Handler) Handler

// RecoverMiddleware turns a panicking handler into a fixed body so the
// connection still receives its 200 response.
func RecoverMiddleware(logger *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(req *Request) (body string) {
			defer func() {
				if recovered := recover(); recovered != nil {
					logger.ErrorContext(req.Context(), "route handler panicked",
						"path", req.Path,
						"panic", recovered,
					)

					body = "something went wrong"
				}
			}()

			return next(req)
		}
	}
}

func LogMiddleware(logger *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(req *Request) string {
			start := time.Now()
			body := next(req)

			logger.InfoContext(req.Context(), "route handled",
				"conn.id", req.ConnID,
				"path", req.Path,
				"body.size", len(body),
				"duration", time.Since(start),
			)

			return body
		}
	}
}

func TraceMiddleware(tracer trace.Tracer) Middleware {
	return func(next Handler) Handler {
		return func(req *Request) string {
			ctx, span := tracer.Start(req.Context(), "route "+req.Path)
			defer span.End()

			raw, hasQuery := req.Query.Raw()
			span.SetAttributes(
				attribute.String("url.path", req.Path),
				attribute.Bool("url.query.present", hasQuery),
				attribute.Int("url.query.size", len(raw)),
			)

			body := next(req.WithContext(ctx))
			span.SetStatus(codes.Ok, "")
			return body
		}
	}
}
