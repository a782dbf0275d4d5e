package http

import (
	"context"
	"encoding/json"
	"net"
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

const (
	rateLimitMessage   = "Too many requests"
	sentryFlushTimeout = 2 * time.Second
)

// Resources reported in access logs and Sentry tags.
const (
	resourcePlatforms = "platforms"
	resourceGames     = "games"
	resourcePages     = "pages"
	resourceHealth    = "health"
	resourceStatic    = "static"
	resourceDocs      = "docs"
)

// accessRecord collects what the access log reports about one request.
// The static fallback writes past Huma, so it records its own status here.
type accessRecord struct {
	resource string
	status   int
}

func (s *Server) sentryMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if s.sentry == nil {
			next(ctx)
			return
		}

		hub := s.sentry.Clone()
		scope := hub.Scope()
		scope.SetTag("http.method", ctx.Method())
		scope.SetTag("catalog.store", s.storeName)
		if op := ctx.Operation(); op != nil {
			scope.SetTag("http.route", op.Path)
			scope.SetTag("catalog.resource", resourceForRoute(op.Path))
		}
		if slug := ctx.Param("slug"); slug != "" {
			scope.SetTag("catalog.slug", slug)
		}

		ctx = huma.WithContext(ctx, sentry.SetHubOnContext(ctx.Context(), hub))
		defer hub.Flush(sentryFlushTimeout)

		next(ctx)
	}
}

func (s *Server) recoveryMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			err, ok := rec.(error)
			if !ok {
				err = eris.Errorf("panic: %v", rec)
			}
			s.logError(ctx.Context(), err, "panic recovered", s.requestFields(ctx))

			hub := sentry.GetHubFromContext(ctx.Context())
			if hub == nil {
				hub = s.sentry
			}
			if hub != nil {
				hub.RecoverWithContext(ctx.Context(), rec)
			}

			writeJSONError(ctx, stdhttp.StatusInternalServerError, messageInternalError)
		}()

		next(ctx)
	}
}

// requestIDMiddleware keeps a caller-supplied X-Request-ID when it is a UUID
// and mints a fresh one otherwise.
func (s *Server) requestIDMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		reqID := uuid.NewString()
		if incoming, err := uuid.Parse(strings.TrimSpace(ctx.Header("X-Request-ID"))); err == nil {
			reqID = incoming.String()
		}

		goCtx := context.WithValue(ctx.Context(), requestIDContextKey, reqID)
		ctx = huma.WithContext(ctx, goCtx)
		ctx.SetHeader("X-Request-ID", reqID)

		if hub := sentry.GetHubFromContext(goCtx); hub != nil {
			hub.Scope().SetTag("request_id", reqID)
		}

		next(ctx)
	}
}

func (s *Server) rateLimitMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		req, _ := humago.Unwrap(ctx)
		if s.rateLimiter == nil || req == nil {
			next(ctx)
			return
		}

		ip := clientIPFromRequest(req)
		if s.rateLimiter.Allow(ip) {
			next(ctx)
			return
		}

		if s.logger != nil {
			s.logger.WithFields(s.requestFields(ctx)).WithField("ip", ip).Warn("request rate limited")
		}

		ctx.SetHeader("Retry-After", "1")
		writeJSONError(ctx, stdhttp.StatusTooManyRequests, rateLimitMessage)
	}
}

func (s *Server) accessLogMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if s.logger == nil {
			next(ctx)
			return
		}

		record := &accessRecord{}
		if op := ctx.Operation(); op != nil {
			record.resource = resourceForRoute(op.Path)
		}
		ctx = huma.WithContext(ctx, context.WithValue(ctx.Context(), accessRecordContextKey, record))

		start := time.Now()
		next(ctx)

		status := record.status
		if status == 0 {
			status = ctx.Status()
		}
		if status == 0 {
			status = stdhttp.StatusOK
		}

		fields := s.requestFields(ctx)
		fields["resource"] = record.resource
		fields["status"] = status
		fields["duration_ms"] = float64(time.Since(start).Microseconds()) / 1000
		fields["remote_addr"] = ctx.RemoteAddr()

		// 5xx causes are already reported at error level by the handler.
		entry := s.logger.WithFields(fields)
		if status >= 500 {
			entry.Warn("request failed")
			return
		}
		entry.Info("request completed")
	}
}

// staticFallbackMiddleware serves files from the public directory for GET paths
// that only matched the catch-all home route.
func (s *Server) staticFallbackMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		op := ctx.Operation()
		if op == nil || op.Path != "/" {
			next(ctx)
			return
		}

		req, w := humago.Unwrap(ctx)
		if req == nil || req.URL.Path == "/" {
			next(ctx)
			return
		}

		recorder := &statusRecorder{ResponseWriter: w}
		s.assets.ServeHTTP(recorder, req)

		if record, ok := ctx.Context().Value(accessRecordContextKey).(*accessRecord); ok {
			record.resource = resourceStatic
			record.status = recorder.statusCode()
		}
	}
}

// requestFields are the log fields shared by every middleware that reports on a request.
func (s *Server) requestFields(ctx huma.Context) logrus.Fields {
	fields := logrus.Fields{
		"method": ctx.Method(),
		"path":   ctx.URL().Path,
	}
	if s.storeName != "" {
		fields["store"] = s.storeName
	}
	if op := ctx.Operation(); op != nil {
		fields["route"] = op.Path
	}
	if slug := ctx.Param("slug"); slug != "" {
		fields["slug"] = slug
	}
	if requestID := RequestIDFromContext(ctx.Context()); requestID != "" {
		fields["request_id"] = requestID
	}
	return fields
}

func resourceForRoute(route string) string {
	switch {
	case route == "/" || route == "/platforms":
		return resourcePages
	case route == "/healthz":
		return resourceHealth
	case strings.HasPrefix(route, "/platforms/"):
		return resourcePlatforms
	case strings.HasPrefix(route, "/games"):
		return resourceGames
	default:
		return resourceDocs
	}
}

type statusRecorder struct {
	stdhttp.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = stdhttp.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) statusCode() int {
	if r.status == 0 {
		return stdhttp.StatusOK
	}
	return r.status
}

func writeJSONError(ctx huma.Context, status int, message string) {
	body, err := json.Marshal(errorBody{Error: message})
	if err != nil {
		body = []byte(`{"error":"Internal server error"}`)
	}

	ctx.SetHeader("Content-Type", jsonContentType)
	ctx.SetStatus(status)
	_, _ = ctx.BodyWriter().Write(body)
}

func clientIPFromRequest(req *stdhttp.Request) string {
	if req == nil {
		return ""
	}

	if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if candidate := strings.TrimSpace(first); candidate != "" {
			return candidate
		}
	}

	if realIP := strings.TrimSpace(req.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(req.RemoteAddr)
	}
	return host
}
