package http

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/freekieb7/webroute/filesystem"
)

const instrumentationName = "github.com/freekieb7/webroute/http"

type Options struct {
	Name         string
	Workers      int
	StaticRoot   string
	Filesystem   filesystem.Filesystem
	MethodPolicy MethodPolicy
	PathPolicy   PathPolicy

	Logger         *slog.Logger
	MeterProvider  metric.MeterProvider
	TracerProvider trace.TracerProvider
}

// Server accepts connections and hands each one to a worker that reads one
// request line, writes at most one response and closes the connection.
type Server struct {
	Name         string
	Router       *Router
	Static       StaticResolver
	MethodPolicy MethodPolicy
	Logger       *slog.Logger

	tracer  trace.Tracer
	metrics serverMetrics
	pool    *WorkerPool

	mu       sync.Mutex
	listener net.Listener
	closed   atomic.Bool
}

func NewServer(router *Router, opts Options) (*Server, error) {
	if router == nil {
		router = NewRouter()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MeterProvider == nil {
		opts.MeterProvider = otel.GetMeterProvider()
	}
	if opts.TracerProvider == nil {
		opts.TracerProvider = otel.GetTracerProvider()
	}

	pool := NewWorkerPool(opts.Workers)

	metrics, err := newServerMetrics(opts.MeterProvider.Meter(instrumentationName), pool)
	if err != nil {
		return nil, fmt.Errorf("http: create instruments: %w", err)
	}

	return &Server{
		Name:         opts.Name,
		Router:       router,
		Static:       NewStaticResolver(opts.StaticRoot, opts.Filesystem, opts.PathPolicy),
		MethodPolicy: opts.MethodPolicy,
		Logger:       opts.Logger,

		tracer:  opts.TracerProvider.Tracer(instrumentationName),
		metrics: metrics,
		pool:    pool,
	}, nil
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("http: listen on %s: %w", addr, err)
	}

	return s.Serve(ctx, listener)
}

// Serve accepts connections from listener until Shutdown is called. It never
// waits on request work: accepted connections queue in the worker pool.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		listener.Close()
		return ErrServerClosed
	}
	s.listener = listener
	s.mu.Unlock()

	s.Router.Freeze()
	s.pool.Start()

	routes := s.Router.Routes()
	paths := make([]string, 0, len(routes))
	for _, route := range routes {
		paths = append(paths, route.Path)
	}

	s.Logger.Info("listening",
		"server", s.Name,
		"addr", listener.Addr().String(),
		"workers", s.pool.Size(),
		"routes", paths,
	)

	var delay time.Duration
	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.closed.Load() {
				return ErrServerClosed
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}

			if delay == 0 {
				delay = 5 * time.Millisecond
			} else if delay *= 2; delay > time.Second {
				delay = time.Second
			}
			s.Logger.Error("accepting connection failed", "error", err, "retry.in", delay)
			time.Sleep(delay)
			continue
		}
		delay = 0

		if err := s.pool.Submit(func() { s.ServeConn(ctx, conn) }); err != nil {
			conn.Close()
			return ErrServerClosed
		}
	}
}

// ServeConn owns conn until it is closed. Failures are logged and never
// reach other connections.
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) {
	start := time.Now()
	connID := uuid.NewString()

	logger := s.Logger.With("conn.id", connID)
	if addr := conn.RemoteAddr(); addr != nil {
		logger = logger.With("remote.addr", addr.String())
	}

	ctx, span := s.tracer.Start(ctx, "webroute.conn", trace.WithSpanKind(trace.SpanKindServer))

	var (
		method string
		result = outcomeError
	)

	defer func() {
		if recovered := recover(); recovered != nil {
			logger.ErrorContext(ctx, "connection handler panicked", "panic", recovered)
			span.SetStatus(codes.Error, fmt.Sprint(recovered))
			result = outcomeError
		}

		if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			logger.WarnContext(ctx, "closing connection failed", "error", err)
		}

		span.SetAttributes(attribute.String("webroute.outcome", string(result)))
		span.End()

		s.metrics.record(ctx, method, result, time.Since(start))
	}()

	br := bufio.NewReaderSize(conn, DefaultReadBufferSize)
	bw := bufio.NewWriterSize(conn, DefaultWriteBufferSize)

	line, err := readRequestLine(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			result = outcomeClosed
			return
		}
		if errors.Is(err, ErrMalformedRequestLine) {
			result = outcomeMalformed
			logger.WarnContext(ctx, "rejecting request", "error", err)
			span.RecordError(err)
			return
		}
		logger.ErrorContext(ctx, "reading request line failed", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "read request line")
		return
	}

	req, err := ParseRequestLine(line)
	if err != nil {
		result = outcomeMalformed
		logger.WarnContext(ctx, "rejecting request", "error", err)
		span.RecordError(err)
		return
	}
	req.ConnID = connID
	req.ctx = ctx
	method = req.Method

	span.SetAttributes(
		attribute.String("http.request.method", req.Method),
		attribute.String("url.path", req.Path),
	)

	result, err = s.dispatch(req, bw)
	if err != nil {
		logger.ErrorContext(ctx, "serving request failed",
			"method", req.Method,
			"path", req.Path,
			"error", err,
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "serve request")
		result = outcomeError
	}
}

func (s *Server) dispatch(req *Request, bw *bufio.Writer) (outcome, error) {
	switch req.Method {
	case MethodGet:
		if handler, found := s.Router.Lookup(req.Path); found {
			body := handler(req)
			return outcomeRoute, textResponse(body).WriteTo(bw)
		}

		res, err := s.Static.Resolve(req.Path)
		if err != nil {
			return outcomeError, err
		}
		return staticOutcome(res), res.WriteTo(bw)
	case MethodPost:
		// The body is never read.
		return s.unhandled(StatusNotImplemented, bw)
	default:
		return s.unhandled(StatusMethodNotAllowed, bw)
	}
}

func (s *Server) unhandled(status uint16, bw *bufio.Writer) (outcome, error) {
	if s.MethodPolicy == MethodPolicySilent {
		return outcomeUnhandled, nil
	}

	res := textResponse(StatusText(status)).WithStatus(status)
	if status == StatusMethodNotAllowed {
		res.SetHeader("Allow", MethodGet)
	}
	return outcomeUnhandled, res.WriteTo(bw)
}

// Addr returns the listener address once Serve has started.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops accepting connections and waits for queued ones to be
// served, or for ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closed.Store(true)

	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()

	var errs []error
	if listener != nil {
		if err := listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, err)
		}
	}
	if err := s.pool.Close(ctx); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
