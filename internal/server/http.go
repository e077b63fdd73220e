package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/elnormous/contenttype"
	"github.com/google/uuid"
	"github.com/specialistvlad/ixdecode/internal/ctxlog"
	"github.com/zishang520/socket.io/v2/socket"
)

// RequestIDHeader carries the request id on requests and responses.
const RequestIDHeader = "X-Request-Id"

const maxBodyBytes = 1 << 20

var jsonMediaType = contenttype.NewMediaType("application/json")

// Server serves decode requests over HTTP and socket.io.
type Server struct {
	ctx     context.Context
	service *Service
	io      *socket.Server
	handler http.Handler
}

// New creates a server. ctx supplies the logger for connection-level events.
func New(ctx context.Context, service *Service) *Server {
	s := &Server{ctx: ctx, service: service}
	s.io = s.newSocketServer()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /decode", s.handleDecode)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("/socket.io/", s.io.ServeHandler(nil))
	s.handler = s.withRequestID(mux)
	return s
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Serve accepts connections on l until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	logger := ctxlog.FromContext(s.ctx)
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🚀 Decode server starting", "address", l.Addr().String())
		errCh <- srv.Serve(l)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("Shutting down decode server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Decode server shutdown failed", "error", err)
		return err
	}
	logger.Debug("Decode server shut down gracefully.")
	return nil
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, l)
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		logger := ctxlog.FromContext(s.ctx).With("request_id", id)
		logger.Debug("Request received.", "method", r.Method, "path", r.URL.Path, "remote_addr", r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctxlog.WithLogger(r.Context(), logger)))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctxlog.FromContext(r.Context()).Debug("Health check endpoint hit.")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.FromContext(ctx)

	ctype, err := contenttype.GetMediaType(r)
	if err != nil || !ctype.Matches(jsonMediaType) {
		writeJSON(ctx, w, http.StatusUnsupportedMediaType, &ErrorResponse{
			Msg:  "content type must be application/json",
			Kind: "UnsupportedMediaType",
		})
		return
	}

	var req Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(ctx, w, http.StatusBadRequest, NewErrorResponse(fmt.Errorf("%w: invalid JSON body: %w", ErrBadRequest, err)))
		return
	}

	res, err := s.service.Decode(ctx, &req)
	if err != nil {
		status := StatusFor(err)
		logger.Info("Decode request failed.", "status", status, "error", err)
		writeJSON(ctx, w, status, NewErrorResponse(err))
		return
	}

	logger.Info("Decode request served.", "program", res.Program, "instruction", res.Instruction.Variant)
	writeJSON(ctx, w, http.StatusOK, res)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	out, err := json.Marshal(body)
	if err != nil {
		ctxlog.FromContext(ctx).Error("Failed to encode response.", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(out)
	w.Write([]byte("\n"))
}
