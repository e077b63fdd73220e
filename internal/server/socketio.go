package server

import (
	"encoding/json"
	"fmt"

	"github.com/specialistvlad/ixdecode/internal/ctxlog"
	"github.com/zishang520/socket.io/v2/socket"
)

const (
	decodeEvent  = "decode"
	decodedEvent = "decoded"
)

// SocketResponse answers a socket.io decode event. Status uses the HTTP
// status codes of POST /decode.
type SocketResponse struct {
	Status int            `json:"status"`
	Result any            `json:"result,omitempty"`
	Error  *ErrorResponse `json:"error,omitempty"`
}

func (s *Server) newSocketServer() *socket.Server {
	io := socket.NewServer(nil, nil)
	io.On("connection", func(clients ...any) {
		client, ok := clients[0].(*socket.Socket)
		if !ok {
			return
		}
		logger := ctxlog.FromContext(s.ctx).With("sid", client.Id())
		logger.Debug("Socket.io client connected.")

		client.On(decodeEvent, func(args ...any) {
			resp, ack := s.handleSocketDecode(args...)
			if ack != nil {
				ack([]any{resp}, nil)
				return
			}
			client.Emit(decodedEvent, resp)
		})
		client.On("disconnect", func(reason ...any) {
			logger.Debug("Socket.io client disconnected.", "reason", reason)
		})
	})
	return io
}

// handleSocketDecode decodes the first argument of a decode event. A trailing
// acknowledgement callback is returned so the caller can answer through it.
func (s *Server) handleSocketDecode(args ...any) (*SocketResponse, socket.Ack) {
	var ack socket.Ack
	if n := len(args); n > 0 {
		if fn, ok := args[n-1].(socket.Ack); ok {
			ack = fn
			args = args[:n-1]
		}
	}
	logger := ctxlog.FromContext(s.ctx)

	if len(args) == 0 {
		return &SocketResponse{Status: 400, Error: NewErrorResponse(fmt.Errorf("%w: missing decode payload", ErrBadRequest))}, ack
	}
	req, err := socketRequest(args[0])
	if err != nil {
		return &SocketResponse{Status: 400, Error: NewErrorResponse(err)}, ack
	}

	res, err := s.service.Decode(s.ctx, req)
	if err != nil {
		status := StatusFor(err)
		logger.Info("Socket.io decode failed.", "status", status, "error", err)
		return &SocketResponse{Status: status, Error: NewErrorResponse(err)}, ack
	}
	logger.Info("Socket.io decode served.", "program", res.Program, "instruction", res.Instruction.Variant)
	return &SocketResponse{Status: 200, Result: res}, ack
}

// socketRequest accepts the payload as a decoded JSON object or a JSON string.
func socketRequest(payload any) (*Request, error) {
	var raw []byte
	switch p := payload.(type) {
	case string:
		raw = []byte(p)
	case []byte:
		raw = p
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("%w: unreadable payload: %w", ErrBadRequest, err)
		}
		raw = b
	}

	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON payload: %w", ErrBadRequest, err)
	}
	return &req, nil
}
