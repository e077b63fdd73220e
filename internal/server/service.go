package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/specialistvlad/ixdecode/internal/catalog"
	"github.com/specialistvlad/ixdecode/internal/ctxlog"
	"github.com/specialistvlad/ixdecode/internal/datafmt"
	"github.com/specialistvlad/ixdecode/internal/decoder"
)

// ErrBadRequest marks requests that are malformed before decoding starts.
var ErrBadRequest = errors.New("bad request")

// Request is the decode payload shared by every transport.
type Request struct {
	Data string `json:"data"`
	// Encoding of Data: hex (default), base58 or base64.
	Encoding string `json:"encoding,omitempty"`
	// ProgramID is a base58 program id or a schema name. It may be omitted
	// when exactly one schema is loaded.
	ProgramID string   `json:"programId,omitempty"`
	Accounts  []string `json:"accounts,omitempty"`
	// StackHeight is accepted for compatibility and ignored.
	StackHeight *int `json:"stackHeight,omitempty"`
}

// ErrorResponse is the body of every failed decode.
type ErrorResponse struct {
	Msg    string `json:"msg"`
	Kind   string `json:"kind,omitempty"`
	Offset *int   `json:"offset,omitempty"`
	Path   string `json:"path,omitempty"`
}

// Service decodes requests against the current catalog.
type Service struct {
	catalogs *catalog.Holder
}

// NewService creates a service reading from h on every request.
func NewService(h *catalog.Holder) *Service {
	return &Service{catalogs: h}
}

// Decode resolves the program, decodes the data and labels the accounts.
func (s *Service) Decode(ctx context.Context, req *Request) (*decoder.Result, error) {
	logger := ctxlog.FromContext(ctx)

	enc, err := datafmt.ParseEncoding(req.Encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	data, err := datafmt.Decode(enc, req.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}

	accounts := make([]solana.PublicKey, len(req.Accounts))
	for i, a := range req.Accounts {
		key, err := solana.PublicKeyFromBase58(a)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid account %d %q: %w", ErrBadRequest, i, a, err)
		}
		accounts[i] = key
	}

	program, err := s.catalogs.Load().Resolve(req.ProgramID)
	if err != nil {
		return nil, err
	}
	logger.Debug("Decoding instruction.", "program", program.Name, "bytes", len(data), "accounts", len(accounts))
	return program.Decoder.DecodeInstruction(ctx, data, accounts)
}

// StatusFor maps a Decode error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, catalog.ErrUnknownProgram):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// NewErrorResponse describes err, adding the failure kind, offset and path
// for decode errors.
func NewErrorResponse(err error) *ErrorResponse {
	resp := &ErrorResponse{Msg: err.Error()}

	var de *decoder.DecodeError
	switch {
	case errors.As(err, &de):
		resp.Kind = de.Kind.String()
		offset := de.Offset
		resp.Offset = &offset
		resp.Path = de.Path.String()
	case errors.Is(err, catalog.ErrUnknownProgram):
		resp.Kind = "UnknownProgram"
	case errors.Is(err, ErrBadRequest):
		resp.Kind = "BadRequest"
	}
	return resp
}
