package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/ixdecode/internal/datafmt"
	"github.com/specialistvlad/ixdecode/internal/render"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	IDLPaths []string // .json Anchor IDLs and .hcl schemas, files or directories
	Builtin  bool     // register the programs compiled into the binary

	Encoding string // hex, base58 or base64
	Output   string // json or hcl
	Program  string // program id or schema name
	Accounts []string
	Data     []string

	Listen          string
	Watch           bool
	HealthcheckPort int

	LogFormat string
	LogLevel  string

	PrintIDLSchema bool
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.PrintIDLSchema {
		return &cfg, nil
	}
	if _, err := datafmt.ParseEncoding(cfg.Encoding); err != nil {
		return nil, err
	}
	if _, err := render.ParseFormat(cfg.Output); err != nil {
		return nil, err
	}
	if len(cfg.IDLPaths) == 0 && !cfg.Builtin {
		return nil, errors.New("no schemas to decode with: pass -idl or enable -builtin")
	}
	if cfg.Listen == "" && len(cfg.Data) == 0 {
		return nil, errors.New("nothing to decode: pass instruction data or -serve")
	}
	if cfg.Listen != "" && len(cfg.Data) > 0 {
		return nil, fmt.Errorf("instruction data arguments cannot be combined with -serve %s", cfg.Listen)
	}
	if cfg.Watch && (cfg.Listen == "" || len(cfg.IDLPaths) == 0) {
		return nil, errors.New("-watch requires -serve and at least one -idl path")
	}
	return &cfg, nil
}
