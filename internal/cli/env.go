package cli

import (
	"errors"
	"fmt"

	"github.com/joeshaw/envdecode"
)

// Env holds the defaults read from the environment. Flags override them.
type Env struct {
	// IDL is a comma separated list of schema files or directories.
	IDL             string `env:"IXDECODE_IDL"`
	LogLevel        string `env:"IXDECODE_LOG_LEVEL,default=info"`
	LogFormat       string `env:"IXDECODE_LOG_FORMAT,default=text"`
	Listen          string `env:"IXDECODE_LISTEN"`
	HealthcheckPort int    `env:"IXDECODE_HEALTHCHECK_PORT,default=0"`
}

// LoadEnv reads Env from the process environment.
func LoadEnv() (*Env, error) {
	env := Env{LogLevel: "info", LogFormat: "text"}
	if err := envdecode.Decode(&env); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	return &env, nil
}
