package types

import "errors"

// Config holds backend selection and engine parameters.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Driver selects the SQLite driver: "sqlite" (pure Go, default) or
	// "sqlite3" (cgo).
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty"`

	// DSN is the PostgreSQL connection string.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`

	// UniqueIndex selects how the (scope, position) uniqueness constraint
	// is created: "none", "eager" (default) or "deferred" (PostgreSQL only).
	UniqueIndex string `json:"unique_index,omitempty" yaml:"unique_index,omitempty"`

	// Uniqueness tells the engine how the store enforces uniqueness:
	// "auto" (ask the store, default), "eager" or "deferred".
	Uniqueness string `json:"uniqueness,omitempty" yaml:"uniqueness,omitempty"`

	// Strict rejects out-of-range positions with ErrInvalidPosition
	// instead of clamping them.
	Strict bool `json:"strict,omitempty" yaml:"strict,omitempty"`

	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
}

// Supported backend names.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// SQLite driver names.
const (
	DriverModernc = "sqlite"
	DriverMattn   = "sqlite3"
)

// Unique index modes.
const (
	UniqueIndexNone     = "none"
	UniqueIndexEager    = "eager"
	UniqueIndexDeferred = "deferred"
)

// Uniqueness enforcement modes as seen by the engine.
const (
	UniquenessAuto     = "auto"
	UniquenessEager    = "eager"
	UniquenessDeferred = "deferred"
)

// Config validation errors.
var (
	ErrBackendEmpty        = errors.New("backend must not be empty")
	ErrBackendUnknown      = errors.New("unknown backend")
	ErrDriverUnknown       = errors.New("unknown sqlite driver")
	ErrDSNEmpty            = errors.New("postgres backend requires a dsn")
	ErrUniqueIndexUnknown  = errors.New("unknown unique index mode")
	ErrUniquenessUnknown   = errors.New("unknown uniqueness mode")
	ErrDeferredIndexSQLite = errors.New("sqlite does not support deferred unique indexes")
)

var knownBackends = map[string]bool{
	BackendSQLite:   true,
	BackendPostgres: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	switch c.Driver {
	case "", DriverModernc, DriverMattn:
	default:
		return ErrDriverUnknown
	}
	switch c.UniqueIndex {
	case "", UniqueIndexNone, UniqueIndexEager:
	case UniqueIndexDeferred:
		if c.Backend == BackendSQLite {
			return ErrDeferredIndexSQLite
		}
	default:
		return ErrUniqueIndexUnknown
	}
	switch c.Uniqueness {
	case "", UniquenessAuto, UniquenessEager, UniquenessDeferred:
	default:
		return ErrUniquenessUnknown
	}
	if c.Backend == BackendPostgres && c.DSN == "" {
		return ErrDSNEmpty
	}
	return nil
}

// GetDriver returns the SQLite driver name, defaulting to the pure Go driver.
func (c Config) GetDriver() string {
	if c.Driver == "" {
		return DriverModernc
	}
	return c.Driver
}

// GetUniqueIndex returns the unique index mode, defaulting to eager.
func (c Config) GetUniqueIndex() string {
	if c.UniqueIndex == "" {
		return UniqueIndexEager
	}
	return c.UniqueIndex
}

// GetUniqueness returns the engine uniqueness mode, defaulting to auto.
func (c Config) GetUniqueness() string {
	if c.Uniqueness == "" {
		return UniquenessAuto
	}
	return c.Uniqueness
}
