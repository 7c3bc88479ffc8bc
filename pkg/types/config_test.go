package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "mysql", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:   "valid sqlite config",
			config: Config{Backend: BackendSQLite, DataDir: "/tmp/data"},
		},
		{
			name:   "sqlite with cgo driver",
			config: Config{Backend: BackendSQLite, Driver: DriverMattn},
		},
		{
			name:    "unknown driver rejected",
			config:  Config{Backend: BackendSQLite, Driver: "sqlite4"},
			wantErr: ErrDriverUnknown,
		},
		{
			name:    "sqlite cannot defer uniqueness",
			config:  Config{Backend: BackendSQLite, UniqueIndex: UniqueIndexDeferred},
			wantErr: ErrDeferredIndexSQLite,
		},
		{
			name:   "postgres deferred index",
			config: Config{Backend: BackendPostgres, DSN: "postgres://localhost/ranks", UniqueIndex: UniqueIndexDeferred},
		},
		{
			name:    "postgres without dsn",
			config:  Config{Backend: BackendPostgres},
			wantErr: ErrDSNEmpty,
		},
		{
			name:    "unknown unique index mode",
			config:  Config{Backend: BackendSQLite, UniqueIndex: "lazy"},
			wantErr: ErrUniqueIndexUnknown,
		},
		{
			name:    "unknown uniqueness mode",
			config:  Config{Backend: BackendSQLite, Uniqueness: "sometimes"},
			wantErr: ErrUniquenessUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	var c Config
	assert.Equal(t, DriverModernc, c.GetDriver())
	assert.Equal(t, UniqueIndexEager, c.GetUniqueIndex())
	assert.Equal(t, UniquenessAuto, c.GetUniqueness())
}

func TestScopeKey(t *testing.T) {
	a, b := "a", "a"
	assert.Equal(t, ScopeOf(&a), ScopeOf(&b))
	assert.Equal(t, NullScope, ScopeOf(nil))
	assert.NotEqual(t, ScopeOf(nil), ScopeOf(&a))

	empty := ""
	assert.NotEqual(t, ScopeOf(nil), ScopeOf(&empty), "empty parent id is not null")
	assert.Nil(t, NullScope.Ptr())
	assert.Equal(t, "a", *ScopeOf(&a).Ptr())
}

func TestLookupList(t *testing.T) {
	l, err := LookupList(ItemsTable)
	assert.NoError(t, err)
	assert.True(t, l.Scoped())
	assert.Equal(t, SectionsTable, l.Parent.Table)

	_, err = LookupList("widgets")
	assert.ErrorIs(t, err, ErrTableNotFound)
}
