package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	tests := []struct {
		name string
		in   string
		user string
		pass string
		want string
	}{
		{
			name: "empty",
			in:   "  ",
			want: "",
		},
		{
			name: "native dsn kept",
			in:   "root:pw@tcp(127.0.0.1:3306)/authmini?parseTime=true",
			want: "root:pw@tcp(127.0.0.1:3306)/authmini?parseTime=true",
		},
		{
			name: "url form",
			in:   "mysql://root:pw@127.0.0.1:3306/authmini",
			want: "root:pw@tcp(127.0.0.1:3306)/authmini?charset=utf8mb4&parseTime=true",
		},
		{
			name: "jdbc with overrides",
			in:   "jdbc:mysql://db:3306/authmini?useSSL=false&serverTimezone=UTC&useUnicode=true",
			user: "svc",
			pass: "secret",
			want: "svc:secret@tcp(db:3306)/authmini?charset=utf8mb4&loc=UTC&parseTime=true&tls=false",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeMySQLDSN(tt.in, tt.user, tt.pass))
		})
	}
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "root:****@tcp(db:3306)/x", maskDSN("root:pw@tcp(db:3306)/x"))
	assert.Equal(t, "root@tcp(db:3306)/x", maskDSN("root@tcp(db:3306)/x"))
	assert.Equal(t, "file::memory:", maskDSN("file::memory:"))
}

func TestNewGorm_UnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle", DSN: "x"})
	require.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestNewGorm_SQLite(t *testing.T) {
	db, err := NewGorm(Opts{Driver: "sqlite", DSN: "file::memory:", MaxOpenConns: 1, MaxIdleConns: 1, LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}
