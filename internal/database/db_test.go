package database

import (
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsDSN(t *testing.T) {
	o := Options{User: "app", Pass: "s3cret", Host: "db.local", Port: "3306", Name: "restaurant"}

	cfg, err := mysql.ParseDSN(o.DSN())
	require.NoError(t, err)
	assert.Equal(t, "app", cfg.User)
	assert.Equal(t, "s3cret", cfg.Passwd)
	assert.Equal(t, "db.local:3306", cfg.Addr)
	assert.Equal(t, "restaurant", cfg.DBName)
	assert.True(t, cfg.ParseTime)
}
