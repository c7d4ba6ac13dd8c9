package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run("Invalid Connection", func(t *testing.T) {
		cfg := Config{
			Driver:         DriverMySQL,
			Host:           "localhost",
			Port:           9999,
			User:           "root",
			Password:       "wrongpassword",
			Name:           "course_studio",
			TimeoutSeconds: 1,
		}

		db, err := Connect(cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("Unsupported Driver", func(t *testing.T) {
		db, err := Connect(Config{Driver: "oracle"})
		assert.ErrorContains(t, err, "unsupported database driver")
		assert.Nil(t, db)
	})

	t.Run("SQLite Memory", func(t *testing.T) {
		db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
		require.NoError(t, err)

		var fk int
		require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
		assert.Equal(t, 1, fk)
	})
}

func TestDSN(t *testing.T) {
	cfg := Config{Host: "db", Port: 5432, User: "app", Password: "p@ss word", Name: "courses", SSLMode: "require"}

	assert.Equal(t, "postgres://app:p%40ss%20word@db:5432/courses?sslmode=require&connect_timeout=5", PostgresDSN(cfg, 5))

	cfg.SSLMode = ""
	assert.Contains(t, PostgresDSN(cfg, 5), "sslmode=disable")

	cfg.Port = 3306
	assert.Equal(t, "app:p%40ss%20word@tcp(db:3306)/courses?charset=utf8mb4&parseTime=True&loc=Local&timeout=5s&readTimeout=5s&writeTimeout=5s", MySQLDSN(cfg, 5))
}
