package server_test

import (
	"testing"

	"course-studio/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		port    string
		wantErr bool
	}{
		{"Default", "8080", false},
		{"Max", "65535", false},
		{"Zero", "0", true},
		{"TooLarge", "70000", true},
		{"NotNumber", "http", true},
		{"Empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := server.Config{Port: tt.port}.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Origins(t *testing.T) {
	c := server.Config{AllowOrigins: " http://a.test, ,http://b.test "}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.Origins())
	assert.Empty(t, server.Config{}.Origins())
}

func TestConfig_BodyLimit(t *testing.T) {
	assert.Equal(t, 4*1024*1024, server.Config{}.BodyLimit())
	assert.Equal(t, 10*1024*1024, server.Config{BodyLimitMB: 10}.BodyLimit())
	assert.Equal(t, ":9000", server.Config{Port: "9000"}.Addr())
}
