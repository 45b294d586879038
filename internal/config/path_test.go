package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestExpandPath(t *testing.T) {
	t.Setenv("CARGONOTE_TEST_DIR", "/srv/cargo")

	assert.Equal(t, "/srv/cargo/data.json", ExpandPath("$CARGONOTE_TEST_DIR/data.json"))
	assert.Equal(t, "", ExpandPath(""))
	assert.False(t, strings.HasPrefix(ExpandPath("~/cargo.json"), "~"))
}

func TestDataPath(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Reset()
	assert.True(t, strings.HasSuffix(DataPath(), "cargo_data.json"))

	viper.Set("data.path", "/tmp/other.json")
	assert.Equal(t, "/tmp/other.json", DataPath())
}

func TestBoundaryHour(t *testing.T) {
	t.Cleanup(viper.Reset)

	tests := []struct {
		set  any
		name string
		want int
	}{
		{name: "unset falls back to 4", want: 4},
		{name: "midnight boundary is valid", set: 0, want: 0},
		{name: "configured hour", set: 6, want: 6},
		{name: "too large falls back", set: 25, want: 4},
		{name: "negative falls back", set: -1, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			if tt.set != nil {
				viper.Set("stats.boundary_hour", tt.set)
			}
			assert.Equal(t, tt.want, BoundaryHour())
		})
	}
}
