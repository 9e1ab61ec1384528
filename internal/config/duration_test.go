package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_UnmarshalYAML(t *testing.T) {
	var target struct {
		D Duration `yaml:"d"`
	}

	t.Run("duration strings", func(t *testing.T) {
		for raw, want := range map[string]time.Duration{
			"d: 3s":    3 * time.Second,
			"d: 4h":    4 * time.Hour,
			"d: 500ms": 500 * time.Millisecond,
		} {
			require.NoError(t, yaml.Unmarshal([]byte(raw), &target), raw)
			assert.Equal(t, want, target.D.Std(), raw)
		}
	})

	t.Run("bare integers are nanoseconds", func(t *testing.T) {
		require.NoError(t, yaml.Unmarshal([]byte("d: 1000"), &target))
		assert.Equal(t, time.Duration(1000), target.D.Std())
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		assert.Error(t, yaml.Unmarshal([]byte("d: soon"), &target))
		assert.Error(t, yaml.Unmarshal([]byte("d: [1, 2]"), &target))
	})
}
