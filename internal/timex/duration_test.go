package timex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestUnmarshalYAMLString(t *testing.T) {
	var out struct {
		Interval Duration `yaml:"interval"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("interval: 3s"), &out))
	require.Equal(t, 3*time.Second, out.Interval.Duration)
}

func TestUnmarshalYAMLNanoseconds(t *testing.T) {
	var out struct {
		Interval Duration `yaml:"interval"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("interval: 1000000000"), &out))
	require.Equal(t, time.Second, out.Interval.Duration)
}

func TestUnmarshalYAMLInvalid(t *testing.T) {
	var out struct {
		Interval Duration `yaml:"interval"`
	}
	require.Error(t, yaml.Unmarshal([]byte("interval: soon"), &out))
}
