package strmap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type routingConfig struct {
	Route *Mapper[route] `yaml:"route" json:"route"`
}

func TestMapper_YAML(t *testing.T) {
	t.Run("decode", func(t *testing.T) {
		var cfg routingConfig
		err := yaml.Unmarshal([]byte(`route: "tenants/{Tenant}/pages/{Page}"`), &cfg)
		require.NoError(t, err)
		require.NotNil(t, cfg.Route)

		got, ok := cfg.Route.MapFromString("tenants/" + testIDCompact + "/pages/4")
		require.True(t, ok)
		assert.Equal(t, route{Tenant: testID, Page: 4}, got)
	})

	t.Run("encode", func(t *testing.T) {
		cfg := routingConfig{Route: MustNew[route]("pages/{Page}")}
		out, err := yaml.Marshal(cfg)
		require.NoError(t, err)
		assert.Equal(t, "route: pages/{Page}\n", string(out))
	})

	t.Run("invalid template", func(t *testing.T) {
		var cfg routingConfig
		err := yaml.Unmarshal([]byte(`route: "pages/{Nope}"`), &cfg)
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})

	t.Run("not a scalar", func(t *testing.T) {
		var cfg routingConfig
		err := yaml.Unmarshal([]byte("route:\n  - a\n  - b\n"), &cfg)
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
		assert.Contains(t, err.Error(), ErrMsgMapperNotScalar)
		assert.Equal(t, "2", metadata(t, err, MetaKeyLine))
	})
}

func TestMapper_JSON(t *testing.T) {
	cfg := routingConfig{Route: MustNew[route]("pages/{Page}")}
	out, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"route":"pages/{Page}"}`, string(out))

	var decoded routingConfig
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.NotNil(t, decoded.Route)
	assert.Equal(t, "pages/{Page}", decoded.Route.Source())

	s, err := decoded.Route.MapToString(route{Page: 6})
	require.NoError(t, err)
	assert.Equal(t, "pages/6", s)
}
