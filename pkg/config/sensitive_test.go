package config

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSensitiveString(t *testing.T) {
	t.Run("Should hide the token from fmt but keep it for requests", func(t *testing.T) {
		token := SensitiveString("portal-admin-token")

		assert.Equal(t, "[REDACTED]", fmt.Sprint(token))
		assert.Equal(t, "portal-admin-token", token.Value())
	})

	t.Run("Should print nothing for an unset token", func(t *testing.T) {
		assert.Empty(t, SensitiveString("").String())
	})

	t.Run("Should redact the token when the API settings are serialized", func(t *testing.T) {
		api := Default().API
		api.Token = "portal-admin-token"

		data, err := json.Marshal(api)

		require.NoError(t, err)
		assert.NotContains(t, string(data), "portal-admin-token")
		assert.Contains(t, string(data), "[REDACTED]")
	})

	t.Run("Should read a token from JSON", func(t *testing.T) {
		var api APIConfig

		require.NoError(t, json.Unmarshal([]byte(`{"Token":"from-file"}`), &api))

		assert.Equal(t, "from-file", api.Token.Value())
	})
}

func TestSettings(t *testing.T) {
	t.Run("Should list every leaf with its environment variable", func(t *testing.T) {
		byPath := make(map[string]Setting)
		for _, s := range Settings() {
			byPath[s.Path] = s
		}

		assert.Equal(t, "PORTAL_API_TIMEOUT", byPath["api.timeout"].EnvVar)
		assert.Equal(t, "PORTAL_SCHEDULE_TERM_WEEKS", byPath["schedule.term_weeks"].EnvVar)
		assert.True(t, byPath["api.token"].Sensitive)
		assert.False(t, byPath["cli.no_color"].Sensitive)
		assert.NotContains(t, byPath, "api")
	})
}
