// Unit tests for environment configuration loading
package config

import (
	"context"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromLookuper_Defaults(t *testing.T) {
	c, err := FromLookuper(context.Background(), envconfig.MapLookuper(nil))
	require.NoError(t, err)

	assert.Equal(t, "https://api.braintrust.dev", c.APIURL)
	assert.Equal(t, "https://www.braintrust.dev", c.AppURL)
	assert.Equal(t, "default-go-project", c.DefaultProject)
	assert.Empty(t, c.APIKey)
	assert.Empty(t, c.Parent)
}

func TestFromLookuper_Overrides(t *testing.T) {
	c, err := FromLookuper(context.Background(), envconfig.MapLookuper(map[string]string{
		"BRAINTRUST_API_KEY":            "sk-test",
		"BRAINTRUST_API_URL":            "https://api.example.test",
		"BRAINTRUST_DEFAULT_PROJECT_ID": "proj-123",
		"BRAINTRUST_PARENT":             "experiment_id:exp-9",
	}))
	require.NoError(t, err)

	assert.Equal(t, "sk-test", c.APIKey)
	assert.Equal(t, "https://api.example.test", c.APIURL)
	assert.Equal(t, "proj-123", c.DefaultProjectID)
	assert.Equal(t, "experiment_id:exp-9", c.Parent)
}
