package clients

import (
	"net/url"
	"testing"

	"contractormatching/lib/config"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ConnectionString_EscapesCredentials(t *testing.T) {
	//Arrange
	settings := config.Database{
		Host:     "db.internal",
		Port:     "5432",
		Name:     "matching",
		User:     "matcher",
		Password: "p@ss word'with/odd:chars",
		SSLMode:  "require",
	}

	//Act
	dsn := ConnectionString(settings)

	//Assert
	parsed, err := url.Parse(dsn)
	require.NoError(t, err)
	password, ok := parsed.User.Password()
	assert.True(t, ok)
	assert.Equal(t, settings.Password, password)
	assert.Equal(t, "matcher", parsed.User.Username())
	assert.Equal(t, "db.internal:5432", parsed.Host)
	assert.Equal(t, "/matching", parsed.Path)
	assert.Equal(t, "require", parsed.Query().Get("sslmode"))

	_, err = pq.ParseURL(dsn)
	assert.NoError(t, err)
}
