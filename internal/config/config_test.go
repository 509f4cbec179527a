package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("EVENTS_BACKEND", "")
	t.Setenv("ORDER_CODE_PREFIX", "")
	t.Setenv("DB_QUERY_TIMEOUT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "log", cfg.Events.Backend)
	assert.Equal(t, "TXR", cfg.Orders.CodePrefix)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	t.Setenv("DB_QUERY_TIMEOUT", "soon")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestValidate_SQSNeedsQueue(t *testing.T) {
	t.Setenv("EVENTS_BACKEND", "sqs")
	t.Setenv("ORDERS_QUEUE_URL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Error(t, cfg.Validate())
}

func TestValidateAPI_AdminSecret(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "")
	t.Setenv("CORS_ORIGINS", "")

	t.Setenv("RUN_LOCAL", "")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.ErrorContains(t, cfg.ValidateAPI(), "ADMIN_JWT_SECRET")

	t.Setenv("RUN_LOCAL", "true")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.ValidateAPI())

	t.Setenv("RUN_LOCAL", "")
	t.Setenv("ADMIN_JWT_SECRET", "s3cret")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.ValidateAPI())
}

func TestValidateAPI_CORSOrigins(t *testing.T) {
	t.Setenv("RUN_LOCAL", "true")
	t.Setenv("CORS_ORIGINS", " , ")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.ValidateAPI(), "CORS_ORIGINS")
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Driver: "postgres", Host: "db", Port: 5432, Database: "shop",
		Username: "u", Password: "p", SSLMode: "disable", ConnectTimeout: 60 * time.Second,
	}
	assert.Equal(t, "host=db user=u password=p dbname=shop port=5432 sslmode=disable connect_timeout=60", d.DSN())

	d.URL = "postgres://elsewhere"
	assert.Equal(t, "postgres://elsewhere", d.DSN())
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, splitList(" https://a.example, ,https://b.example "))
}
