package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
booking_db:
  dsn: "host=db user=booking"
readiness:
  enabled: true
  booking_timezone: Asia/Riyadh
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "host=db user=booking", cfg.BookingDB.Dsn)
	assert.Equal(t, "8080", cfg.HTTPServer.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTPServer.ReadTimeout)
	assert.True(t, cfg.Readiness.Enabled)
	assert.Equal(t, time.Hour, cfg.Readiness.CheckWindow)
	assert.Equal(t, 5*time.Minute, cfg.Readiness.ReminderInterval)
	assert.Equal(t, 3, cfg.Readiness.MaxReminders)
	assert.Equal(t, 10, cfg.Readiness.NoResponsePenaltyPct)
	assert.Equal(t, 30*time.Minute, cfg.Readiness.MovementWindow)
	assert.Equal(t, 5, cfg.Readiness.NoMovementPenaltyPct)
	assert.Equal(t, 10*time.Minute, cfg.Readiness.ExpiryLookback)
	assert.Zero(t, cfg.Orders.QuoteWindow)
	assert.False(t, cfg.Kafka.Enabled)
	assert.False(t, cfg.Auditor.MonitorEnabled)
	assert.Equal(t, "SAR", cfg.Payments.Currency)

	loc, err := cfg.Readiness.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Riyadh", loc.String())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
booking_db:
  dsn: "host=db"
`)
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("NOTIFIER_LANGUAGE", "ar")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.HTTPServer.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "ar", cfg.Notifier.Language)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeConfig(t, `
booking_db:
  dsn: "host=db"
readiness:
  booking_timezone: Mars/Olympus
`)
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "booking_timezone")
}

func TestPath(t *testing.T) {
	t.Setenv("BOOKING_CONFIG_PATH", "")
	assert.Equal(t, "config/config.yaml", Path())

	t.Setenv("BOOKING_CONFIG_PATH", "/etc/booking.yaml")
	assert.Equal(t, "/etc/booking.yaml", Path())
}
