package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("OF_TEST_STRING", "hello")
	t.Setenv("OF_TEST_INT", "42")
	t.Setenv("OF_TEST_FLOAT", "0.25")
	t.Setenv("OF_TEST_BOOL", "true")
	t.Setenv("OF_TEST_DURATION", "90s")
	t.Setenv("OF_TEST_SLICE", "a, b ,,c")
	t.Setenv("OF_TEST_BAD_INT", "not-a-number")

	assert.Equal(t, "hello", getEnv("OF_TEST_STRING", "fallback"))
	assert.Equal(t, "fallback", getEnv("OF_TEST_MISSING", "fallback"))

	assert.Equal(t, 42, getEnvAsInt("OF_TEST_INT", 7))
	assert.Equal(t, 7, getEnvAsInt("OF_TEST_BAD_INT", 7))

	assert.Equal(t, 0.25, getEnvAsFloat("OF_TEST_FLOAT", 0.8))
	assert.Equal(t, 0.8, getEnvAsFloat("OF_TEST_MISSING", 0.8))

	assert.True(t, getEnvAsBool("OF_TEST_BOOL", false))
	assert.False(t, getEnvAsBool("OF_TEST_MISSING", false))

	assert.Equal(t, 90*time.Second, getEnvAsDuration("OF_TEST_DURATION", time.Minute))
	assert.Equal(t, time.Minute, getEnvAsDuration("OF_TEST_MISSING", time.Minute))

	assert.Equal(t, []string{"a", "b", "c"}, getEnvAsStringSlice("OF_TEST_SLICE", nil))
	assert.Equal(t, []string{"x"}, getEnvAsStringSlice("OF_TEST_MISSING", []string{"x"}))
}

func TestPaymentConfigValidation(t *testing.T) {
	t.Setenv("PAYMENT_SUCCESS_RATE", "1.5")
	_, err := New()
	assert.Error(t, err)

	t.Setenv("PAYMENT_SUCCESS_RATE", "0.8")
	t.Setenv("PAYMENT_GATEWAY_DRIVER", "carrier-pigeon")
	_, err = New()
	assert.Error(t, err)

	t.Setenv("PAYMENT_GATEWAY_DRIVER", "noop")
	cfg, err := New()
	assert.NoError(t, err)
	assert.Equal(t, "noop", cfg.Payment.GatewayDriver)
	assert.Equal(t, 0.8, cfg.Payment.SuccessRate)
}
