package sanitization

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail(" User@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestForLog(t *testing.T) {
	assert.Equal(t, "line one line two", ForLog("line one\nline two\r\n"))

	long := strings.Repeat("x", 300)
	got := ForLog(long)
	assert.Equal(t, maxLogValue+3, len(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, "Not provided", OrDefault("", "Not provided"))
	assert.Equal(t, "Acme", OrDefault("Acme", "Not provided"))
}
