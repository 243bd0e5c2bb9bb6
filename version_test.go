package logstate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	v := strings.TrimSpace(Version)
	assert.NotEmpty(t, v)
	assert.Regexp(t, `^\d+\.\d+\.\d+`, v)
}
