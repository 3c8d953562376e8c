package huff

import (
	"testing"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
)

func TestLog_QuietByDefault(t *testing.T) {
	assert.Equal(t, logging.WARNING, logging.GetLevel(logModule))
	assert.False(t, log.IsEnabledFor(logging.DEBUG))
	assert.True(t, log.IsEnabledFor(logging.WARNING))
}
