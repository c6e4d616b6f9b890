package notifyservice

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	infos  []string
	errors []string
}

func (l *recordingLogger) Info(format string, v ...interface{}) {
	l.infos = append(l.infos, fmt.Sprintf(format, v...))
}

func (l *recordingLogger) Error(format string, v ...interface{}) {
	l.errors = append(l.errors, fmt.Sprintf(format, v...))
}

func TestDisabledClient_SkipsWithoutError(t *testing.T) {
	log := &recordingLogger{}
	c := NewDisabledClient(log)
	n := &BookingNotification{BookingID: 42}

	require.NoError(t, c.SendBookingConfirmation(context.Background(), n))
	require.NoError(t, c.SendBookingReminder(context.Background(), n))

	assert.Len(t, log.infos, 2)
	assert.Empty(t, log.errors)
}
