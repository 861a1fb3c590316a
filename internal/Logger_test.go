package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPushLog_RoutesToHandler(t *testing.T) {
	var received []LogStruct
	previous := LogHandler
	LogHandler = func(sender interface{}, log LogStruct) {
		received = append(received, log)
	}
	t.Cleanup(func() { LogHandler = previous })

	PushLogInfof(nil, "chunk %d", 7)
	PushLogWarning(nil, "careful")

	if assert.Len(t, received, 2) {
		assert.Equal(t, LogStruct{LogLevel: Info, Message: "chunk 7"}, received[0])
		assert.Equal(t, Warning, received[1].LogLevel)
	}
}

func TestPushLog_NilHandler(t *testing.T) {
	previous := LogHandler
	LogHandler = nil
	t.Cleanup(func() { LogHandler = previous })

	assert.NotPanics(t, func() { PushLogDebugf(nil, "%d", 1) })
}
