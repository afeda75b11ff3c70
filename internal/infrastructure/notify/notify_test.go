package notify

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRecorder_KeepsOrderAndLevels(t *testing.T) {
	r := NewRecorder()
	r.NotifyError("first")
	r.NotifySuccess("second")
	r.NotifyError("third")

	assert.Equal(t, []Notification{
		{Level: LevelError, Message: "first"},
		{Level: LevelSuccess, Message: "second"},
		{Level: LevelError, Message: "third"},
	}, r.All())
	assert.Equal(t, []string{"first", "third"}, r.Errors())
	assert.Equal(t, []string{"second"}, r.Successes())
}

func TestLogSink_WritesMessage(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSink(zerolog.New(&buf))

	s.NotifyError("Cannot connect")
	s.NotifySuccess("Appointment Cancelled")

	out := buf.String()
	assert.True(t, strings.Contains(out, `"message":"Cannot connect"`), out)
	assert.True(t, strings.Contains(out, `"notification":"success"`), out)
}

func TestFanout_ForwardsToAll(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	f := Fanout{a, b}

	f.NotifyError("boom")

	assert.Equal(t, []string{"boom"}, a.Errors())
	assert.Equal(t, []string{"boom"}, b.Errors())
}
