package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualClock(t *testing.T) {
	c := NewManualClock()
	assert.Equal(t, BaseTime, c.Now())

	got := c.Advance(time.Hour)
	assert.Equal(t, BaseTime.Add(time.Hour), got)
	assert.Equal(t, got, c.Now())

	c.Set(BaseTime)
	assert.Equal(t, BaseTime, c.Now(), "moving backwards is allowed")

	at := BaseTime.Add(48 * time.Hour)
	assert.Equal(t, at, NewManualClockAt(at).Now())
}
