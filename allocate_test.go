package flightlog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/flightlog/volume"
)

func TestNextLogNameEmptyVolume(t *testing.T) {
	name, exhausted := nextLogName(volume.NewMem())
	assert.Equal(t, "/flight_log_001.csv", name)
	assert.False(t, exhausted)
}

func TestNextLogNameSequential(t *testing.T) {
	vol := volume.NewMem()
	for seq := 1; seq <= 41; seq++ {
		vol.Touch(logName(seq))
	}
	name, exhausted := nextLogName(vol)
	assert.Equal(t, "/flight_log_042.csv", name)
	assert.False(t, exhausted)
}

func TestNextLogNameFillsGap(t *testing.T) {
	vol := volume.NewMem()
	vol.Touch(logName(1))
	vol.Touch(logName(2))
	vol.Touch(logName(4))
	name, _ := nextLogName(vol)
	assert.Equal(t, "/flight_log_003.csv", name)
}

func TestNextLogNameExhausted(t *testing.T) {
	vol := volume.NewMem()
	for seq := 1; seq <= MaxSequence; seq++ {
		vol.Touch(logName(seq))
	}
	name, exhausted := nextLogName(vol)
	assert.Equal(t, "/flight_log_001.csv", name)
	assert.True(t, exhausted)
}
