package flightlog

import "math/rand"

// Sensor is the data-acquisition collaborator. Fields names the CSV
// columns after timestamp_ms; Sample returns one reading per field.
// Sample is called only from the recorder's loop goroutine.
type Sensor interface {
	Fields() []string
	Sample() []float64
}

// SimSensor stands in for acquisition hardware with pseudo-random
// readings: a 10-bit ADC-like count and a temperature-like value with
// one decimal of resolution.
type SimSensor struct {
	rng *rand.Rand
}

// NewSimSensor returns a SimSensor seeded for reproducible runs.
func NewSimSensor(seed int64) *SimSensor {
	return &SimSensor{rng: rand.New(rand.NewSource(seed))}
}

// Fields implements Sensor.
func (s *SimSensor) Fields() []string {
	return []string{"dummy_sensor1", "dummy_sensor2"}
}

// Sample implements Sensor.
func (s *SimSensor) Sample() []float64 {
	return []float64{
		float64(s.rng.Intn(1024)),
		float64(s.rng.Intn(1000)) / 10,
	}
}
