package flightlog

import "strconv"

// Record is one sampled row: a millisecond timestamp relative to
// recorder start plus the sensor's field values in header order.
type Record struct {
	TimestampMS int64
	Values      []float64
}

// appendCSV appends the record as one line of the persisted format
// "timestamp_ms,<v1>,...,<vN>\n". Integral values print without a
// fractional part.
func appendCSV(dst []byte, r Record) []byte {
	dst = strconv.AppendInt(dst, r.TimestampMS, 10)
	for _, v := range r.Values {
		dst = append(dst, ',')
		dst = strconv.AppendFloat(dst, v, 'g', -1, 64)
	}
	return append(dst, '\n')
}

// headerLine builds the fixed header row written as record zero.
func headerLine(fields []string) []byte {
	buf := []byte("timestamp_ms")
	for _, f := range fields {
		buf = append(buf, ',')
		buf = append(buf, f...)
	}
	return append(buf, '\n')
}
