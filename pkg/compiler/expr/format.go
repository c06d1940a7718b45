package expr

import (
	"math"
	"strconv"
)

// IntegralTolerance is how close a value must be to an integer to be printed
// without a fractional part.
const IntegralTolerance = 1e-9

// RoundTripPrecisions are the significant digit counts tried, in order, for
// values with a fractional part. The first that parses back to the same
// value wins. Generated code prints runtime numbers the same way.
var RoundTripPrecisions = []int{15, 16, 17}

// FormatNumber renders a value the way print shows it: integral values have
// no fractional part, everything else uses the shortest of the %.15g,
// %.16g and %.17g forms that reads back as the same value.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	r := math.Round(v)
	if math.Abs(v-r) < IntegralTolerance && math.Abs(r) < math.MaxInt64 {
		return strconv.FormatInt(int64(r), 10)
	}
	var s string
	for _, prec := range RoundTripPrecisions {
		s = strconv.FormatFloat(v, 'g', prec, 64)
		if back, err := strconv.ParseFloat(s, 64); err == nil && back == v {
			break
		}
	}
	return s
}

// FormatBool renders a boolean scalar as true or false.
func FormatBool(v float64) string {
	if v != 0 {
		return "true"
	}
	return "false"
}
