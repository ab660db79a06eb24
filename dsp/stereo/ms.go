// Package stereo converts between left/right and mid/side channel layouts.
//
// Encoding uses mid = (l+r)/2 and side = (l-r)/2, so decoding is the plain
// sum and difference and a round trip is exact up to floating-point rounding.
package stereo

import vecmath "github.com/cwbudde/algo-vecmath"

// EncodeSample returns the mid and side components of one stereo sample.
func EncodeSample(left, right float64) (mid, side float64) {
	return (left + right) * 0.5, (left - right) * 0.5
}

// DecodeSample returns the left and right components of one mid/side sample.
func DecodeSample(mid, side float64) (left, right float64) {
	return mid + side, mid - side
}

// Encode writes the mid/side representation of left/right into mid and side.
// All slices must have the same length; mid and side must not alias the
// inputs.
func Encode(mid, side, left, right []float64) {
	if len(left) == 0 {
		return
	}
	vecmath.AddMulBlock(mid, left, right, 0.5)
	_ = side[len(left)-1]
	_ = right[len(left)-1]
	for i, l := range left {
		side[i] = (l - right[i]) * 0.5
	}
}

// Decode writes the left/right representation of mid/side into left and
// right. All slices must have the same length; left and right must not alias
// the inputs.
func Decode(left, right, mid, side []float64) {
	if len(mid) == 0 {
		return
	}
	vecmath.AddBlock(left, mid, side)
	_ = right[len(mid)-1]
	_ = side[len(mid)-1]
	for i, m := range mid {
		right[i] = m - side[i]
	}
}
