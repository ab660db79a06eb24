// Package design computes biquad coefficients for the sidechain filters.
//
// [Butterworth] splits an order-n Butterworth response into second-order
// sections, plus one first-order section for odd n, ready for a
// biquad.Chain.
package design
