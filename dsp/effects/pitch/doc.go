// Package pitch provides the pitch stage of the vocal chain.
//
// WobbleShifter does not resample. It approximates a pitch change with an
// amplitude modulator whose rate follows the pitch ratio, which keeps the
// stage allocation-free and latency-free at any block size.
package pitch
