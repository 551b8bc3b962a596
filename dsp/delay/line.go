// Package delay provides a circular delay line with a single write cursor.
package delay

import "fmt"

// Line is a circular delay line.
//
// Reads are addressed relative to the write cursor: Read(1) is the most
// recently written sample and Read(0) is the oldest slot, the one the next
// Write overwrites.
type Line struct {
	buffer   []float64
	writePos int
}

// New returns a delay line of fixed size.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}
	return &Line{buffer: make([]float64, size)}, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Cursor returns the write position, always in [0, Len()).
func (d *Line) Cursor() int {
	return d.writePos
}

// Resize changes the buffer length, reusing capacity when possible,
// and clears the line.
func (d *Line) Resize(size int) error {
	if size <= 0 {
		return fmt.Errorf("delay size must be > 0: %d", size)
	}
	if size <= cap(d.buffer) {
		d.buffer = d.buffer[:size]
	} else {
		d.buffer = make([]float64, size)
	}
	d.Reset()
	return nil
}

// Write writes one sample.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads the sample delay positions behind the write cursor.
// Any delay is accepted; it wraps modulo the line length.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	if size == 0 {
		return 0
	}
	readPos := (d.writePos - delay) % size
	if readPos < 0 {
		readPos += size
	}
	return d.buffer[readPos]
}

// Reset clears line state.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}
