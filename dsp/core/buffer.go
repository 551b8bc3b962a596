package core

// EnsureLen resizes buf to n elements. It reslices when the capacity
// allows and allocates a zeroed slice otherwise; reused contents are kept.
func EnsureLen(buf []float64, n int) []float64 {
	switch {
	case n <= 0:
		return buf[:0]
	case n > cap(buf):
		return make([]float64, n)
	}
	return buf[:n]
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// CopyInto copies as much of src as fits into dst and reports how many
// samples moved.
func CopyInto(dst, src []float64) int {
	return copy(dst, src)
}

// Fill sets all values in buf to v.
func Fill(buf []float64, v float64) {
	for i := range buf {
		buf[i] = v
	}
}
