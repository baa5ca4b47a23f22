package math

func MinUint64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

func MaxUint64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

// SubSat returns a-b or zero when b exceeds a.
func SubSat(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}
