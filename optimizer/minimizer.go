package optimizer

// MinimizeInt evaluates f at every integer in [min, max] and returns the
// argument with the smallest value, and that value. The smallest argument
// wins ties.
func MinimizeInt(min, max int, f func(int) float64) (int, float64) {
	arg := min
	best := f(min)

	for i := min + 1; i <= max; i++ {
		v := f(i)
		if v < best {
			arg = i
			best = v
		}
	}

	return arg, best
}
