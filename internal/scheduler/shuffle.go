package scheduler

// Shuffler is the randomness plans are drawn with. *math/rand/v2.Rand
// satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// ShuffleTake returns up to n items of a shuffled copy of items. The input
// slice is left untouched.
func ShuffleTake[T any](items []T, n int, rng Shuffler) []T {
	cp := make([]T, len(items))
	copy(cp, items)
	if rng != nil {
		rng.Shuffle(len(cp), func(i, j int) { cp[i], cp[j] = cp[j], cp[i] })
	}
	if n < len(cp) {
		cp = cp[:n]
	}
	return cp
}
