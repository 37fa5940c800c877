package trainer

import "math/rand"

// shuffle permutes items in place with a Fisher-Yates pass: for each index
// from the last down, swap with a uniformly drawn earlier-or-equal index.
func shuffle[T any](rng *rand.Rand, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
