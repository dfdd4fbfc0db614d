package download

// Partition splits items into exactly n contiguous, order-preserving shards.
//
// Shard sizes differ by at most one: the first len(items)%n shards hold
// one extra element. When there are fewer items than shards the trailing
// shards are empty. Concatenating the shards in order reproduces items.
// n below 1 is treated as 1.
//
// Example:
//
//	Partition([]int{1, 2, 3, 4, 5}, 2) // [[1 2 3] [4 5]]
//	Partition([]int{1}, 3)             // [[1] [] []]
func Partition[T any](items []T, n int) [][]T {
	if n < 1 {
		n = 1
	}

	shards := make([][]T, n)
	base, extra := len(items)/n, len(items)%n

	start := 0
	for i := range shards {
		size := base
		if i < extra {
			size++
		}
		end := start + size
		shards[i] = items[start:end:end]
		start = end
	}

	return shards
}
