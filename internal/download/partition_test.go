package download

import (
	"slices"
	"testing"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		name  string
		items []int
		n     int
		want  [][]int
	}{
		{"even split", []int{1, 2, 3, 4}, 2, [][]int{{1, 2}, {3, 4}}},
		{"uneven split", []int{1, 2, 3, 4, 5}, 2, [][]int{{1, 2, 3}, {4, 5}}},
		{"more shards than items", []int{1}, 3, [][]int{{1}, {}, {}}},
		{"empty input", nil, 2, [][]int{{}, {}}},
		{"single shard", []int{1, 2, 3}, 1, [][]int{{1, 2, 3}}},
		{"invalid shard count", []int{1, 2}, 0, [][]int{{1, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Partition(tt.items, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d shards, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if !slices.Equal(got[i], tt.want[i]) {
					t.Errorf("shard %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPartition_Properties(t *testing.T) {
	for n := 0; n <= 25; n++ {
		items := make([]int, n)
		for i := range items {
			items[i] = i
		}

		for c := 1; c <= 7; c++ {
			shards := Partition(items, c)

			if len(shards) != c {
				t.Fatalf("n=%d c=%d: got %d shards", n, c, len(shards))
			}

			var concat []int
			minSize, maxSize := n, 0
			for _, s := range shards {
				concat = append(concat, s...)
				minSize = min(minSize, len(s))
				maxSize = max(maxSize, len(s))
			}

			if len(concat) != n {
				t.Errorf("n=%d c=%d: total %d", n, c, len(concat))
			}
			if maxSize-minSize > 1 {
				t.Errorf("n=%d c=%d: shard sizes differ by %d", n, c, maxSize-minSize)
			}
			if !slices.Equal(concat, items) && n > 0 {
				t.Errorf("n=%d c=%d: concatenation %v does not reproduce input", n, c, concat)
			}
		}
	}
}

func TestPartition_ShardsDoNotAlias(t *testing.T) {
	items := []int{1, 2, 3, 4}
	shards := Partition(items, 2)

	shards[0] = append(shards[0], 99)
	if items[2] != 3 {
		t.Errorf("appending to a shard overwrote the next shard: %v", items)
	}
}
