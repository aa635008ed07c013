package crossval

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/YuminosukeSato/crossval/pkg/errors"
)

func collectIndices(t *testing.T, p, n int) [][]int {
	t.Helper()
	c, err := NewCombinations(p, n, IndexMode)
	require.NoError(t, err)
	var out [][]int
	for c.Next() {
		out = append(out, c.Indices())
	}
	return out
}

func subsetKey(s []int) string {
	sorted := slices.Clone(s)
	slices.Sort(sorted)
	return fmt.Sprint(sorted)
}

func TestCombinationsSmallSequence(t *testing.T) {
	got := collectIndices(t, 2, 3)
	assert.Equal(t, [][]int{{1, 2}, {0, 2}, {0, 1}}, got)
}

func TestCombinationsEnumeratesEverySubset(t *testing.T) {
	for n := 0; n <= 8; n++ {
		for p := 0; p <= n; p++ {
			t.Run(fmt.Sprintf("n=%d/p=%d", n, p), func(t *testing.T) {
				got := collectIndices(t, p, n)
				require.Len(t, got, combin.Binomial(n, p))

				// first subset is {n-p, ..., n-1}
				want := make([]int, p)
				for i := range want {
					want[i] = n - p + i
				}
				assert.Equal(t, want, got[0])

				seen := make(map[string]bool, len(got))
				for _, s := range got {
					require.Len(t, s, p)
					for _, idx := range s {
						require.True(t, idx >= 0 && idx < n, "index %d out of range", idx)
					}
					key := subsetKey(s)
					assert.False(t, seen[key], "duplicate subset %v", s)
					seen[key] = true
				}

				if p > 0 {
					for _, s := range combin.Combinations(n, p) {
						assert.True(t, seen[subsetKey(s)], "missing subset %v", s)
					}
				}
			})
		}
	}
}

func TestCombinationsRevolvingDoor(t *testing.T) {
	for _, tc := range []struct{ p, n int }{{1, 5}, {2, 5}, {3, 6}, {4, 7}} {
		got := collectIndices(t, tc.p, tc.n)
		for i := 1; i < len(got); i++ {
			prev := make(map[int]bool)
			for _, idx := range got[i-1] {
				prev[idx] = true
			}
			changed := 0
			for _, idx := range got[i] {
				if !prev[idx] {
					changed++
				}
			}
			assert.Equal(t, 1, changed, "p=%d n=%d step %d: %v -> %v", tc.p, tc.n, i, got[i-1], got[i])
		}
	}
}

func TestCombinationsMaskMode(t *testing.T) {
	for _, tc := range []struct{ p, n int }{{0, 3}, {1, 4}, {2, 5}, {3, 6}, {5, 5}} {
		t.Run(fmt.Sprintf("n=%d/p=%d", tc.n, tc.p), func(t *testing.T) {
			indices := collectIndices(t, tc.p, tc.n)

			c, err := NewCombinations(tc.p, tc.n, MaskMode)
			require.NoError(t, err)
			assert.Equal(t, MaskMode, c.Mode())
			assert.Equal(t, len(indices), c.Len())

			step := 0
			for c.Next() {
				mask := c.Mask()
				require.Len(t, mask, tc.n)
				assert.Nil(t, c.Indices())

				want := make([]bool, tc.n)
				for _, idx := range indices[step] {
					want[idx] = true
				}
				assert.Equal(t, want, mask, "step %d", step)
				step++
			}
			assert.Equal(t, len(indices), step)
		})
	}
}

func TestCombinationsEdgeCases(t *testing.T) {
	t.Run("p = 0 yields one empty subset", func(t *testing.T) {
		got := collectIndices(t, 0, 4)
		assert.Equal(t, [][]int{{}}, got)
	})

	t.Run("p = n yields the full set", func(t *testing.T) {
		got := collectIndices(t, 3, 3)
		assert.Equal(t, [][]int{{0, 1, 2}}, got)
	})

	t.Run("exhausted iterator stays exhausted", func(t *testing.T) {
		c, err := NewCombinations(1, 2, IndexMode)
		require.NoError(t, err)
		for c.Next() {
		}
		assert.False(t, c.Next())
		assert.False(t, c.Next())
	})

	t.Run("returned slices are copies", func(t *testing.T) {
		c, err := NewCombinations(2, 4, IndexMode)
		require.NoError(t, err)
		require.True(t, c.Next())
		first := c.Indices()
		first[0] = 99
		assert.Equal(t, []int{2, 3}, c.Indices())
	})
}

func TestNewCombinationsErrors(t *testing.T) {
	_, err := NewCombinations(1, 3, CombinationMode(7))
	var ve *errors.ValueError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, err.Error(), "unsupported combination mode")

	for _, p := range []int{-1, 4} {
		_, err := NewCombinations(p, 3, IndexMode)
		var vErr *errors.ValidationError
		require.True(t, errors.As(err, &vErr), "p=%d", p)
		assert.Equal(t, "p", vErr.ParamName)
	}
}

func TestCombinationSeq(t *testing.T) {
	seq, err := CombinationSeq(2, 4)
	require.NoError(t, err)

	var got [][]int
	for s := range seq {
		got = append(got, s)
		if len(got) == 3 {
			break
		}
	}
	assert.Len(t, got, 3)
	assert.Equal(t, []int{2, 3}, got[0])

	_, err = CombinationSeq(5, 4)
	assert.Error(t, err)
}

func BenchmarkCombinations(b *testing.B) {
	for i := 0; i < b.N; i++ {
		c, _ := NewCombinations(3, 20, IndexMode)
		for c.Next() {
		}
	}
}
