package crossval

import (
	"iter"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/YuminosukeSato/crossval/pkg/errors"
)

// CombinationMode selects what a Combinations iterator exposes.
type CombinationMode int

const (
	// IndexMode exposes each subset as p sample indices.
	IndexMode CombinationMode = iota
	// MaskMode exposes each subset as an n-length membership mask.
	MaskMode
)

func (m CombinationMode) String() string {
	switch m {
	case IndexMode:
		return "index"
	case MaskMode:
		return "mask"
	default:
		return "unknown"
	}
}

// Combinations enumerates every p-subset of {0, ..., n-1} in revolving-door
// order: consecutive subsets differ by exactly one element leaving and one
// entering. The first subset is {n-p, ..., n-1}.
//
// A Combinations is a single-use, pull-based iterator:
//
//	c, _ := NewCombinations(2, 4, IndexMode)
//	for c.Next() {
//	    use(c.Indices())
//	}
type Combinations struct {
	n, k int
	mode CombinationMode

	// ctrl is the twiddle control array of length n+2.
	ctrl    []int
	x, y, z int

	indices []int
	mask    []bool

	started bool
	done    bool
}

// NewCombinations returns an iterator over the p-subsets of n indices.
func NewCombinations(p, n int, mode CombinationMode) (*Combinations, error) {
	if mode != IndexMode && mode != MaskMode {
		return nil, errors.NewValueError("NewCombinations", "unsupported combination mode "+mode.String())
	}
	if n < 0 {
		return nil, errors.NewValidationError("n", "must be non-negative", n)
	}
	if p < 0 || p > n {
		return nil, errors.NewValidationError("p", "must be in [0, n]", p)
	}

	c := &Combinations{n: n, k: p, mode: mode}

	c.ctrl = make([]int, n+2)
	c.ctrl[0] = n + 1
	for i := 1; i <= n; i++ {
		if i <= n-p {
			c.ctrl[i] = 0
		} else {
			c.ctrl[i] = i - n + p
		}
	}
	c.ctrl[n+1] = -2

	switch mode {
	case IndexMode:
		c.indices = make([]int, p)
		for i := range c.indices {
			c.indices[i] = n - p + i
		}
	case MaskMode:
		c.mask = make([]bool, n)
		for i := n - p; i < n; i++ {
			c.mask[i] = true
		}
	}
	return c, nil
}

// Len returns the total number of subsets, C(n, p).
func (c *Combinations) Len() int {
	return combin.Binomial(c.n, c.k)
}

// Mode returns the output mode.
func (c *Combinations) Mode() CombinationMode {
	return c.mode
}

// Next advances to the next subset and reports whether one exists. Once it
// returns false it keeps returning false.
func (c *Combinations) Next() bool {
	if c.done {
		return false
	}
	if !c.started {
		c.started = true
		return true
	}
	// The only 0-subset is the empty one.
	if c.k == 0 || !c.twiddle() {
		c.done = true
		return false
	}
	switch c.mode {
	case IndexMode:
		c.indices[c.z] = c.x
	case MaskMode:
		c.mask[c.x] = true
		c.mask[c.y] = false
	}
	return true
}

// Indices returns a copy of the current subset in IndexMode, nil in MaskMode.
func (c *Combinations) Indices() []int {
	if c.mode != IndexMode {
		return nil
	}
	out := make([]int, len(c.indices))
	copy(out, c.indices)
	return out
}

// Mask returns a copy of the current membership mask in MaskMode, nil in IndexMode.
func (c *Combinations) Mask() []bool {
	if c.mode != MaskMode {
		return nil
	}
	out := make([]bool, len(c.mask))
	copy(out, c.mask)
	return out
}

// twiddle performs one revolving-door transition. On success x is the
// element entering the subset, y the element leaving, and z the slot in the
// index vector that changes.
func (c *Combinations) twiddle() bool {
	p := c.ctrl
	j := 1
	for p[j] <= 0 {
		j++
	}

	if p[j-1] == 0 {
		for i := j - 1; i != 1; i-- {
			p[i] = -1
		}
		p[j] = 0
		c.x, c.z = 0, 0
		p[1] = 1
		c.y = j - 1
		return true
	}

	if j > 1 {
		p[j-1] = 0
	}
	for {
		j++
		if p[j] <= 0 {
			break
		}
	}
	k := j - 1
	i := j
	for p[i] == 0 {
		p[i] = -1
		i++
	}

	switch {
	case p[i] == -1:
		p[i] = p[k]
		c.z = p[k] - 1
		c.x = i - 1
		c.y = k - 1
		p[k] = -1
	case i == p[0]:
		return false
	default:
		p[j] = p[i]
		c.z = p[i] - 1
		p[i] = 0
		c.x = j - 1
		c.y = i - 1
	}
	return true
}

// CombinationSeq returns the p-subsets of n indices as an iterator. Each
// yielded slice is owned by the caller.
func CombinationSeq(p, n int) (iter.Seq[[]int], error) {
	c, err := NewCombinations(p, n, IndexMode)
	if err != nil {
		return nil, err
	}
	return func(yield func([]int) bool) {
		for c.Next() {
			if !yield(c.Indices()) {
				return
			}
		}
	}, nil
}
