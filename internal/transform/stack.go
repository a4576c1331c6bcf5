// Package transform provides a cumulative 4×4 transform stack with
// OpenGL-style push/pop semantics.
package transform

import (
	"errors"

	"ssd-renderer/internal/mathutil"
)

// ErrUnbalancedPop is returned when Pop is called with only the identity base left.
var ErrUnbalancedPop = errors.New("transform: pop without matching push")

// Stack keeps the pushed transforms alongside the running product at every
// level, so Top is a lookup rather than a re-multiplication.
type Stack struct {
	pushed []mathutil.Mat4 // pushed[0] is the identity base
	tops   []mathutil.Mat4 // tops[i] = pushed[0] × ... × pushed[i]
}

// New returns a stack holding a single identity transform.
func New() *Stack {
	s := &Stack{}
	s.Clear()
	return s
}

// Push appends m. The new effective top is the old top × m.
func (s *Stack) Push(m mathutil.Mat4) {
	if len(s.tops) == 0 {
		s.Clear()
	}
	s.pushed = append(s.pushed, m)
	s.tops = append(s.tops, mathutil.Mat4Mul(s.tops[len(s.tops)-1], m))
}

// Pop removes the most recently pushed transform.
func (s *Stack) Pop() error {
	if len(s.pushed) <= 1 {
		return ErrUnbalancedPop
	}
	s.pushed = s.pushed[:len(s.pushed)-1]
	s.tops = s.tops[:len(s.tops)-1]
	return nil
}

// MustPop is Pop for traversal code where an imbalance is a bug.
func (s *Stack) MustPop() {
	if err := s.Pop(); err != nil {
		panic(err)
	}
}

// Top returns the product of every transform on the stack.
func (s *Stack) Top() mathutil.Mat4 {
	if len(s.tops) == 0 {
		return mathutil.Mat4Identity()
	}
	return s.tops[len(s.tops)-1]
}

// Product recomputes Top from the pushed transforms, left to right.
func (s *Stack) Product() mathutil.Mat4 {
	t := mathutil.Mat4Identity()
	for _, m := range s.pushed {
		t = mathutil.Mat4Mul(t, m)
	}
	return t
}

// Clear resets the stack to the single identity state.
func (s *Stack) Clear() {
	s.pushed = append(s.pushed[:0], mathutil.Mat4Identity())
	s.tops = append(s.tops[:0], mathutil.Mat4Identity())
}

// Depth returns the number of transforms pushed above the identity base.
func (s *Stack) Depth() int {
	if len(s.pushed) == 0 {
		return 0
	}
	return len(s.pushed) - 1
}
