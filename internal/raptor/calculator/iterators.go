package calculator

import "iter"

// increasing yields start, start+step, ... up to and including end.
func increasing(start, end, step int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for v := start; v <= end; v += step {
			if !yield(v) {
				return
			}
		}
	}
}

// decreasing yields start, start-step, ... down to and including end.
func decreasing(start, end, step int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for v := start; v >= end; v -= step {
			if !yield(v) {
				return
			}
		}
	}
}
