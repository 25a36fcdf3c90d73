package registry

import "unicode/utf8"

// guard is one step of an ordered validation cascade. fails is evaluated lazily,
// so steps after the first failure never run.
type guard struct {
	err   *Error
	fails func() (bool, error)
}

// when adapts a pure predicate to a guard check.
func when(cond func() bool) func() (bool, error) {
	return func() (bool, error) { return cond(), nil }
}

// firstFailure evaluates guards in order and returns the error of the first one
// that fails. A non-nil error from a check (storage failure) is returned as is.
func firstFailure(guards []guard) error {
	for _, g := range guards {
		failed, err := g.fails()
		if err != nil {
			return err
		}
		if failed {
			return g.err
		}
	}
	return nil
}

func validText(s string) bool {
	return s != "" && utf8.RuneCountInString(s) <= maxTextLength
}

func validMaxMembers(n uint64) bool {
	return n >= 1 && n <= maxMembersCap
}
