//go:build !linux && !windows && !darwin

package power

type unsupportedInhibitor struct{}

func newInhibitor(string) Inhibitor {
	return unsupportedInhibitor{}
}

func (unsupportedInhibitor) Acquire(string) (Handle, error) {
	return nil, ErrUnsupported
}
