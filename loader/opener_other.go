//go:build !windows

package loader

func defaultOpener(string) (Library, error) {
	return nil, ErrUnavailable
}
