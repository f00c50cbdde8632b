//go:build windows

package loader

import "github.com/gogpu/ggoverlay/native"

func defaultOpener(name string) (Library, error) {
	lib, err := native.Open(name)
	if err != nil {
		return nil, err
	}
	return lib, nil
}
