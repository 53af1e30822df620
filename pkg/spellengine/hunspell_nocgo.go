//go:build !cgo || windows

package spellengine

import "errors"

var errNativeUnsupported = errors.New("hunspell requires cgo on a non-Windows platform")

func newNativeEngine(aff, dic string) (Engine, error) {
	return nil, errNativeUnsupported
}
