// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package com

import (
	"errors"
	"fmt"
	"sync"
)

// HRESULT is a COM result code. Values with the high bit set are failures;
// the rest are success statuses. HRESULT implements error so that results
// can travel through ordinary Go error returns unchanged: a nil error means
// S_OK, any other value is the code the implementation produced.
type HRESULT uint32

// Generic result codes.
const (
	S_OK          HRESULT = 0x00000000
	S_FALSE       HRESULT = 0x00000001
	E_NOTIMPL     HRESULT = 0x80004001
	E_NOINTERFACE HRESULT = 0x80004002
	E_POINTER     HRESULT = 0x80004003
	E_FAIL        HRESULT = 0x80004005
	E_INVALIDARG  HRESULT = 0x80070057
)

var (
	namesMu sync.RWMutex
	names   = map[HRESULT]string{
		S_OK:          "S_OK",
		S_FALSE:       "S_FALSE",
		E_NOTIMPL:     "E_NOTIMPL",
		E_NOINTERFACE: "E_NOINTERFACE",
		E_POINTER:     "E_POINTER",
		E_FAIL:        "E_FAIL",
		E_INVALIDARG:  "E_INVALIDARG",
	}
)

// RegisterName attaches a symbolic name to a result code for Error output.
// API packages call it from init for their own codes.
func RegisterName(hr HRESULT, name string) {
	namesMu.Lock()
	defer namesMu.Unlock()
	names[hr] = name
}

// Error implements the error interface.
func (hr HRESULT) Error() string {
	namesMu.RLock()
	name, ok := names[hr]
	namesMu.RUnlock()
	if ok {
		return fmt.Sprintf("%s (0x%08X)", name, uint32(hr))
	}
	return fmt.Sprintf("HRESULT 0x%08X", uint32(hr))
}

// Failed reports whether hr is a failure code.
func (hr HRESULT) Failed() bool {
	return hr&0x80000000 != 0
}

// ResultOf converts an error returned by an API call back into its result
// code. nil is S_OK and errors that carry no HRESULT map to E_FAIL.
func ResultOf(err error) HRESULT {
	if err == nil {
		return S_OK
	}
	var hr HRESULT
	if errors.As(err, &hr) {
		return hr
	}
	return E_FAIL
}

// Succeeded reports whether err represents a success status. It is true for
// nil and for non-failure codes such as S_FALSE.
func Succeeded(err error) bool {
	return !ResultOf(err).Failed()
}

// Failed is the negation of Succeeded.
func Failed(err error) bool {
	return ResultOf(err).Failed()
}
