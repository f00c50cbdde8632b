// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package com

import (
	"fmt"

	ole "github.com/go-ole/go-ole"
)

// IID identifies an interface. Its memory layout matches the Windows GUID,
// so values can be handed to native code by address.
type IID = ole.GUID

// IIDUnknown is the identifier every object answers with itself.
var IIDUnknown = MustIID("{00000000-0000-0000-C000-000000000046}")

// MustIID parses an interface identifier in registry format
// ("{xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx}", braces optional).
// It panics on malformed input and is meant for package-level variables.
func MustIID(s string) IID {
	g := ole.NewGUID(s)
	if g == nil {
		panic(fmt.Sprintf("com: malformed interface identifier %q", s))
	}
	return *g
}

// IsEqualIID reports whether a and b name the same interface.
func IsEqualIID(a, b IID) bool {
	return ole.IsEqualGUID(&a, &b)
}

// containsIID reports whether iid is in set.
func containsIID(set []IID, iid IID) bool {
	for i := range set {
		if IsEqualIID(set[i], iid) {
			return true
		}
	}
	return false
}
