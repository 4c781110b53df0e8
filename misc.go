// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package soia

import "reflect"

// deepEqual is a thin wrapper so callers don't need to import reflect just
// to compare two values structurally (used by KeyedSlice.Equal for items
// and by Enum.Equal for payloads).
func deepEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
