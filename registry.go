// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package soia

import "sync"

// registry holds one *RecordDescriptor per (module_path, qualified_name)
// identity, process-wide. §5 requires that constructing the descriptor for
// a given type be idempotent: whichever goroutine's StructBuilder.Build or
// EnumBuilder.Build call reaches registerRecord first establishes the canonical descriptor, and
// any later call for the same identity observes that same value rather
// than building a second, divergent one.
var (
	registryMu sync.Mutex
	registry   = map[string]*RecordDescriptor{}
)

func registerRecord(desc *RecordDescriptor) *RecordDescriptor {
	registryMu.Lock()
	defer registryMu.Unlock()
	id := desc.ID()
	if existing, ok := registry[id]; ok {
		return existing
	}
	registry[id] = desc
	return desc
}
