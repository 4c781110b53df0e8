// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package soia

import (
	"encoding/json"
	"fmt"
)

// jsonNumber is the type json.Decoder produces for numeric literals when
// UseNumber is set (see serializer.go's FromJSONCode). Keeping it as an
// alias, rather than importing encoding/json in every file that matches on
// it, keeps the primitive/struct/enum decoders' type switches readable.
type jsonNumber = json.Number

// jsonToInt64 extracts an int64 from a decoded JSON tree node that is
// expected to be a plain number (as opposed to the string-encoded form used
// for out-of-safe-range int64/uint64 values, handled by the caller).
func jsonToInt64(j any) (int64, error) {
	switch jt := j.(type) {
	case jsonNumber:
		n, err := jt.Int64()
		if err != nil {
			// Accept "3.0"-shaped float numbers by round-tripping through
			// float64, matching the leniency of the dense/readable forms.
			f, ferr := jt.Float64()
			if ferr != nil || f != float64(int64(f)) {
				return 0, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
			}
			return int64(f), nil
		}
		return n, nil
	case float64:
		return int64(jt), nil
	}
	return 0, fmt.Errorf("%w: expected number, got %T", ErrSchemaMismatch, j)
}

// jsonIsZeroNumber reports whether j is the permissive "0 decodes to the
// empty/absent value" sentinel used by strings, bytes and lists (§4.2-4.4).
func jsonIsZeroNumber(j any) bool {
	switch jt := j.(type) {
	case jsonNumber:
		return jt.String() == "0"
	case float64:
		return jt == 0
	}
	return false
}
