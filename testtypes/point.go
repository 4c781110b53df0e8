// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package testtypes holds hand-written struct and enum types standing in
// for what a .soia code generator would emit: each type pairs a plain Go
// struct (or a soia.Enum alias) with a package-level Serializer built once
// via soia.NewStruct/soia.NewEnum.
package testtypes

import "github.com/gepheum/soia-go"

// Point is the simplest possible record: two required int32 fields, no
// optional, list or nested-record field to get in the way of exercising the
// slot-vector default-elision rule directly.
type Point struct {
	X int32
	Y int32
}

var PointSerializer = buildPointSerializer()

func buildPointSerializer() soia.Serializer[Point] {
	b := soia.NewStruct[Point]("testtypes/point.soia", "Point")
	soia.AddField(b, 0, "x", soia.Int32(), func(p *Point) int32 { return p.X }, func(p *Point, v int32) { p.X = v })
	soia.AddField(b, 1, "y", soia.Int32(), func(p *Point) int32 { return p.Y }, func(p *Point, v int32) { p.Y = v })
	return b.Build()
}
