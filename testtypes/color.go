// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package testtypes

import "github.com/gepheum/soia-go"

// Color is a defined alias of soia.Enum: the variant-dispatch machinery
// lives entirely in the soia package, and a named enum type is just a
// handle onto it plus a set of typed constructor functions below.
type Color = soia.Enum

const (
	colorRed int32 = iota + 1
	colorGreen
	colorBlue
	colorCustom
)

// RGB is the payload of Color's one value variant.
type RGB struct {
	R int32
	G int32
	B int32
}

var RGBSerializer = buildRGBSerializer()

func buildRGBSerializer() soia.Serializer[RGB] {
	b := soia.NewStruct[RGB]("testtypes/color.soia", "RGB")
	soia.AddField(b, 0, "r", soia.Int32(), func(c *RGB) int32 { return c.R }, func(c *RGB, v int32) { c.R = v })
	soia.AddField(b, 1, "g", soia.Int32(), func(c *RGB) int32 { return c.G }, func(c *RGB, v int32) { c.G = v })
	soia.AddField(b, 2, "b", soia.Int32(), func(c *RGB) int32 { return c.B }, func(c *RGB, v int32) { c.B = v })
	return b.Build()
}

var ColorSerializer = buildColorSerializer()

func buildColorSerializer() soia.Serializer[Color] {
	b := soia.NewEnum("testtypes/color.soia", "Color")
	soia.AddConstant(b, colorRed, "red")
	soia.AddConstant(b, colorGreen, "green")
	soia.AddConstant(b, colorBlue, "blue")
	soia.AddValue(b, colorCustom, "custom", RGBSerializer)
	return b.Build()
}

// ColorUnknown is the reserved default variant (number 0, no payload).
func ColorUnknown() Color { return Color{} }

func ColorRed() Color   { return soia.NewConstant(colorRed) }
func ColorGreen() Color { return soia.NewConstant(colorGreen) }
func ColorBlue() Color  { return soia.NewConstant(colorBlue) }

// ColorCustom returns the value variant carrying an arbitrary RGB triple.
func ColorCustom(rgb RGB) Color { return soia.NewValue(colorCustom, rgb) }
