// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package testtypes

import "github.com/gepheum/soia-go"

// User exercises every shape a struct field can take: a plain string, an
// optional primitive, a list, a nested record (enum), and the opaque
// Unrecognized carrier a forward-compatible struct uses to preserve slots
// it does not declare.
type User struct {
	Name          string
	Email         *string
	Tags          []string
	FavoriteColor Color

	// Unrecognized holds data from struct slots this build doesn't
	// declare. Exported (rather than hidden behind accessor methods) so
	// soia.Freeze/soia.ToBuilder's reflect-based deep copy can see it like
	// any other field.
	Unrecognized *soia.Unrecognized
}

var UserSerializer = buildUserSerializer()

func buildUserSerializer() soia.Serializer[User] {
	b := soia.NewStruct[User]("testtypes/user.soia", "User")
	soia.AddField(b, 0, "name", soia.String(),
		func(u *User) string { return u.Name },
		func(u *User, v string) { u.Name = v })
	soia.AddField(b, 1, "email", soia.Optional(soia.String()),
		func(u *User) *string { return u.Email },
		func(u *User, v *string) { u.Email = v })
	soia.AddField(b, 2, "tags", soia.List(soia.String()),
		func(u *User) []string { return u.Tags },
		func(u *User, v []string) { u.Tags = v })
	soia.AddField(b, 3, "favorite_color", ColorSerializer,
		func(u *User) Color { return u.FavoriteColor },
		func(u *User, v Color) { u.FavoriteColor = v })
	soia.UnrecognizedField(b,
		func(u *User) *soia.Unrecognized { return u.Unrecognized },
		func(u *User, v *soia.Unrecognized) { u.Unrecognized = v })
	return b.Build()
}
