// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package testtypes

import "github.com/gepheum/soia-go"

// Group exercises a keyed list field: Members is looked up by User.Name,
// mirroring how a .soia schema names a key-extractor expression on a list
// field (`members: [User]{name}`).
type Group struct {
	Title   string
	Members soia.KeyedSlice[User, string]
}

var GroupSerializer = buildGroupSerializer()

func buildGroupSerializer() soia.Serializer[Group] {
	memberSerializer := soia.KeyedList(UserSerializer, "name", func(u User) string { return u.Name })
	b := soia.NewStruct[Group]("testtypes/group.soia", "Group")
	soia.AddField(b, 0, "title", soia.String(),
		func(g *Group) string { return g.Title },
		func(g *Group, v string) { g.Title = v })
	soia.AddField(b, 1, "members", memberSerializer,
		func(g *Group) soia.KeyedSlice[User, string] { return g.Members },
		func(g *Group, v soia.KeyedSlice[User, string]) { g.Members = v })
	return b.Build()
}
