package soiareflect_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	soia "github.com/gepheum/soia-go"
	"github.com/gepheum/soia-go/soiareflect"
	"github.com/gepheum/soia-go/testtypes"
)

// TestDescribeIsDeterministic exercises the cycle-breaking placeholder that
// describeType inserts before describing a record: two independent Describe
// calls over the same record graph (Group -> User -> Color -> RGB) must
// produce envelopes that are equal once decoded, since callers may use the
// JSON for caching or diffing.
func TestDescribeIsDeterministic(t *testing.T) {
	first, err := soiareflect.DescribeSerializer(testtypes.GroupSerializer)
	require.NoError(t, err)
	second, err := soiareflect.DescribeSerializer(testtypes.GroupSerializer)
	require.NoError(t, err)

	var firstTree, secondTree any
	require.NoError(t, json.Unmarshal(first, &firstTree))
	require.NoError(t, json.Unmarshal(second, &secondTree))
	if diff := cmp.Diff(firstTree, secondTree); diff != "" {
		t.Fatalf("Describe is not deterministic (-first +second):\n%s", diff)
	}
}

func TestDescribePrimitive(t *testing.T) {
	data, err := soiareflect.DescribeSerializer(soia.Int32())
	require.NoError(t, err)

	sig, err := soiareflect.Parse(data)
	require.NoError(t, err)
	require.Equal(t, soia.KindPrimitive, sig.Kind)
	require.Equal(t, soia.PrimitiveInt32, sig.Primitive)
}

func TestDescribeStructRoundTrip(t *testing.T) {
	data, err := soiareflect.DescribeSerializer(testtypes.PointSerializer)
	require.NoError(t, err)

	sig, err := soiareflect.Parse(data)
	require.NoError(t, err)
	require.Equal(t, soia.KindRecord, sig.Kind)
	require.Equal(t, soia.RecordStruct, sig.Record.Kind)
	require.Equal(t, "Point", sig.Record.QualifiedName)
	require.Len(t, sig.Record.Fields, 2)

	byName := map[string]*soia.FieldDescriptor{}
	for _, f := range sig.Record.Fields {
		byName[f.Name] = f
	}
	require.Contains(t, byName, "x")
	require.Contains(t, byName, "y")
	require.Equal(t, soia.PrimitiveInt32, byName["x"].Type.Primitive)
}

func TestDescribeEnumWithValueVariant(t *testing.T) {
	data, err := soiareflect.DescribeSerializer(testtypes.ColorSerializer)
	require.NoError(t, err)

	sig, err := soiareflect.Parse(data)
	require.NoError(t, err)
	require.Equal(t, soia.RecordEnum, sig.Record.Kind)

	var custom *soia.VariantDescriptor
	for _, v := range sig.Record.Variants {
		if v.Name == "custom" {
			custom = v
		}
	}
	require.NotNil(t, custom)
	require.False(t, custom.IsConstant())
	require.Equal(t, soia.KindRecord, custom.Type.Kind)
	require.Equal(t, "RGB", custom.Type.Record.QualifiedName)
}

// TestDescribeNestedRecordsShareTableEntry exercises §4.7's "records" table
// sharing: Group references User which references Color (and RGB), and Parse
// must resolve each of those references through the shared table, so that
// Group's members field leads to User and User's favorite_color to Color.
func TestDescribeNestedRecordsShareTableEntry(t *testing.T) {
	data, err := soiareflect.DescribeSerializer(testtypes.GroupSerializer)
	require.NoError(t, err)

	sig, err := soiareflect.Parse(data)
	require.NoError(t, err)
	require.Equal(t, "Group", sig.Record.QualifiedName)

	var membersField *soia.FieldDescriptor
	for _, f := range sig.Record.Fields {
		if f.Name == "members" {
			membersField = f
		}
	}
	require.NotNil(t, membersField)
	require.Equal(t, soia.KindArray, membersField.Type.Kind)
	require.Equal(t, soia.KindRecord, membersField.Type.Item.Kind)
	require.Equal(t, "User", membersField.Type.Item.Record.QualifiedName)

	var colorField *soia.FieldDescriptor
	for _, f := range membersField.Type.Item.Record.Fields {
		if f.Name == "favorite_color" {
			colorField = f
		}
	}
	require.NotNil(t, colorField)
	require.Equal(t, "Color", colorField.Type.Record.QualifiedName)
}
