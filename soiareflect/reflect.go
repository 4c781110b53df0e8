package soiareflect

import (
	"bytes"
	"encoding/json"
	"fmt"

	soia "github.com/gepheum/soia-go"
)

var primitiveKindByName = map[string]soia.PrimitiveKind{
	soia.PrimitiveBool.String():      soia.PrimitiveBool,
	soia.PrimitiveInt32.String():     soia.PrimitiveInt32,
	soia.PrimitiveInt64.String():     soia.PrimitiveInt64,
	soia.PrimitiveUint64.String():    soia.PrimitiveUint64,
	soia.PrimitiveFloat32.String():   soia.PrimitiveFloat32,
	soia.PrimitiveFloat64.String():   soia.PrimitiveFloat64,
	soia.PrimitiveTimestamp.String(): soia.PrimitiveTimestamp,
	soia.PrimitiveString.String():    soia.PrimitiveString,
	soia.PrimitiveBytes.String():     soia.PrimitiveBytes,
}

// typeJSON is the self-describing wire shape of a soia.TypeSignature.
type typeJSON struct {
	Kind     string          `json:"kind"`
	Value    json.RawMessage `json:"value,omitempty"`
	KeyChain string          `json:"key_chain,omitempty"`
}

type fieldJSON struct {
	Name   string   `json:"name"`
	Number int32    `json:"number"`
	Type   typeJSON `json:"type"`
}

type variantJSON struct {
	Name   string    `json:"name"`
	Number int32     `json:"number"`
	Type   *typeJSON `json:"type,omitempty"`
}

type recordJSON struct {
	Kind           string        `json:"kind"` // "struct" | "enum"
	ModulePath     string        `json:"module_path"`
	QualifiedName  string        `json:"qualified_name"`
	Fields         []fieldJSON   `json:"fields,omitempty"`
	RemovedFields  []int32       `json:"removed_fields,omitempty"`
	Variants       []variantJSON `json:"variants,omitempty"`
	RemovedNumbers []int32       `json:"removed_numbers,omitempty"`
}

// envelope is the top-level self-describing JSON document: a shared records
// table plus the entry-point type that was described.
type envelope struct {
	Records map[string]recordJSON `json:"records"`
	Type    typeJSON              `json:"type"`
}

// Describe produces the self-describing JSON form of sig, including every
// record sig transitively references.
func Describe(sig soia.TypeSignature) ([]byte, error) {
	records := map[string]recordJSON{}
	tj, err := describeType(sig, records)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Records: records, Type: tj})
}

// DescribeSerializer is a convenience wrapper around Describe for the
// common case of describing a Serializer's own type.
func DescribeSerializer[T any](s soia.Serializer[T]) ([]byte, error) {
	return Describe(soia.Signature(s))
}

func describeType(sig soia.TypeSignature, records map[string]recordJSON) (typeJSON, error) {
	switch sig.Kind {
	case soia.KindPrimitive:
		v, err := json.Marshal(sig.Primitive.String())
		if err != nil {
			return typeJSON{}, err
		}
		return typeJSON{Kind: "primitive", Value: v}, nil
	case soia.KindOptional:
		inner, err := describeType(*sig.Item, records)
		if err != nil {
			return typeJSON{}, err
		}
		v, err := json.Marshal(inner)
		if err != nil {
			return typeJSON{}, err
		}
		return typeJSON{Kind: "optional", Value: v}, nil
	case soia.KindArray:
		inner, err := describeType(*sig.Item, records)
		if err != nil {
			return typeJSON{}, err
		}
		v, err := json.Marshal(inner)
		if err != nil {
			return typeJSON{}, err
		}
		return typeJSON{Kind: "array", Value: v, KeyChain: sig.KeyChain}, nil
	case soia.KindRecord:
		id := sig.Record.ID()
		if _, seen := records[id]; !seen {
			// Insert a placeholder before recursing into the record's own
			// fields/variants, so a record that references itself (directly
			// or through a cycle of other records) terminates instead of
			// looping forever.
			records[id] = recordJSON{}
			rj, err := describeRecord(sig.Record, records)
			if err != nil {
				return typeJSON{}, err
			}
			records[id] = rj
		}
		v, err := json.Marshal(id)
		if err != nil {
			return typeJSON{}, err
		}
		return typeJSON{Kind: "record", Value: v}, nil
	default:
		return typeJSON{}, fmt.Errorf("soiareflect: unknown type signature kind %d", sig.Kind)
	}
}

func describeRecord(d *soia.RecordDescriptor, records map[string]recordJSON) (recordJSON, error) {
	rj := recordJSON{
		ModulePath:    d.ModulePath,
		QualifiedName: d.QualifiedName,
	}
	switch d.Kind {
	case soia.RecordStruct:
		rj.Kind = "struct"
		rj.RemovedFields = d.RemovedFields
		for _, f := range d.Fields {
			tj, err := describeType(f.Type, records)
			if err != nil {
				return recordJSON{}, err
			}
			rj.Fields = append(rj.Fields, fieldJSON{Name: f.Name, Number: f.Number, Type: tj})
		}
	case soia.RecordEnum:
		rj.Kind = "enum"
		rj.RemovedNumbers = d.RemovedNumbers
		for _, vr := range d.Variants {
			vj := variantJSON{Name: vr.Name, Number: vr.Number}
			if vr.Type != nil {
				tj, err := describeType(*vr.Type, records)
				if err != nil {
					return recordJSON{}, err
				}
				vj.Type = &tj
			}
			rj.Variants = append(rj.Variants, vj)
		}
	default:
		return recordJSON{}, fmt.Errorf("soiareflect: unknown record kind %d for %s", d.Kind, d.ID())
	}
	return rj, nil
}

// Parse reparses a document produced by Describe, reconstructing the
// TypeSignature tree (including every record it references) without
// relying on any types registered in the current process.
func Parse(data []byte) (soia.TypeSignature, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var env envelope
	if err := dec.Decode(&env); err != nil {
		return soia.TypeSignature{}, fmt.Errorf("soiareflect: %w", err)
	}

	// Pass one: allocate every record up front, with empty field/variant
	// lists, so pass two can resolve a reference to a record whose own
	// body hasn't been filled in yet (the cyclic case).
	descs := make(map[string]*soia.RecordDescriptor, len(env.Records))
	for id, rj := range env.Records {
		kind, err := recordKindFromJSON(rj.Kind)
		if err != nil {
			return soia.TypeSignature{}, fmt.Errorf("soiareflect: record %q: %w", id, err)
		}
		descs[id] = &soia.RecordDescriptor{
			Kind:          kind,
			ModulePath:    rj.ModulePath,
			QualifiedName: rj.QualifiedName,
		}
	}

	// Pass two: fill in fields/variants, resolving nested record references
	// against descs rather than re-describing them.
	for id, rj := range env.Records {
		d := descs[id]
		switch d.Kind {
		case soia.RecordStruct:
			d.RemovedFields = rj.RemovedFields
			for _, fj := range rj.Fields {
				sig, err := parseType(fj.Type, descs)
				if err != nil {
					return soia.TypeSignature{}, fmt.Errorf("soiareflect: record %q field %q: %w", id, fj.Name, err)
				}
				d.Fields = append(d.Fields, &soia.FieldDescriptor{Name: fj.Name, Number: fj.Number, Type: sig})
			}
		case soia.RecordEnum:
			d.RemovedNumbers = rj.RemovedNumbers
			for _, vj := range rj.Variants {
				vd := &soia.VariantDescriptor{Name: vj.Name, Number: vj.Number}
				if vj.Type != nil {
					sig, err := parseType(*vj.Type, descs)
					if err != nil {
						return soia.TypeSignature{}, fmt.Errorf("soiareflect: record %q variant %q: %w", id, vj.Name, err)
					}
					vd.Type = &sig
				}
				d.Variants = append(d.Variants, vd)
			}
		}
	}

	return parseType(env.Type, descs)
}

func parseType(tj typeJSON, descs map[string]*soia.RecordDescriptor) (soia.TypeSignature, error) {
	switch tj.Kind {
	case "primitive":
		var name string
		if err := json.Unmarshal(tj.Value, &name); err != nil {
			return soia.TypeSignature{}, err
		}
		pk, ok := primitiveKindByName[name]
		if !ok {
			return soia.TypeSignature{}, fmt.Errorf("soiareflect: unknown primitive kind %q", name)
		}
		return soia.TypeSignature{Kind: soia.KindPrimitive, Primitive: pk}, nil
	case "optional":
		var inner typeJSON
		if err := json.Unmarshal(tj.Value, &inner); err != nil {
			return soia.TypeSignature{}, err
		}
		item, err := parseType(inner, descs)
		if err != nil {
			return soia.TypeSignature{}, err
		}
		return soia.TypeSignature{Kind: soia.KindOptional, Item: &item}, nil
	case "array":
		var inner typeJSON
		if err := json.Unmarshal(tj.Value, &inner); err != nil {
			return soia.TypeSignature{}, err
		}
		item, err := parseType(inner, descs)
		if err != nil {
			return soia.TypeSignature{}, err
		}
		return soia.TypeSignature{Kind: soia.KindArray, Item: &item, KeyChain: tj.KeyChain}, nil
	case "record":
		var id string
		if err := json.Unmarshal(tj.Value, &id); err != nil {
			return soia.TypeSignature{}, err
		}
		d, ok := descs[id]
		if !ok {
			return soia.TypeSignature{}, fmt.Errorf("soiareflect: record %q not present in records table", id)
		}
		return soia.TypeSignature{Kind: soia.KindRecord, Record: d}, nil
	default:
		return soia.TypeSignature{}, fmt.Errorf("soiareflect: unknown type kind %q", tj.Kind)
	}
}

func recordKindFromJSON(kind string) (soia.RecordKind, error) {
	switch kind {
	case "struct":
		return soia.RecordStruct, nil
	case "enum":
		return soia.RecordEnum, nil
	default:
		return 0, fmt.Errorf("unknown record kind %q", kind)
	}
}
