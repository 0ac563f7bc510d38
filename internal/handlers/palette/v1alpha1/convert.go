package v1alpha1

import (
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-palette/internal/errors"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
)

// toStruct encodes v through its JSON form so entity json tags name the
// fields
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.ToGRPCError(errors.Wrap(err, "failed to encode response"))
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, errors.ToGRPCError(errors.Wrap(err, "failed to encode response"))
	}
	return out, nil
}

func field(req *structpb.Struct, name string) *structpb.Value {
	if req == nil {
		return nil
	}
	return req.GetFields()[name]
}

func stringField(req *structpb.Struct, name string) string {
	return field(req, name).GetStringValue()
}

func boolField(req *structpb.Struct, name string) bool {
	return field(req, name).GetBoolValue()
}

func numberField(req *structpb.Struct, name string) int {
	return int(field(req, name).GetNumberValue())
}

// recordField reads an optional object field. A missing or null field
// yields nil.
func recordField(req *structpb.Struct, name string) (*value.Record, error) {
	v := field(req, name)
	if v == nil {
		return nil, nil
	}
	if _, ok := v.GetKind().(*structpb.Value_NullValue); ok {
		return nil, nil
	}
	s := v.GetStructValue()
	if s == nil {
		return nil, errors.InvalidArgumentf("%s must be an object", name)
	}
	return value.Of(s.AsMap()).Record(), nil
}
