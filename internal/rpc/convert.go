package rpc

import (
	"github.com/alfagnish/users-api/internal/users"
	"google.golang.org/protobuf/types/known/structpb"
)

func userToStruct(u users.User) *structpb.Struct {
	fields := map[string]*structpb.Value{
		"id":    structpb.NewNumberValue(float64(u.ID)),
		"name":  structpb.NewStringValue(u.Name),
		"email": structpb.NewStringValue(u.Email),
	}
	if u.Tags != nil {
		tags := make([]*structpb.Value, len(u.Tags))
		for i, t := range u.Tags {
			tags[i] = structpb.NewStringValue(t)
		}
		fields["tags"] = structpb.NewListValue(&structpb.ListValue{Values: tags})
	}
	return &structpb.Struct{Fields: fields}
}

func structToUser(s *structpb.Struct) users.User {
	f := s.GetFields()
	u := users.User{
		Name:  f["name"].GetStringValue(),
		Email: f["email"].GetStringValue(),
	}
	u.ID, _ = users.IDFromFloat(f["id"].GetNumberValue())
	if list := f["tags"].GetListValue(); list != nil {
		u.Tags = make([]string, 0, len(list.GetValues()))
		for _, v := range list.GetValues() {
			u.Tags = append(u.Tags, v.GetStringValue())
		}
	}
	return u
}

// idField extracts the record id from a request. present is false when
// the request has no id at all; ok is false when it has one that can
// never match a record.
func idField(s *structpb.Struct) (id int, present, ok bool) {
	v, present := s.GetFields()["id"]
	if !present {
		return 0, false, false
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		id, ok = users.IDFromFloat(k.NumberValue)
	case *structpb.Value_StringValue:
		id, ok = users.ParseID(k.StringValue)
	}
	return id, true, ok
}

func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}
