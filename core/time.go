package core

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Time is a timestamp which is persisted as an RFC 3339 string, both in
// the store and on the wire. Parsing a stored value yields the original
// instant at the stored precision.
//
// The embedded time.Time provides the JSON representation.
type Time struct {
	time.Time
}

// storedTimeFormat is RFC 3339 with fixed-width fractional seconds, so
// that the stored strings sort lexicographically in event order.
const storedTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Now returns the current UTC time as a Time.
func Now() Time {
	return Time{time.Now().UTC()}
}

// MarshalBSONValue stores the timestamp as an RFC 3339 string.
func (t Time) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(t.Time.Format(storedTimeFormat))
}

// UnmarshalBSONValue accepts RFC 3339 strings as written by this
// backend, and native datetimes for documents inserted by other tools.
func (t *Time) UnmarshalBSONValue(bt bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: bt, Value: data}
	switch bt {
	case bsontype.String:
		parsed, err := time.Parse(time.RFC3339Nano, raw.StringValue())
		if err != nil {
			return fmt.Errorf("cannot parse timestamp %q: %w", raw.StringValue(), err)
		}
		t.Time = parsed
		return nil
	case bsontype.DateTime:
		t.Time = raw.Time().UTC()
		return nil
	case bsontype.Null, bsontype.Undefined:
		t.Time = time.Time{}
		return nil
	}
	return fmt.Errorf("cannot decode bson type %s into a timestamp", bt)
}
