package core

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestTimeStoreRoundTrip(t *testing.T) {
	type doc struct {
		Stamp Time `bson:"stamp"`
	}

	now := Now()
	raw, err := bson.Marshal(doc{Stamp: now})
	if err != nil {
		t.Fatal(err)
	}

	// the timestamp is stored as a string, not a native datetime
	var stored struct {
		Stamp string `bson:"stamp"`
	}
	if err := bson.Unmarshal(raw, &stored); err != nil {
		t.Fatal(err)
	}
	if _, err := time.Parse(time.RFC3339Nano, stored.Stamp); err != nil {
		t.Fatal("stored value is not RFC 3339:", stored.Stamp)
	}

	var decoded doc
	if err := bson.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if !decoded.Stamp.Equal(now.Time) {
		t.Fatal("timestamp mangled:", decoded.Stamp, "expected:", now)
	}
}

// the stored strings have fixed-width fractional seconds, so sorting
// them as strings sorts them as instants. The event log relies on this.
func TestTimeStringOrder(t *testing.T) {
	type doc struct {
		Stamp Time `bson:"stamp"`
	}

	base := time.Date(2026, 8, 31, 12, 0, 5, 0, time.UTC)
	instants := []time.Time{
		base,
		base.Add(100 * time.Millisecond),
		base.Add(time.Second),
		base.Add(time.Second + time.Nanosecond),
	}

	previous := ""
	for _, instant := range instants {
		raw, err := bson.Marshal(doc{Stamp: Time{instant}})
		if err != nil {
			t.Fatal(err)
		}
		var stored struct {
			Stamp string `bson:"stamp"`
		}
		if err := bson.Unmarshal(raw, &stored); err != nil {
			t.Fatal(err)
		}
		if stored.Stamp <= previous {
			t.Fatal("string order breaks time order:", previous, "vs", stored.Stamp)
		}
		previous = stored.Stamp
	}
}

func TestTimeDecodesNativeDatetime(t *testing.T) {
	instant := time.Date(2026, 8, 31, 12, 0, 5, 0, time.UTC)
	raw, err := bson.Marshal(bson.M{"stamp": instant})
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Stamp Time `bson:"stamp"`
	}
	if err := bson.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if !decoded.Stamp.Equal(instant) {
		t.Fatal("datetime mangled:", decoded.Stamp)
	}
}
