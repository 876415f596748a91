// internal/app/system/paging/paging.go
package paging

import (
	"strconv"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PageSize is the number of rows in a paged roster list.
const PageSize = 10

// LimitPlusOne returns PageSize+1 as int64 for look-ahead pagination
// (fetch one extra document to detect hasNext).
func LimitPlusOne() int64 { return int64(PageSize + 1) }

// TrimPage trims a slice fetched with LimitPlusOne to PageSize and
// reports whether a further page exists.
func TrimPage[T any](rows *[]T) (hasNext bool) {
	if len(*rows) > PageSize {
		*rows = (*rows)[:PageSize]
		return true
	}
	return false
}

// TimeCursor is a decoded keyset position on a time field plus _id.
type TimeCursor struct {
	At time.Time
	ID primitive.ObjectID
}

// EncodeTimeCursor produces an opaque cursor for the row at (at, id).
// The time is carried as Unix nanoseconds in the waffle cursor key.
func EncodeTimeCursor(at time.Time, id primitive.ObjectID) string {
	return wafflemongo.EncodeCursor(strconv.FormatInt(at.UnixNano(), 10), id)
}

// DecodeTimeCursor reverses EncodeTimeCursor. Malformed input yields ok=false.
func DecodeTimeCursor(s string) (TimeCursor, bool) {
	if s == "" {
		return TimeCursor{}, false
	}
	c, ok := wafflemongo.DecodeCursor(s)
	if !ok {
		return TimeCursor{}, false
	}
	ns, err := strconv.ParseInt(c.CI, 10, 64)
	if err != nil {
		return TimeCursor{}, false
	}
	return TimeCursor{At: time.Unix(0, ns).UTC(), ID: c.ID}, true
}

// AfterDesc returns the filter selecting rows strictly after c in
// (field desc, _id desc) order.
//
// Mongo stores dates with millisecond precision, so the cursor time is
// truncated to match what was read back.
func AfterDesc(field string, c TimeCursor) bson.M {
	at := c.At.Truncate(time.Millisecond)
	return bson.M{"$or": []bson.M{
		{field: bson.M{"$lt": at}},
		{field: at, "_id": bson.M{"$lt": c.ID}},
	}}
}

// DescFind returns find options sorted (field desc, _id desc) with the
// look-ahead limit.
func DescFind(field string) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: field, Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(LimitPlusOne())
}

// NextCursor builds the cursor for the page after rows, or "" when there
// is none.
func NextCursor[T any](rows []T, hasNext bool, atFn func(T) time.Time, idFn func(T) primitive.ObjectID) string {
	if !hasNext || len(rows) == 0 {
		return ""
	}
	last := rows[len(rows)-1]
	return EncodeTimeCursor(atFn(last), idFn(last))
}
