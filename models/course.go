package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Course is a document in the courses collection. Attributes the schema does
// not know about are kept in Extra and written back verbatim.
type Course struct {
	ID               bson.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title            string        `json:"title" bson:"title" validate:"required"`
	CourseName       string        `json:"course_name,omitempty" bson:"course_name,omitempty"`
	Price            Price         `json:"price" bson:"price" validate:"gte=0"`
	Category         Text          `json:"category,omitempty" bson:"category,omitempty"`
	Description      Text          `json:"description,omitempty" bson:"description,omitempty"`
	Duration         Text          `json:"duration,omitempty" bson:"duration,omitempty"`
	Thumbnail        string        `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
	Image            string        `json:"image,omitempty" bson:"image,omitempty"`
	IsFeatured       bool          `json:"isFeatured" bson:"isFeatured"`
	StudentsEnrolled int64         `json:"studentsEnrolled" bson:"studentsEnrolled" validate:"gte=0"`
	Instructor       *Instructor   `json:"instructor,omitempty" bson:"instructor,omitempty"`
	LastUpdated      string        `json:"lastUpdated,omitempty" bson:"lastUpdated,omitempty"`

	Extra map[string]interface{} `json:"-" bson:",inline"`
}

// Instructor is embedded data, not a reference to a user. An unrated course
// stores no rating so it does not pull the instructor's average down.
type Instructor struct {
	Name   string   `json:"name" bson:"name"`
	Email  string   `json:"email" bson:"email" validate:"omitempty,email"`
	Bio    string   `json:"bio,omitempty" bson:"bio,omitempty"`
	Avatar string   `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Rating *float64 `json:"rating,omitempty" bson:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
}

var courseFields = map[string]struct{}{
	"_id": {}, "title": {}, "course_name": {}, "price": {}, "category": {},
	"description": {}, "duration": {}, "thumbnail": {}, "image": {},
	"isFeatured": {}, "studentsEnrolled": {}, "instructor": {}, "lastUpdated": {},
}

type courseFieldsOnly Course

func (c Course) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(courseFieldsOnly(c))
	if err != nil || len(c.Extra) == 0 {
		return base, err
	}
	merged := make(map[string]json.RawMessage, len(c.Extra)+len(courseFields))
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range c.Extra {
		if _, known := courseFields[k]; known {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal course attribute %q: %w", k, err)
		}
		merged[k] = raw
	}
	return json.Marshal(merged)
}

// UnmarshalJSON never reads _id: ids are assigned by the store.
func (c *Course) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	delete(raw, "_id")

	known := make(map[string]json.RawMessage, len(raw))
	extra := make(map[string]interface{})
	for k, v := range raw {
		if _, ok := courseFields[k]; ok {
			known[k] = v
			continue
		}
		val, err := decodeAttribute(v)
		if err != nil {
			return fmt.Errorf("course attribute %q: %w", k, err)
		}
		extra[k] = val
	}

	knownJSON, err := json.Marshal(known)
	if err != nil {
		return err
	}
	var fields courseFieldsOnly
	if err := json.Unmarshal(knownJSON, &fields); err != nil {
		return err
	}
	fields.Extra = nil
	if len(extra) > 0 {
		fields.Extra = extra
	}
	*c = Course(fields)
	return nil
}

// decodeAttribute keeps integral numbers as int64 so they are stored as BSON
// integers instead of doubles.
func decodeAttribute(raw json.RawMessage) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return normalizeNumbers(v), nil
}

func normalizeNumbers(v interface{}) interface{} {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]interface{}:
		for k, e := range t {
			t[k] = normalizeNumbers(e)
		}
		return t
	case []interface{}:
		for i, e := range t {
			t[i] = normalizeNumbers(e)
		}
		return t
	}
	return v
}

// Price accepts a JSON number or a numeric string and always holds a float.
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("price: %w", err)
		}
		s = strings.TrimSpace(unquoted)
	}
	f, err := ParsePrice(s)
	if err != nil {
		return err
	}
	*p = Price(f)
	return nil
}

// UnmarshalBSONValue reads prices written by older clients, which stored
// numeric strings and integers as well as doubles.
func (p *Price) UnmarshalBSONValue(typ byte, data []byte) error {
	rv := bson.RawValue{Type: bson.Type(typ), Value: data}
	var (
		f  float64
		ok bool
	)
	switch rv.Type {
	case bson.TypeNull, bson.TypeUndefined:
		*p = 0
		return nil
	case bson.TypeDouble:
		f, ok = rv.DoubleOK()
	case bson.TypeInt32:
		var i int32
		i, ok = rv.Int32OK()
		f = float64(i)
	case bson.TypeInt64:
		var i int64
		i, ok = rv.Int64OK()
		f = float64(i)
	case bson.TypeDecimal128:
		var d bson.Decimal128
		if d, ok = rv.Decimal128OK(); ok {
			parsed, err := ParsePrice(d.String())
			if err != nil {
				return err
			}
			f = parsed
		}
	case bson.TypeString:
		var s string
		if s, ok = rv.StringValueOK(); ok {
			parsed, err := ParsePrice(strings.TrimSpace(s))
			if err != nil {
				return err
			}
			f = parsed
		}
	default:
		return fmt.Errorf("cannot decode BSON %s into a price", rv.Type)
	}
	if !ok {
		return fmt.Errorf("malformed BSON %s price", rv.Type)
	}
	*p = Price(f)
	return nil
}

func ParsePrice(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("price %q is not a number", s)
	}
	return f, nil
}

// Text is a free-text attribute that some documents hold as a number, such as
// a duration stored as 10 instead of "10".
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch {
	case s == "null":
		return nil
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*t = Text(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected a string or number, got %s", s)
	}
	*t = Text(n.String())
	return nil
}

func (t *Text) UnmarshalBSONValue(typ byte, data []byte) error {
	rv := bson.RawValue{Type: bson.Type(typ), Value: data}
	var ok bool
	switch rv.Type {
	case bson.TypeNull, bson.TypeUndefined:
		*t = ""
		return nil
	case bson.TypeString:
		var s string
		s, ok = rv.StringValueOK()
		*t = Text(s)
	case bson.TypeInt32:
		var i int32
		i, ok = rv.Int32OK()
		*t = Text(strconv.FormatInt(int64(i), 10))
	case bson.TypeInt64:
		var i int64
		i, ok = rv.Int64OK()
		*t = Text(strconv.FormatInt(i, 10))
	case bson.TypeDouble:
		var f float64
		f, ok = rv.DoubleOK()
		*t = Text(strconv.FormatFloat(f, 'f', -1, 64))
	default:
		return fmt.Errorf("cannot decode BSON %s into text", rv.Type)
	}
	if !ok {
		return fmt.Errorf("malformed BSON %s text", rv.Type)
	}
	return nil
}
