package utils

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const dateStampLayout = "2006-01-02"

func ParseCourseID(hex string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(hex)
	if err != nil {
		return bson.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidIdentifier, hex)
	}
	return id, nil
}

// DateStamp formats t as the UTC calendar date used for lastUpdated.
func DateStamp(t time.Time) string {
	return t.UTC().Format(dateStampLayout)
}
