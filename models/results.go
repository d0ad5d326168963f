package models

// InstructorSummary is one row of the top-instructors aggregate. Instructors
// are grouped by display name, so two people sharing a name are merged.
type InstructorSummary struct {
	Name        string  `json:"name" bson:"name"`
	Bio         string  `json:"bio,omitempty" bson:"bio,omitempty"`
	Avatar      string  `json:"avatar,omitempty" bson:"avatar,omitempty"`
	AvgRating   float64 `json:"avgRating" bson:"avgRating"`
	CourseCount int64   `json:"courseCount" bson:"courseCount"`
}

type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	UpsertedCount int64 `json:"upsertedCount"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}
