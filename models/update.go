package models

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// CourseUpdate is the PATCH body. Only the members present are written;
// everything else on the document is left alone.
type CourseUpdate struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	CourseName  *string `json:"course_name" validate:"omitempty,min=1"`
	Price       *Price  `json:"price" validate:"omitempty,gte=0"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Duration    *Text   `json:"duration"`
	Thumbnail   *string `json:"thumbnail"`
	Image       *string `json:"image"`
	IsFeatured  *bool   `json:"isFeatured"`
}

// SetDocument builds the $set document. title/course_name and
// thumbnail/image are always written as pairs; title and thumbnail win when
// both names of a pair are sent.
func (u CourseUpdate) SetDocument(lastUpdated string) bson.M {
	set := bson.M{"lastUpdated": lastUpdated}

	if title := firstNonNil(u.Title, u.CourseName); title != nil {
		set["title"] = *title
		set["course_name"] = *title
	}
	if u.Price != nil {
		set["price"] = float64(*u.Price)
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Duration != nil {
		set["duration"] = string(*u.Duration)
	}
	if img := firstNonNil(u.Thumbnail, u.Image); img != nil {
		set["thumbnail"] = *img
		set["image"] = *img
	}
	if u.IsFeatured != nil {
		set["isFeatured"] = *u.IsFeatured
	}
	return set
}

func firstNonNil(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
