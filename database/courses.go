package database

import (
	"context"
	"errors"
	"fmt"

	"coursehub/logger"
	"coursehub/models"
	"coursehub/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const CoursesCollection = "courses"

type CourseRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
	log    *logger.Logger
}

func NewCourseRepository(client *mongo.Client, dbName string, log *logger.Logger) *CourseRepository {
	// Unknown attributes land in Course.Extra; decode their sub-documents as
	// maps so they serialize back to JSON objects.
	collOpts := options.Collection().SetBSONOptions(&options.BSONOptions{
		DefaultDocumentM:       true,
		AllowTruncatingDoubles: true,
	})
	return &CourseRepository{
		client: client,
		coll:   client.Database(dbName).Collection(CoursesCollection, collOpts),
		log:    log.With("collection", CoursesCollection),
	}
}

func (r *CourseRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	return r.find(ctx, bson.D{})
}

// ListPopular sorts by enrollment, breaking ties by _id so equal counts come
// back in insertion order.
func (r *CourseRepository) ListPopular(ctx context.Context, limit int64) ([]models.Course, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "studentsEnrolled", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(limit)
	return r.find(ctx, bson.D{}, findOptions)
}

func (r *CourseRepository) ListByInstructorEmail(ctx context.Context, email string) ([]models.Course, error) {
	return r.find(ctx, bson.D{{Key: "instructor.email", Value: email}})
}

func (r *CourseRepository) find(ctx context.Context, filter bson.D, opts ...options.Lister[options.FindOptions]) ([]models.Course, error) {
	cursor, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find courses: %w", err)
	}
	defer cursor.Close(ctx)

	// One malformed document is skipped rather than failing the whole list.
	courses := []models.Course{}
	for cursor.Next(ctx) {
		var course models.Course
		if err := cursor.Decode(&course); err != nil {
			r.log.Warn("skipping undecodable course", "id", cursor.Current.Lookup("_id").String(), "error", err)
			continue
		}
		courses = append(courses, course)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}
	return courses, nil
}

func (r *CourseRepository) Get(ctx context.Context, id bson.ObjectID) (*models.Course, error) {
	var course models.Course
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&course)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", utils.ErrNotFound, id.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("find course %s: %w", id.Hex(), err)
	}
	return &course, nil
}

// Insert stores course under a fresh store-assigned id; any id on the input
// is discarded.
func (r *CourseRepository) Insert(ctx context.Context, course *models.Course) (models.InsertResult, error) {
	course.ID = bson.NilObjectID

	result, err := r.coll.InsertOne(ctx, course)
	if err != nil {
		return models.InsertResult{}, fmt.Errorf("insert course: %w", err)
	}
	id, _ := result.InsertedID.(bson.ObjectID)
	course.ID = id
	return models.InsertResult{
		Acknowledged: result.Acknowledged,
		InsertedID:   id.Hex(),
	}, nil
}

// Update applies set to the course. A missing id is reported through a zero
// MatchedCount, not an error.
func (r *CourseRepository) Update(ctx context.Context, id bson.ObjectID, set bson.M) (models.UpdateResult, error) {
	result, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
	)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("update course %s: %w", id.Hex(), err)
	}
	return models.UpdateResult{
		Acknowledged:  result.Acknowledged,
		MatchedCount:  result.MatchedCount,
		ModifiedCount: result.ModifiedCount,
		UpsertedCount: result.UpsertedCount,
	}, nil
}

func (r *CourseRepository) Delete(ctx context.Context, id bson.ObjectID) (models.DeleteResult, error) {
	result, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("delete course %s: %w", id.Hex(), err)
	}
	return models.DeleteResult{
		Acknowledged: result.Acknowledged,
		DeletedCount: result.DeletedCount,
	}, nil
}

func (r *CourseRepository) TopInstructors(ctx context.Context, limit int64) ([]models.InstructorSummary, error) {
	cursor, err := r.coll.Aggregate(ctx, topInstructorsPipeline(limit))
	if err != nil {
		return nil, fmt.Errorf("aggregate instructors: %w", err)
	}
	defer cursor.Close(ctx)

	var instructors []models.InstructorSummary
	if err := cursor.All(ctx, &instructors); err != nil {
		return nil, fmt.Errorf("decode instructors: %w", err)
	}
	if instructors == nil {
		instructors = []models.InstructorSummary{}
	}
	return instructors, nil
}

func topInstructorsPipeline(limit int64) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "instructor.name", Value: bson.D{{Key: "$type", Value: "string"}, {Key: "$ne", Value: ""}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$instructor.name"},
			{Key: "bio", Value: bson.D{{Key: "$first", Value: "$instructor.bio"}}},
			{Key: "avatar", Value: bson.D{{Key: "$first", Value: "$instructor.avatar"}}},
			{Key: "avgRating", Value: bson.D{{Key: "$avg", Value: "$instructor.rating"}}},
			{Key: "courseCount", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "avgRating", Value: -1},
			{Key: "courseCount", Value: -1},
			{Key: "_id", Value: 1},
		}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "name", Value: "$_id"},
			{Key: "bio", Value: 1},
			{Key: "avatar", Value: 1},
			{Key: "avgRating", Value: 1},
			{Key: "courseCount", Value: 1},
		}}},
	}
}
