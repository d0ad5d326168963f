package controller

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"coursehub/models"
	"coursehub/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// fakeStore keeps courses in insertion order and mimics the repository's
// error contract.
type fakeStore struct {
	mu          sync.Mutex
	courses     []models.Course
	instructors []models.InstructorSummary
	err         error
	pingErr     error

	lastLimit int64
	lastEmail string
	lastSet   bson.M
}

func (s *fakeStore) List(ctx context.Context) ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]models.Course{}, s.courses...), nil
}

func (s *fakeStore) ListPopular(ctx context.Context, limit int64) ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	out := append([]models.Course{}, s.courses...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StudentsEnrolled > out[j].StudentsEnrolled
	})
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeStore) ListByInstructorEmail(ctx context.Context, email string) ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastEmail = email
	if s.err != nil {
		return nil, s.err
	}
	out := []models.Course{}
	for _, c := range s.courses {
		if c.Instructor != nil && c.Instructor.Email == email {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeStore) Get(ctx context.Context, id bson.ObjectID) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", utils.ErrNotFound, id.Hex())
	}
	course := s.courses[i]
	return &course, nil
}

func (s *fakeStore) Insert(ctx context.Context, course *models.Course) (models.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return models.InsertResult{}, s.err
	}
	course.ID = bson.NewObjectID()
	s.courses = append(s.courses, *course)
	return models.InsertResult{Acknowledged: true, InsertedID: course.ID.Hex()}, nil
}

// Update merges set into the stored document through a BSON round trip, the
// same way $set would.
func (s *fakeStore) Update(ctx context.Context, id bson.ObjectID, set bson.M) (models.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSet = set
	if s.err != nil {
		return models.UpdateResult{}, s.err
	}
	i := s.indexOf(id)
	if i < 0 {
		return models.UpdateResult{Acknowledged: true}, nil
	}

	raw, err := bson.Marshal(s.courses[i])
	if err != nil {
		return models.UpdateResult{}, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return models.UpdateResult{}, err
	}
	for k, v := range set {
		doc[k] = v
	}
	raw, err = bson.Marshal(doc)
	if err != nil {
		return models.UpdateResult{}, err
	}
	var updated models.Course
	if err := bson.Unmarshal(raw, &updated); err != nil {
		return models.UpdateResult{}, err
	}
	s.courses[i] = updated
	return models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func (s *fakeStore) Delete(ctx context.Context, id bson.ObjectID) (models.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return models.DeleteResult{}, s.err
	}
	i := s.indexOf(id)
	if i < 0 {
		return models.DeleteResult{Acknowledged: true}, nil
	}
	s.courses = append(s.courses[:i], s.courses[i+1:]...)
	return models.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

func (s *fakeStore) TopInstructors(ctx context.Context, limit int64) ([]models.InstructorSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	out := append([]models.InstructorSummary{}, s.instructors...)
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeStore) Ping(ctx context.Context) error {
	return s.pingErr
}

func (s *fakeStore) indexOf(id bson.ObjectID) int {
	for i, c := range s.courses {
		if c.ID == id {
			return i
		}
	}
	return -1
}
