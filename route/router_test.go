package route

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"coursehub/controller"
	"coursehub/logger"
	"coursehub/middlewares"
	"coursehub/models"
	"coursehub/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// emptyStore answers every read with nothing and records which list was hit.
type emptyStore struct {
	hit string
}

func (s *emptyStore) List(ctx context.Context) ([]models.Course, error) {
	s.hit = "list"
	return []models.Course{}, nil
}

func (s *emptyStore) ListPopular(ctx context.Context, limit int64) ([]models.Course, error) {
	s.hit = "popular"
	return []models.Course{}, nil
}

func (s *emptyStore) ListByInstructorEmail(ctx context.Context, email string) ([]models.Course, error) {
	s.hit = "by-instructor"
	return []models.Course{}, nil
}

func (s *emptyStore) Get(ctx context.Context, id bson.ObjectID) (*models.Course, error) {
	s.hit = "get"
	return nil, utils.ErrNotFound
}

func (s *emptyStore) Insert(ctx context.Context, course *models.Course) (models.InsertResult, error) {
	s.hit = "insert"
	return models.InsertResult{Acknowledged: true, InsertedID: bson.NewObjectID().Hex()}, nil
}

func (s *emptyStore) Update(ctx context.Context, id bson.ObjectID, set bson.M) (models.UpdateResult, error) {
	s.hit = "update"
	return models.UpdateResult{Acknowledged: true}, nil
}

func (s *emptyStore) Delete(ctx context.Context, id bson.ObjectID) (models.DeleteResult, error) {
	s.hit = "delete"
	return models.DeleteResult{Acknowledged: true}, nil
}

func (s *emptyStore) TopInstructors(ctx context.Context, limit int64) ([]models.InstructorSummary, error) {
	s.hit = "top-instructors"
	return []models.InstructorSummary{}, nil
}

func (s *emptyStore) Ping(ctx context.Context) error { return nil }

func newTestRouter(store *emptyStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.Nop()
	return NewRouter(RouterConfig{
		Log:     log,
		Courses: controller.NewCourseController(log, store, time.Second),
		Health:  controller.NewHealthController(log, store, time.Second),
	})
}

func TestRouterDispatch(t *testing.T) {
	id := bson.NewObjectID().Hex()
	cases := []struct {
		method     string
		path       string
		body       string
		wantHit    string
		wantStatus int
	}{
		{http.MethodGet, "/courses", "", "list", http.StatusOK},
		{http.MethodGet, "/courses/popular-courses", "", "popular", http.StatusOK},
		{http.MethodGet, "/courses/user/a@x.com", "", "by-instructor", http.StatusOK},
		{http.MethodGet, "/courses/" + id, "", "get", http.StatusNotFound},
		{http.MethodPost, "/courses", `{"title": "Go"}`, "insert", http.StatusOK},
		{http.MethodPatch, "/courses/" + id, `{"title": "Go"}`, "update", http.StatusOK},
		{http.MethodDelete, "/courses/" + id, "", "delete", http.StatusOK},
		{http.MethodGet, "/instructors/top", "", "top-instructors", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			store := &emptyStore{}
			r := newTestRouter(store)

			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			if tc.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tc.wantHit, store.hit)
		})
	}
}

func TestRouterLivenessAndUnknownRoutes(t *testing.T) {
	r := newTestRouter(&emptyStore{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Running")

	// thumbnails are not registered without a bucket
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/courses/"+bson.NewObjectID().Hex()+"/thumbnail", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":{"message":"route not found","code":"route_not_found"}}`, rec.Body.String())
}

func TestRouterCORSHeaders(t *testing.T) {
	r := newTestRouter(&emptyStore{})

	req := httptest.NewRequest(http.MethodGet, "/courses", nil)
	req.Header.Set("Origin", "https://learn.example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &emptyStore{}
	log := logger.Nop()

	newRouter := func(trusted []string) *gin.Engine {
		rl := middlewares.NewRateLimiter(1, time.Hour)
		t.Cleanup(rl.Stop)
		return NewRouter(RouterConfig{
			Log:            log,
			Courses:        controller.NewCourseController(log, store, time.Second),
			Health:         controller.NewHealthController(log, store, time.Second),
			TrustedProxies: trusted,
			RateLimiter:    rl,
		})
	}
	get := func(r *gin.Engine, forwardedFor string) int {
		req := httptest.NewRequest(http.MethodGet, "/courses", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		req.Header.Set("X-Forwarded-For", forwardedFor)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	r := newRouter(nil)
	assert.Equal(t, http.StatusOK, get(r, "203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, get(r, "203.0.113.2"))

	// behind a trusted proxy each forwarded client has its own budget
	r = newRouter([]string{"10.0.0.1"})
	assert.Equal(t, http.StatusOK, get(r, "203.0.113.1"))
	assert.Equal(t, http.StatusOK, get(r, "203.0.113.2"))
	assert.Equal(t, http.StatusTooManyRequests, get(r, "203.0.113.1"))
}
