package controller

import (
	"context"
	"net/http"
	"time"

	"coursehub/logger"
	"coursehub/models"
	"coursehub/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	popularCoursesLimit = 6
	topInstructorsLimit = 4
)

// CourseStore is the persistence the course handlers need.
type CourseStore interface {
	List(ctx context.Context) ([]models.Course, error)
	ListPopular(ctx context.Context, limit int64) ([]models.Course, error)
	ListByInstructorEmail(ctx context.Context, email string) ([]models.Course, error)
	Get(ctx context.Context, id bson.ObjectID) (*models.Course, error)
	Insert(ctx context.Context, course *models.Course) (models.InsertResult, error)
	Update(ctx context.Context, id bson.ObjectID, set bson.M) (models.UpdateResult, error)
	Delete(ctx context.Context, id bson.ObjectID) (models.DeleteResult, error)
	TopInstructors(ctx context.Context, limit int64) ([]models.InstructorSummary, error)
}

type CourseController struct {
	log      *logger.Logger
	store    CourseStore
	validate *validator.Validate
	timeout  time.Duration
	now      func() time.Time
}

func NewCourseController(log *logger.Logger, store CourseStore, timeout time.Duration) *CourseController {
	return &CourseController{
		log:      log.With("controller", "courses"),
		store:    store,
		validate: validator.New(),
		timeout:  timeout,
		now:      time.Now,
	}
}

func (h *CourseController) ListCourses(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	courses, err := h.store.List(ctx)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *CourseController) ListPopularCourses(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	courses, err := h.store.ListPopular(ctx, popularCoursesLimit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *CourseController) ListCoursesByInstructor(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	courses, err := h.store.ListByInstructorEmail(ctx, c.Param("email"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *CourseController) GetCourse(c *gin.Context) {
	id, err := utils.ParseCourseID(c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	course, err := h.store.Get(ctx, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *CourseController) CreateCourse(c *gin.Context) {
	var course models.Course
	if err := c.ShouldBindJSON(&course); err != nil {
		respondError(c, h.log, invalidPayload(err))
		return
	}
	if err := h.validate.Struct(course); err != nil {
		respondError(c, h.log, invalidPayload(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	result, err := h.store.Insert(ctx, &course)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.log.Info("course created", "course_id", result.InsertedID)
	c.JSON(http.StatusOK, result)
}

func (h *CourseController) UpdateCourse(c *gin.Context) {
	id, err := utils.ParseCourseID(c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	var update models.CourseUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondError(c, h.log, invalidPayload(err))
		return
	}
	if err := h.validate.Struct(update); err != nil {
		respondError(c, h.log, invalidPayload(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	result, err := h.store.Update(ctx, id, update.SetDocument(utils.DateStamp(h.now())))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CourseController) DeleteCourse(c *gin.Context) {
	id, err := utils.ParseCourseID(c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	result, err := h.store.Delete(ctx, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if result.DeletedCount > 0 {
		h.log.Info("course deleted", "course_id", id.Hex())
	}
	c.JSON(http.StatusOK, result)
}

func (h *CourseController) TopInstructors(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	instructors, err := h.store.TopInstructors(ctx, topInstructorsLimit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, instructors)
}
