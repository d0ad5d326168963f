package route

import (
	"coursehub/controller"

	"github.com/gin-gonic/gin"
)

func Health(router *gin.Engine, h *controller.HealthController) {
	router.GET("/", h.Root)
	router.GET("/healthz", h.Ready)
}

func Courses(router *gin.Engine, h *controller.CourseController) {
	courses := router.Group("/courses")
	courses.GET("", h.ListCourses)
	courses.GET("/popular-courses", h.ListPopularCourses)
	courses.GET("/user/:email", h.ListCoursesByInstructor)
	courses.GET("/:id", h.GetCourse)
	courses.POST("", h.CreateCourse)
	courses.PATCH("/:id", h.UpdateCourse)
	courses.DELETE("/:id", h.DeleteCourse)
}

func Instructors(router *gin.Engine, h *controller.CourseController) {
	router.GET("/instructors/top", h.TopInstructors)
}

func Thumbnails(router *gin.Engine, h *controller.ThumbnailController) {
	router.POST("/courses/:id/thumbnail", h.UploadThumbnail)
}
