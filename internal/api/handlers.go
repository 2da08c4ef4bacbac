package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campusops/registrar-back/internal/account"
	"github.com/campusops/registrar-back/internal/db"
	"github.com/campusops/registrar-back/internal/excel"
	"github.com/campusops/registrar-back/internal/grading"
	"github.com/campusops/registrar-back/internal/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Store is everything the handlers need from persistence. db.Registry
// implements it; tests use an in-memory fake.
type Store interface {
	excel.GradeStore
	excel.ScheduleStore
	excel.ContentStore
	account.Store

	CourseByID(ctx context.Context, id uint) (*models.Course, error)
	ListCourses(ctx context.Context) ([]models.Course, error)
	SetDeclaredResit(ctx context.Context, studentID uint, courseCode string) error
	DeleteGrade(ctx context.Context, id uint) error
	DeclaredResitEmails(ctx context.Context, courseCode string) ([]string, error)
	GradesForStudent(ctx context.Context, studentID uint) ([]models.Grade, error)
	GradesFiltered(ctx context.Context, filter db.GradeFilter) ([]models.Grade, error)
	CreateAnnouncement(ctx context.Context, a *models.Announcement) error
	ListAnnouncements(ctx context.Context) ([]models.Announcement, error)
	ListFacultyAnnouncements(ctx context.Context) ([]models.Announcement, error)
	ResitDetailsForStudent(ctx context.Context, studentID uint) ([]db.ResitDetails, error)
	DeleteUserByEmail(ctx context.Context, email string) error
}

type Handlers struct {
	store    Store
	accounts *account.Service
}

func NewHandlers(store Store) *Handlers {
	return &Handlers{
		store:    store,
		accounts: account.NewService(store),
	}
}

func errorJSON(message string) gin.H {
	return gin.H{"status": "error", "message": message}
}

// uploadStatus picks the client/server error split for import failures:
// problems the uploader can fix in the file stay client errors.
func uploadStatus(err error) int {
	var ve *excel.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// UploadGrades godoc
// @Summary      Upload a grade sheet for a course
// @Description  Regular sheets carry email, midterm, final_exam and optional absences; resit sheets carry email and resit_grade
// @Tags         grades
// @Accept       multipart/form-data
// @Produce      json
// @Param        id           path      int     true   "Course ID"
// @Param        upload_type  formData  string  false  "regular or resit"
// @Param        grade_file   formData  file    true   "Workbook"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Security     BearerAuth
// @Router       /courses/{id}/grades [post]
func (h *Handlers) UploadGrades(c *gin.Context) {
	courseID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorJSON("Invalid course id"))
		return
	}
	course, err := h.store.CourseByID(c.Request.Context(), uint(courseID))
	if err != nil {
		c.JSON(http.StatusNotFound, errorJSON("Course not found"))
		return
	}

	uploadType := c.DefaultPostForm("upload_type", excel.UploadRegular)

	fileHeader, err := c.FormFile("grade_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorJSON("No file uploaded"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorJSON("Failed to read uploaded file"))
		return
	}
	defer file.Close()

	if _, err := excel.ImportGrades(c.Request.Context(), h.store, course, file, uploadType); err != nil {
		log.Printf("grade upload for course %s failed: %v", course.Code, err)
		c.JSON(http.StatusInternalServerError, errorJSON(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// UploadResitSchedule godoc
// @Summary      Upload the resit exam schedule
// @Description  Sheet columns Course ID, Course Name, Place, Date; row errors are collected and reported together
// @Tags         resit
// @Accept       multipart/form-data
// @Produce      json
// @Param        excel_file  formData  file  true  "Workbook"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Security     BearerAuth
// @Router       /resit/schedule [post]
func (h *Handlers) UploadResitSchedule(c *gin.Context) {
	fileHeader, err := c.FormFile("excel_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorJSON("No file uploaded"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorJSON("Failed to read uploaded file"))
		return
	}
	defer file.Close()

	if _, err := excel.ImportResitSchedule(c.Request.Context(), h.store, file); err != nil {
		c.JSON(uploadStatus(err), errorJSON(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Resit exam schedule uploaded successfully."})
}

// UploadResitContent godoc
// @Summary      Upload resit exam details for a course
// @Description  Positional columns num_questions, exam_type, calculator_allowed, additional_notes; the first bad row aborts the upload
// @Tags         resit
// @Accept       multipart/form-data
// @Produce      json
// @Param        id          path      int   true  "Course ID"
// @Param        excel_file  formData  file  true  "Workbook"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Security     BearerAuth
// @Router       /courses/{id}/resit/content [post]
func (h *Handlers) UploadResitContent(c *gin.Context) {
	courseID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorJSON("Invalid course id"))
		return
	}
	course, err := h.store.CourseByID(c.Request.Context(), uint(courseID))
	if err != nil {
		c.JSON(http.StatusNotFound, errorJSON("Course not found"))
		return
	}

	fileHeader, err := c.FormFile("excel_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorJSON("No file uploaded"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorJSON("Failed to read uploaded file"))
		return
	}
	defer file.Close()

	if _, err := excel.ImportResitContent(c.Request.Context(), h.store, course.ID, file); err != nil {
		c.JSON(http.StatusInternalServerError, errorJSON(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ImportStudents godoc
// @Summary      Bulk-create student accounts from a roster sheet
// @Description  Sheet columns email, name, program; already-registered emails are skipped, only new accounts are returned
// @Tags         students
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Workbook"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Security     BearerAuth
// @Router       /students/import [post]
func (h *Handlers) ImportStudents(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorJSON("No file uploaded"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorJSON("Failed to read uploaded file"))
		return
	}
	defer file.Close()

	created, err := excel.ImportRoster(c.Request.Context(), h.accounts, file)
	if err != nil {
		c.JSON(uploadStatus(err), errorJSON(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "students": created})
}

// AddStudentRequest is the single-account provisioning body.
type AddStudentRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Name    string `json:"name" binding:"required"`
	Program string `json:"program" binding:"required"`
}

// AddStudent godoc
// @Summary      Create one student account
// @Tags         students
// @Accept       json
// @Produce      json
// @Param        body  body  AddStudentRequest  true  "Student info"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string
// @Security     BearerAuth
// @Router       /students [post]
func (h *Handlers) AddStudent(c *gin.Context) {
	var req AddStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorJSON("Invalid request"))
		return
	}

	created, err := h.accounts.Provision(c.Request.Context(), req.Email, req.Name, req.Program)
	if err != nil {
		if errors.Is(err, account.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, errorJSON("Student already exists"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorJSON("Failed to create student"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"email":    created.Email,
		"name":     created.Name,
		"program":  created.Program,
		"password": created.Password,
	})
}

// DeleteStudent godoc
// @Summary      Delete a student account by email
// @Tags         students
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /students [delete]
func (h *Handlers) DeleteStudent(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorJSON("Invalid request"))
		return
	}

	if err := h.store.DeleteUserByEmail(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, errorJSON("Student not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorJSON("Failed to delete student"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ExportResitRoster godoc
// @Summary      Download declared-resit students for a course as a workbook
// @Tags         resit
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        course_code  query  string  true  "Course code"
// @Success      200  {file}  file
// @Failure      400  {object}  map[string]string
// @Security     BearerAuth
// @Router       /resit/export [get]
func (h *Handlers) ExportResitRoster(c *gin.Context) {
	courseCode := c.Query("course_code")
	if courseCode == "" {
		c.JSON(http.StatusBadRequest, errorJSON("No course selected."))
		return
	}

	emails, err := h.store.DeclaredResitEmails(c.Request.Context(), courseCode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorJSON("Failed to fetch resit students"))
		return
	}

	buf, filename, err := excel.ResitRosterWorkbook(courseCode, emails)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorJSON("Failed to build workbook"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// DeclareResitRequest names the course the student declares a resit for.
type DeclareResitRequest struct {
	CourseCode string `json:"course_code" binding:"required"`
}

// DeclareResit godoc
// @Summary      Declare intent to take the resit exam
// @Description  Requires an existing grade row for the caller in the course
// @Tags         resit
// @Accept       json
// @Produce      json
// @Param        body  body  DeclareResitRequest  true  "Course"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /resit/declare [post]
func (h *Handlers) DeclareResit(c *gin.Context) {
	student, ok := h.currentStudent(c)
	if !ok {
		return
	}

	var req DeclareResitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorJSON("Invalid request"))
		return
	}

	if err := h.store.SetDeclaredResit(c.Request.Context(), student.ID, req.CourseCode); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, errorJSON("No eligible resit found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorJSON("Failed to declare resit"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// DeleteGrade godoc
// @Summary      Delete a grade record
// @Tags         grades
// @Produce      json
// @Param        id  path  int  true  "Grade ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /grades/{id} [delete]
func (h *Handlers) DeleteGrade(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorJSON("Invalid grade id"))
		return
	}

	if err := h.store.DeleteGrade(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, errorJSON("Record not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorJSON("Failed to delete grade"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Deleted successfully"})
}

// gradeReport is the student-facing view of one synced grade set.
type gradeReport struct {
	Grades      []models.Grade `json:"grades"`
	ResitGrades []models.Grade `json:"resit_grades"`
	GPA         *float64       `json:"gpa"`
}

func buildGradeReport(grades []models.Grade) gradeReport {
	report := gradeReport{
		Grades:      make([]models.Grade, 0, len(grades)),
		ResitGrades: make([]models.Grade, 0),
	}

	for i := range grades {
		g := grades[i]
		grading.Sync(&g)
		report.Grades = append(report.Grades, g)
		if g.ResitExamGrade != nil {
			report.ResitGrades = append(report.ResitGrades, g)
		}
	}

	if gpa, ok := grading.GPA(grades); ok {
		report.GPA = &gpa
	}
	return report
}

// MyGrades godoc
// @Summary      Get the caller's grades and GPA
// @Description  Derived fields are computed on the fly; nothing is persisted
// @Tags         grades
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Security     BearerAuth
// @Router       /me/grades [get]
func (h *Handlers) MyGrades(c *gin.Context) {
	student, ok := h.currentStudent(c)
	if !ok {
		return
	}

	grades, err := h.store.GradesForStudent(c.Request.Context(), student.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorJSON("Failed to fetch grades"))
		return
	}

	report := buildGradeReport(grades)
	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"grades":       report.Grades,
		"resit_grades": report.ResitGrades,
		"gpa":          report.GPA,
	})
}

// SyncMyGrades godoc
// @Summary      Recompute and persist the caller's derived grade fields
// @Description  The explicit recompute-and-sync pass; the GET endpoint is the read-only default
// @Tags         grades
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Security     BearerAuth
// @Router       /me/grades/sync [post]
func (h *Handlers) SyncMyGrades(c *gin.Context) {
	student, ok := h.currentStudent(c)
	if !ok {
		return
	}

	grades, err := h.store.GradesForStudent(c.Request.Context(), student.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorJSON("Failed to fetch grades"))
		return
	}

	for i := range grades {
		grading.Sync(&grades[i])
		if err := h.store.SaveGrade(c.Request.Context(), &grades[i]); err != nil {
			c.JSON(http.StatusInternalServerError, errorJSON("Failed to sync grades"))
			return
		}
	}

	report := buildGradeReport(grades)
	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"grades":       report.Grades,
		"resit_grades": report.ResitGrades,
		"gpa":          report.GPA,
	})
}

// ListGrades godoc
// @Summary      List grade records with optional filters
// @Tags         grades
// @Produce      json
// @Param        course       query  string  false  "Course code"
// @Param        eligibility  query  string  false  "Eligibility value"
// @Param        declared     query  bool    false  "Only declared resits"
// @Success      200  {array}  models.Grade
// @Security     BearerAuth
// @Router       /grades [get]
func (h *Handlers) ListGrades(c *gin.Context) {
	filter := db.GradeFilter{
		CourseCode:    c.Query("course"),
		Eligibility:   c.Query("eligibility"),
		DeclaredResit: c.Query("declared") == "true",
	}

	grades, err := h.store.GradesFiltered(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorJSON("Failed to fetch grades"))
		return
	}
	c.JSON(http.StatusOK, grades)
}

// MyResitDetails godoc
// @Summary      Get schedule and exam details for the caller's declared resits
// @Tags         resit
// @Produce      json
// @Success      200  {array}  db.ResitDetails
// @Failure      403  {object}  map[string]string
// @Security     BearerAuth
// @Router       /me/resit-details [get]
func (h *Handlers) MyResitDetails(c *gin.Context) {
	student, ok := h.currentStudent(c)
	if !ok {
		return
	}

	details, err := h.store.ResitDetailsForStudent(c.Request.Context(), student.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorJSON("Failed to fetch resit details"))
		return
	}
	c.JSON(http.StatusOK, details)
}

// PostAnnouncementRequest carries a new announcement.
type PostAnnouncementRequest struct {
	Title string `json:"title" binding:"required"`
	Text  string `json:"text" binding:"required"`
}

// PostAnnouncement godoc
// @Summary      Post an announcement
// @Tags         announcements
// @Accept       json
// @Produce      json
// @Param        body  body  PostAnnouncementRequest  true  "Announcement"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Security     BearerAuth
// @Router       /announcements [post]
func (h *Handlers) PostAnnouncement(c *gin.Context) {
	var req PostAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorJSON("Missing title or text"))
		return
	}

	announcement := models.Announcement{Title: req.Title, Text: req.Text}
	if user, err := h.store.UserByEmail(c.Request.Context(), c.GetString("email")); err == nil {
		announcement.PostedByID = &user.ID
	}

	if err := h.store.CreateAnnouncement(c.Request.Context(), &announcement); err != nil {
		c.JSON(http.StatusInternalServerError, errorJSON("Failed to post announcement"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ListAnnouncements godoc
// @Summary      List announcements, newest first
// @Tags         announcements
// @Produce      json
// @Success      200  {array}  models.Announcement
// @Security     BearerAuth
// @Router       /announcements [get]
func (h *Handlers) ListAnnouncements(c *gin.Context) {
	announcements, err := h.store.ListAnnouncements(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorJSON("Failed to fetch announcements"))
		return
	}
	c.JSON(http.StatusOK, announcements)
}

// FacultyAnnouncements godoc
// @Summary      List announcements posted by faculty members
// @Tags         announcements
// @Produce      json
// @Success      200  {array}  models.Announcement
// @Security     BearerAuth
// @Router       /announcements/faculty [get]
func (h *Handlers) FacultyAnnouncements(c *gin.Context) {
	announcements, err := h.store.ListFacultyAnnouncements(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorJSON("Failed to fetch announcements"))
		return
	}
	c.JSON(http.StatusOK, announcements)
}

// ListCourses godoc
// @Summary      List the course catalog
// @Tags         courses
// @Produce      json
// @Success      200  {array}  models.Course
// @Security     BearerAuth
// @Router       /courses [get]
func (h *Handlers) ListCourses(c *gin.Context) {
	courses, err := h.store.ListCourses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorJSON("Failed to fetch courses"))
		return
	}
	c.JSON(http.StatusOK, courses)
}

// currentStudent resolves the authenticated email to a student profile,
// answering 403 itself when there is none.
func (h *Handlers) currentStudent(c *gin.Context) (*models.StudentProfile, bool) {
	student, err := h.store.StudentByEmail(c.Request.Context(), c.GetString("email"))
	if err != nil {
		c.JSON(http.StatusForbidden, errorJSON("Student profile not found"))
		return nil, false
	}
	return student, true
}
