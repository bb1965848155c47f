package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/schooldesk/internal/database/attendance"
	"github.com/mrlokans/schooldesk/internal/entities"
)

// AttendanceController handles the attendance register endpoints.
type AttendanceController struct {
	register AttendanceRegister
}

// NewAttendanceController creates a new AttendanceController.
func NewAttendanceController(register AttendanceRegister) *AttendanceController {
	registerValidations()
	return &AttendanceController{register: register}
}

// StudentRecord is one roster line of an attendance submission.
type StudentRecord struct {
	ID     flexibleID                `json:"id" binding:"required"`
	Status entities.AttendanceStatus `json:"status" binding:"required,attendance_status"`
}

// SubmitAttendanceRequest is the body of POST /attendance/submit.
type SubmitAttendanceRequest struct {
	ClassName      string          `json:"class_name" binding:"required"`
	Date           string          `json:"date" binding:"required,datetime=2006-01-02"`
	Total          int             `json:"total" binding:"gte=0"`
	Present        int             `json:"present" binding:"gte=0"`
	Absent         int             `json:"absent" binding:"gte=0"`
	StudentRecords []StudentRecord `json:"student_records" binding:"dive"`
}

func (r SubmitAttendanceRequest) submission() attendance.Submission {
	records := make([]attendance.Record, 0, len(r.StudentRecords))
	for _, rec := range r.StudentRecords {
		records = append(records, attendance.Record{StudentID: uint(rec.ID), Status: rec.Status})
	}
	return attendance.Submission{
		ClassName: r.ClassName,
		Date:      r.Date,
		Total:     r.Total,
		Present:   r.Present,
		Absent:    r.Absent,
		Records:   records,
	}
}

// Submit handles POST /attendance/submit
func (ac *AttendanceController) Submit(c *gin.Context) {
	var req SubmitAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid data",
			"details": validationDetails(err),
		})
		return
	}

	if err := ac.register.Submit(c.Request.Context(), req.submission()); err != nil {
		respondWriteError(c, err, "submit attendance")
		return
	}
	respondWriteOK(c)
}

// Sheet handles GET /attendance/sheet/:className/:date
func (ac *AttendanceController) Sheet(c *gin.Context) {
	sheet, err := ac.register.Get(c.Request.Context(), c.Param("className"), c.Param("date"))
	if err != nil {
		if storeErrorStatus(err) == http.StatusNotFound {
			respondNotFound(c, "Attendance")
			return
		}
		respondInternalError(c, err, "attendance sheet")
		return
	}
	c.JSON(http.StatusOK, sheet)
}

// Analytics handles GET /attendance/analytics/:className
func (ac *AttendanceController) Analytics(c *gin.Context) {
	rows, err := ac.register.Analytics(c.Request.Context(), c.Param("className"))
	if err != nil {
		log.Printf("Internal error (attendance analytics): %v", err)
		c.JSON(http.StatusInternalServerError, []entities.StudentAttendance{})
		return
	}
	c.JSON(http.StatusOK, rows)
}
