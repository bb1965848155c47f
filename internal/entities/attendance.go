package entities

import (
	"fmt"
	"time"
)

type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusLate    AttendanceStatus = "late"
	AttendanceStatusExcused AttendanceStatus = "excused"
	AttendanceStatusLeave   AttendanceStatus = "leave"
)

var attendanceStatuses = []AttendanceStatus{
	AttendanceStatusPresent,
	AttendanceStatusAbsent,
	AttendanceStatusLate,
	AttendanceStatusExcused,
	AttendanceStatusLeave,
}

// AttendanceStatuses returns every accepted status value.
func AttendanceStatuses() []AttendanceStatus {
	out := make([]AttendanceStatus, len(attendanceStatuses))
	copy(out, attendanceStatuses)
	return out
}

func (s AttendanceStatus) IsValid() bool {
	for _, known := range attendanceStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Attended reports whether the status counts towards attended days.
// Only an explicit "present" does.
func (s AttendanceStatus) Attended() bool {
	return s == AttendanceStatusPresent
}

func ParseAttendanceStatus(raw string) (AttendanceStatus, error) {
	s := AttendanceStatus(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: unknown attendance status %q", ErrInvalidInput, raw)
	}
	return s, nil
}

// AttendanceMaster is the per-class, per-day attendance summary.
// (ClassName, AttendanceDate) is unique.
type AttendanceMaster struct {
	ID             uint               `gorm:"primaryKey" json:"id"`
	ClassName      string             `gorm:"size:64;not null;uniqueIndex:idx_attendance_class_date,priority:1" json:"class_name"`
	AttendanceDate string             `gorm:"size:10;not null;uniqueIndex:idx_attendance_class_date,priority:2" json:"attendance_date"`
	TotalStudents  int                `json:"total_students"`
	PresentCount   int                `json:"present_count"`
	AbsentCount    int                `json:"absent_count"`
	Details        []AttendanceDetail `gorm:"foreignKey:MasterID;constraint:OnDelete:CASCADE" json:"details,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func (AttendanceMaster) TableName() string {
	return "attendance_master"
}

type AttendanceDetail struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	MasterID  uint             `gorm:"not null;index" json:"master_id"`
	StudentID uint             `gorm:"not null;index" json:"student_id"`
	Status    AttendanceStatus `gorm:"size:20;not null" json:"status"`
}

func (AttendanceDetail) TableName() string {
	return "attendance_details"
}

// StudentAttendance is one row of the per-class attendance analytics.
type StudentAttendance struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Total    int64  `json:"total"`
	Attended int64  `json:"attended"`
}
