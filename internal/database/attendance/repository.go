// Package attendance provides the attendance register: one summary row per
// class and day plus the roster of per-student statuses for that day.
//
// # Interface Implementation
//
//	var _ http.AttendanceRegister = (*Repository)(nil)
//
// # Usage
//
//	register := attendance.NewRepository(db)
//	err := register.Submit(ctx, attendance.Submission{ClassName: "10A", Date: "2024-01-15", ...})
//	stats, err := register.Analytics(ctx, "10A")
package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/schooldesk/internal/entities"
)

// Record is one student's status within a submission.
type Record struct {
	StudentID uint
	Status    entities.AttendanceStatus
}

// Submission is a full attendance sheet for one class on one day.
type Submission struct {
	ClassName string
	Date      string // YYYY-MM-DD
	Total     int
	Present   int
	Absent    int
	Records   []Record
}

// Repository handles all attendance database operations.
type Repository struct {
	db              *gorm.DB
	recomputeTotals bool
}

// NewRepository creates a new attendance repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithRecomputedTotals makes Submit derive the counters from the roster
// instead of storing the ones sent by the caller.
func (r *Repository) WithRecomputedTotals(enabled bool) *Repository {
	r.recomputeTotals = enabled
	return r
}

// Submit stores the attendance sheet for (class, date). An existing sheet
// for the same key is replaced: counters are overwritten and the previous
// roster is discarded before the new one is inserted.
func (r *Repository) Submit(ctx context.Context, sub Submission) error {
	if err := validateSubmission(sub); err != nil {
		return err
	}
	if r.recomputeTotals {
		sub = withRecomputedTotals(sub)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Concurrent first submissions for the same key meet on the unique
		// index; the loser updates the winner's row instead of failing.
		upsert := entities.AttendanceMaster{
			ClassName:      sub.ClassName,
			AttendanceDate: sub.Date,
			TotalStudents:  sub.Total,
			PresentCount:   sub.Present,
			AbsentCount:    sub.Absent,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "class_name"}, {Name: "attendance_date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_students", "present_count", "absent_count", "updated_at",
			}),
		}).Create(&upsert).Error; err != nil {
			return fmt.Errorf("upsert attendance master: %w", err)
		}

		// The id reported by an upsert is driver dependent, so read it back.
		var master entities.AttendanceMaster
		if err := tx.Where("class_name = ? AND attendance_date = ?", sub.ClassName, sub.Date).
			First(&master).Error; err != nil {
			return fmt.Errorf("find attendance master: %w", err)
		}

		if err := tx.Where("master_id = ?", master.ID).Delete(&entities.AttendanceDetail{}).Error; err != nil {
			return fmt.Errorf("clear attendance details: %w", err)
		}

		if len(sub.Records) == 0 {
			return nil
		}
		details := make([]entities.AttendanceDetail, 0, len(sub.Records))
		for _, rec := range sub.Records {
			details = append(details, entities.AttendanceDetail{
				MasterID:  master.ID,
				StudentID: rec.StudentID,
				Status:    rec.Status,
			})
		}
		if err := tx.Create(&details).Error; err != nil {
			return fmt.Errorf("insert attendance details: %w", err)
		}
		return nil
	})
}

func validateSubmission(sub Submission) error {
	if strings.TrimSpace(sub.ClassName) == "" {
		return fmt.Errorf("%w: class_name is required", entities.ErrInvalidInput)
	}
	if _, err := time.Parse(entities.DateLayout, sub.Date); err != nil {
		return fmt.Errorf("%w: date %q is not YYYY-MM-DD", entities.ErrInvalidInput, sub.Date)
	}
	for _, rec := range sub.Records {
		if rec.StudentID == 0 {
			return fmt.Errorf("%w: student record without id", entities.ErrInvalidInput)
		}
		if !rec.Status.IsValid() {
			return fmt.Errorf("%w: unknown attendance status %q", entities.ErrInvalidInput, rec.Status)
		}
	}
	return nil
}

func withRecomputedTotals(sub Submission) Submission {
	sub.Total = len(sub.Records)
	sub.Present = 0
	sub.Absent = 0
	for _, rec := range sub.Records {
		if rec.Status.Attended() {
			sub.Present++
		} else {
			sub.Absent++
		}
	}
	return sub
}

// Get returns the attendance sheet for (class, date) with its roster.
func (r *Repository) Get(ctx context.Context, className, date string) (*entities.AttendanceMaster, error) {
	var master entities.AttendanceMaster
	err := r.db.WithContext(ctx).
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return db.Order("student_id ASC")
		}).
		Where("class_name = ? AND attendance_date = ?", className, date).
		First(&master).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("attendance for %s on %s: %w", className, date, entities.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &master, nil
}

// Analytics counts, for every student of the class, the attendance rows on
// record and how many of them are "present". Students without any rows are
// included with zero counts.
func (r *Repository) Analytics(ctx context.Context, className string) ([]entities.StudentAttendance, error) {
	rows := []entities.StudentAttendance{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			s.id,
			s.name,
			COUNT(d.id) AS total,
			COALESCE(SUM(CASE WHEN d.status = ? THEN 1 ELSE 0 END), 0) AS attended
		FROM students s
		LEFT JOIN attendance_details d ON d.student_id = s.id
		WHERE s.class_name = ?
		GROUP BY s.id, s.name
		ORDER BY s.id
	`, entities.AttendanceStatusPresent, className).Scan(&rows).Error
	return rows, err
}
