package model

import "time"

type AttendanceStatus string

const (
	AttendancePresent      AttendanceStatus = "present"
	AttendanceLate         AttendanceStatus = "late"
	AttendanceHalfDay      AttendanceStatus = "half-day"
	AttendanceNotCheckedIn AttendanceStatus = "not-checked-in" // never persisted
)

// Attendance is one user's working day. Date is YYYY-MM-DD in the
// configured time zone.
type Attendance struct {
	ID           uint             `gorm:"primaryKey;autoIncrement"`
	UserID       uint             `gorm:"not null;index:idx_attendance_user_date,unique"`
	Date         string           `gorm:"size:10;not null;index:idx_attendance_user_date,unique;index"`
	CheckInTime  time.Time        `gorm:"not null"`
	CheckOutTime *time.Time
	Status       AttendanceStatus `gorm:"size:16;not null"`
	WorkHours    float64          `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
