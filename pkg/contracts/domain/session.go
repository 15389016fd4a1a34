package domain

// ClassSession is one recorded class date for a diplomatura, built from an
// attendance export.
type ClassSession struct {
	ID                string             `json:"id"`
	Date              string             `json:"date"`
	FileName          string             `json:"fileName"`
	Diplomatura       string             `json:"diplomatura"`
	AttendanceRecords []AttendanceRecord `json:"attendanceRecords"`
	TotalStudents     int                `json:"totalStudents"`
	PresentStudents   int                `json:"presentStudents"`
}

// AbsentStudents is TotalStudents minus PresentStudents.
func (s ClassSession) AbsentStudents() int {
	return s.TotalStudents - s.PresentStudents
}

// SetDate overrides the session date on the session and on every record.
func (s *ClassSession) SetDate(date string) {
	s.Date = date
	for i := range s.AttendanceRecords {
		s.AttendanceRecords[i].Date = date
	}
}

// AttendanceRecord marks one listed name as present in a session.
// Duration is informational, in minutes, and never decides presence.
type AttendanceRecord struct {
	ID          string `json:"id"`
	StudentName string `json:"studentName"`
	StudentID   string `json:"studentId,omitempty"`
	Date        string `json:"date"`
	Present     bool   `json:"present"`
	Duration    *int   `json:"duration,omitempty"`
}
