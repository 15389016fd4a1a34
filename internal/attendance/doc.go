// Package attendance derives the attendance view from persisted students,
// diplomaturas and class sessions. Everything here is a pure function of
// its inputs: nothing reads storage, logs or mutates its arguments.
//
// # Data Flow
//
//	students + diplomaturas + sessions → Aggregate → FilterAndSort → ComputeStats
//
// Names are matched with Normalize, so "María González" and
// "  maría   gonzález " refer to the same person.
//
// # Usage
//
//	view := attendance.Aggregate(students, diplomaturas, sessions, attendance.DefaultPolicy())
//	shown := attendance.FilterAndSort(view, filters, sortCfg)
//	stats := attendance.ComputeStats(shown)
package attendance
