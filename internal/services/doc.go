// Package services implements the bedelia business logic on top of the
// storage repository.
//
// AttendanceService is the single entry point used by the CLI and the
// local desk server. It validates input, serializes every mutation behind
// one mutex (there is a single writer), keeps cascading deletes atomic by
// writing all affected collections in one Save, and rejects an import
// when its diplomatura already has a session on the same date.
//
// Reads aggregate attendance on demand from a fresh snapshot:
//
//	svc := services.NewAttendanceService(repo, services.WithLogger(logger))
//	view, err := svc.View(ctx, domain.Filters{Aprobado: domain.ApprovalNoAprobado}, domain.SortConfig{})
package services
