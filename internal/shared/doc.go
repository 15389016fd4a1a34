// Package shared holds helpers used by more than one package that belong to
// no single layer.
//
// The testutil subpackage provides a capturing slog handler and attendance
// fixtures for tests:
//
//	logger, logs := testutil.NewTestLogger(t)
//	svc := services.NewAttendanceService(repo, services.WithLogger(logger))
//	...
//	testutil.AssertLogContains(t, logs, slog.LevelWarn, "attendance import rejected")
//
// Nothing here may import domain packages other than pkg/contracts.
package shared
