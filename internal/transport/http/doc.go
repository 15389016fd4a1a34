// Package http implements the request handlers of the local desk API.
// Handlers stay thin: they parse the request, call the attendance service
// and render the result.
//
// # Routes
//
//	GET    /api/students                 filtered, sorted attendance view
//	POST   /api/students
//	PUT    /api/students/{id}
//	DELETE /api/students/{id}
//	GET    /api/diplomaturas             with enrolled student counts
//	POST   /api/diplomaturas
//	GET    /api/diplomaturas/summaries
//	PUT    /api/diplomaturas/{id}
//	DELETE /api/diplomaturas/{id}        removes its students and sessions too
//	GET    /api/sessions
//	POST   /api/sessions/import          multipart: file, diplomatura, date
//	GET    /api/sessions/{id}/export     xlsx download
//	DELETE /api/sessions/{id}
//	GET    /api/stats
//	GET    /api/export/backup            xlsx download
//	GET    /api/export/students          csv download
//	GET    /api/health
//
// The list, stats and CSV endpoints accept search, diplomatura (repeatable
// or comma separated), aprobado, sort and direction query parameters.
//
// # Errors
//
// Every failure goes through errors.ErrorHandler and is answered with an
// RFC 7807 problem document:
//
//	{
//	    "type": "/errors/import/duplicate-date",
//	    "title": "Conflict",
//	    "status": 409,
//	    "detail": "...",
//	    "instance": "/api/sessions/import",
//	    "trace_id": "..."
//	}
package http
