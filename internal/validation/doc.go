// Package validation checks user input before it reaches the attendance
// service: attendance files (extension, size, readability) and the
// student, diplomatura and import forms (required fields, email format,
// unique diplomatura names, class count bounds). Failures are VALIDATION
// or IO application errors whose field messages are in Spanish, the
// language of the forms.
package validation
