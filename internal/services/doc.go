// Package services defines the shared error taxonomy used across the
// extraction pipeline.
//
// Errors are tagged with sentinel markers (configuration, validation,
// external tool, …) so callers can classify failures without string
// matching while still carrying stage and operation context in the
// message chain.
package services
