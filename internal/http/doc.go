// Package http provides HTTP handlers and middleware for the meetsync API.
//
// Every response uses the same envelope: {"success":true,"data":...} on
// success, {"success":false,"error":{"code","message","details"}} on failure,
// with codes UNAUTHORIZED, NOT_FOUND, VALIDATION_ERROR, BAD_REQUEST and
// INTERNAL. The router exposes:
//   - POST /schedules, GET /schedules?page=&page_size=
//   - GET /schedules/{id}, PUT /schedules/{id}, DELETE /schedules/{id}
//   - PUT /schedules/{id}/participants, DELETE /schedules/{id}/participants/{pid}
//   - PUT /schedules/{id}/suggestions, DELETE /schedules/{id}/suggestions/{sid}
//
// Caller identity is resolved by the RequireIdentity middleware from the
// X-User-ID header, which is expected to be set by a trusted authenticating
// proxy. Requests without a resolved identity are rejected before any handler
// runs.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
