// Package httputil provides the JSON plumbing shared by the HTTP API.
//
// # Overview
//
//   - [WriteJSON]: encode a response body with a status code
//   - [WriteError]: map a structured error to a status and an error body
//   - [DecodeJSON]: decode a size-limited request body, rejecting unknown fields
//
// # Error Bodies
//
// Errors are reported as
//
//	{"code": "PLACEMENT_EXHAUSTED", "message": "Placement of object 'Tree' ..."}
//
// where code is the [errors.Code] of the first structured error in the
// chain and message is its user-facing text. The status follows the code:
//
//   - INVALID_*, UNKNOWN_BLUEPRINT: 400
//   - NOT_FOUND: 404
//   - LAYOUT_INFEASIBLE, PLACEMENT_*, GROUPS_EXCEED_AMOUNT: 422
//   - UNSUPPORTED: 501
//   - anything else: 500
package httputil
