// Package http provides HTTP handlers and middleware for the bus alarm API.
//
// The router exposes the following endpoints:
//   - GET /routes: lists the timetable routes.
//   - GET /routes/{id}/departures: returns the full departure board of a route
//     with countdown values and next-departure markers per departure point.
//   - GET /routes/{id}/points/{key}/next: returns the next departure of one
//     departure point.
//   - GET /favorites, POST /favorites, PUT /favorites/{id}, DELETE
//     /favorites/{id}: favorite management endpoints exchanging the
//     `favoriteDTO` payload defined in favorite_handler.go. PUT toggles the
//     notification flag.
//   - GET /settings: returns the notification configuration.
//   - PUT /settings/mode, PUT /settings/routes/{id}, DELETE
//     /settings/routes/{id}, PUT /settings/quiet: settings mutations. These
//     require the admin token configured for the deployment.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
