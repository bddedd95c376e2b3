// Package api handles incoming HTTP requests, request validation, and
// response formatting for the marketplace REST API. Handlers translate HTTP
// concerns into calls on the service layer and the assistant, and map the
// errors they return onto status codes.
package api
