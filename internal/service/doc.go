// Package service contains the marketplace use cases. Each service
// coordinates the domain types with the store interfaces, applies
// ownership rules, and opens a transaction through store.Transactor when an
// operation writes more than one row.
//
// Services never depend on a concrete store. The API handlers and the
// assistant call them; tests drive them with the mocks package.
package service
