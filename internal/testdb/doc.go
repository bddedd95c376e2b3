// Package testdb provides helpers for integration tests that run against a
// real PostgreSQL database.
//
// Tests using this package should carry the integration build tag and call
// Open, which skips the test when no database URL is configured:
//
//	//go:build integration
//
//	func TestProfileStore_Create(t *testing.T) {
//		db := testdb.Open(t)
//		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//			s := postgres.NewPostgresProfileStore(tx, nil)
//			// ...
//		})
//	}
//
// Every test body runs inside a transaction that is rolled back afterwards,
// so tests may share one database and run in parallel.
package testdb
