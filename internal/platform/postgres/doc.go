// Package postgres implements the credential store on PostgreSQL through
// pgx, and owns the schema migrations that create the users table.
//
// Store methods accept any store.DBTX, so the same code runs against a
// pgxpool.Pool, inside a pgx.Tx, or against pgxmock in unit tests. Driver
// failures are mapped onto the store error sentinels by MapError.
package postgres
