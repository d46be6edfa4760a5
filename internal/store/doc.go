// Package store provides persistent storage for maze grids and grue records.
//
// # Architecture
//
// Two interfaces split the services' needs:
//
//   - MazeStore: grid initialization, cell query and update, maze listing
//   - GrueStore: grue record CRUD
//
// SQLStore implements both over a jmoiron/sqlx pool. Queries are written with
// "?" placeholders and rebound for the driver, so one implementation serves
// Postgres (lib/pq) and SQLite (modernc.org/sqlite). MockStore implements
// both in memory for handler tests.
//
// # Data Model
//
// A maze has no record of its own; it exists while at least one row in the
// maze table carries its name:
//
//	maze(mazename, cell, state, metadata)   PRIMARY KEY (mazename, cell)
//	grues(uuid, name, location, hunger, meals)
//
// Cell keys and states are defined by package cell.
//
// # Grid Initialization
//
// InitializeMaze runs in one transaction: lock, delete the old grid, insert
// width*height default cells through a prepared statement, commit. Any
// failure rolls the whole transaction back, so readers see either the old
// grid or the new one. On Postgres the lock is pg_advisory_xact_lock on the
// hashed maze name; on SQLite the DSN opens every transaction with
// BEGIN IMMEDIATE.
//
// # Errors
//
// Every error is a *result.Error classified as validation, not found, or
// storage. Validation happens before any query is issued.
//
// # Bootstrap
//
// Open creates the schema with CREATE TABLE IF NOT EXISTS. With
// database.create_database set, it first creates the Postgres database
// itself via EnsureDatabase.
package store
