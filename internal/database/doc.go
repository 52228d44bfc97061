// Package database writes the ranked export to a SQLite file.
//
// The file is an output artifact, rebuilt from scratch on every run: it
// holds the ranked streams of the last run and a small metadata table
// (generation time, row count). Nothing is read back into later runs.
package database
