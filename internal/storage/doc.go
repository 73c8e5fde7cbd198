// Package storage keeps volunteer tables as CSV files in a data directory.
//
// Each dataset lives in <data_dir>/<name>.csv with the header row first,
// the same shape a spreadsheet export produces. Storage implements
// records.Source so deployments without Google credentials can serve lookups,
// and the sync command fills the directory from the live spreadsheets.
// The default location is ~/.local/share/govolunteer-api/.
package storage
