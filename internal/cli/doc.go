// Package cli implements the govolunteer-api command line.
//
// The root command loads configuration (YAML file, .env, environment) and
// sets up logging before any subcommand runs. "serve" runs the HTTP API; the
// news, feed, article and lookup commands run one query and print text or
// JSON; "sync" copies the spreadsheets into the CSV data directory. A query
// that finds nothing exits with status 2.
package cli
