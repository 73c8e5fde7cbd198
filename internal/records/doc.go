// Package records matches volunteers against activity and certificate tables.
//
// A Table is a header row plus data rows, validated once for the User_Name
// and CCCD columns. Matching is a multi-match search: names compare trimmed
// and case-insensitively, ids compare trimmed and exactly. Matcher reads every
// configured dataset fresh from a Source per lookup and returns the matches
// grouped by dataset.
package records
