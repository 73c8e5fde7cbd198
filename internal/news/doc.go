// Package news defines the article listing model produced by the scraper.
//
// A home page is reduced to an ordered list of CategorySection values, each
// holding the ArticleSummary entries rendered under one heading. Links and
// category labels are dedup keys; OrderedSet keeps the first value seen for a
// key and preserves insertion order.
package news
