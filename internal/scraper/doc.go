// Package scraper extracts news listings and article content from the
// GoVolunteer website.
//
// The extractors (ExtractSections, ExtractContent, HighResImageURL) are pure
// functions over a parsed *goquery.Document and can run concurrently. Scraper
// pairs them with a retrieve.Retriever so documents may come from a plain
// HTTP fetch or a headless browser render. The site's RSS feed is available
// through FetchFeed as a lighter alternative to the rendered home page.
package scraper
