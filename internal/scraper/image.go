package scraper

import "regexp"

// FallbackImageURL is used for posts that have no thumbnail.
const FallbackImageURL = "https://govolunteerhcmc.vn/wp-content/uploads/2024/02/logo-gv-tron.png"

// thumbnailSuffix matches WordPress resize tokens such as "-300x200.jpg".
var thumbnailSuffix = regexp.MustCompile(`-\d{2,4}x\d{2,4}(\.\w+)$`)

// HighResImageURL strips a "-WxH" resize token sitting right before the file
// extension so the original upload is referenced. Empty input yields
// FallbackImageURL.
func HighResImageURL(url string) string {
	if url == "" {
		return FallbackImageURL
	}
	return thumbnailSuffix.ReplaceAllString(url, "$1")
}
