// Package scraper pulls top-level comments for YouTube videos and writes
// them to a single-column CSV that the loader can read.
//
// Fetching is split between a CommentLister, which performs one page
// request, and a Fetcher, which follows page tokens, rate limits requests
// and fans out across videos.
package scraper
