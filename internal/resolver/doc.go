// Package resolver turns one line of the templates file into a navigable
// template URL.
//
// A reference is resolved with one of three strategies:
//   - an http(s) URL is used verbatim
//   - "id:<value>" is appended to the demo base URL without any network call
//   - anything else is a search term looked up against the community search API,
//     and the first result's ID is appended to the demo base URL
//
// An optional ", <title>" suffix carries the text injected into the page
// before capture.
package resolver
