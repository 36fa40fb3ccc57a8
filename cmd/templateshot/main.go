// Package main provides the templateshot CLI.
//
// templateshot captures screenshots of diagram templates. It reads template
// references from a file, resolves each to a template URL, drives a
// persistent browser session to it and saves one image per template.
//
// Usage:
//
//	templateshot capture [templates.txt]
//	templateshot resolve [templates.txt]
//	templateshot report  [run.json]
//	templateshot serve
//
// See --help for all available options.
package main

func main() {
	Execute()
}
