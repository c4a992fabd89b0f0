// Package main provides the entry point for the dialdex CLI.
//
// Dialdex crawls a postback-driven contact directory site, keeps the
// collected contacts in a local JSON store, and answers phone-number
// lookups against that store without touching the network.
//
// Usage:
//
//	dialdex refresh --url <directory-url>
//	dialdex search <phone>
//
// See --help for all available options.
package main

// main is the entry point for dialdex.
func main() {
	Execute()
}
