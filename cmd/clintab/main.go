// Package main provides the entry point for the clintab CLI.
//
// clintab renders clinical summary tables from CSV data and declarative
// report specifications, producing submission-ready HTML and other
// formats.
//
// Usage:
//
//	clintab render --spec demog.yaml adsl.csv
//	clintab render --spec demog.yaml --spec vitals.yaml adsl.csv
//
// See --help for all available options.
package main

// main is the entry point for clintab.
func main() {
	Execute()
}
