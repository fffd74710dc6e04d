// Command tunebot searches, resolves, and downloads music through a TuneHub
// endpoint from the terminal.
package main
