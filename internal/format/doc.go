// Package format renders songs, sizes, and archive hashtags for display.
package format
