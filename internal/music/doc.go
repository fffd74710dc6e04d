// Package music exposes the high-level TuneBot operations: aggregate search
// across platforms, quality-tiered audio resolution with automatic fallback,
// toplists and playlists, and audio/cover downloads. Every public operation
// returns either a populated result or an explicit empty/failed value, never
// an unhandled fault.
package music
