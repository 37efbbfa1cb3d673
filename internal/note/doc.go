// Package note defines the voice note domain model shared by the
// recording, storage, enrichment, and playback components.
package note
