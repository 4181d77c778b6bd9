// Package subrip renders synthesized cues as SubRip (.srt) files and parses
// them back for validation.
package subrip
