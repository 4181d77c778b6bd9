// Package video probes source files with ffprobe and samples timestamped
// frames with ffmpeg.
//
// The sampler writes frame images into a work directory at a fixed interval,
// optionally cropped to the subtitle region of interest, and returns them in
// timestamp order. Downstream stages depend on that ordering.
package video
