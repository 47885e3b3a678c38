// Package playback drives a dithering pipeline from a stream of video
// frames. At every frame the keyframe track is evaluated at the frame time
// and the result is pushed to the pipeline before the frame is uploaded
// and rendered.
package playback
