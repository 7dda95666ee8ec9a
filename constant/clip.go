package constant

// BundledClip is the built-in default clip. It is synthesized by mpv's lavfi
// demuxer so no media file has to ship with the binary.
const BundledClip = "av://lavfi:testsrc2=size=1280x720:rate=30"

// VideoExtensions lists the file extensions the picker offers by default.
var VideoExtensions = []string{".mp4", ".mkv", ".webm", ".mov", ".avi", ".m4v", ".gif"}
