package utils

// DefaultInputSize is the width and height (in pixels) the classifier network expects
const DefaultInputSize = 300

// DefaultSampleRate is how many frames per second of video are classified when the client does not ask for another rate
const DefaultSampleRate = 1.0

// MaxImageSizeMB is the default upload limit for '/detect-image'
const MaxImageSizeMB = 5

// MaxVideoSizeMB is the default upload limit for '/analyze-video'
const MaxVideoSizeMB = 100

// ImageExtensions are the image formats the web client uploads. Only logged, content-type is what is enforced
var ImageExtensions = []string{"png", "jpg", "jpeg", "gif", "webp"}

// VideoExtensions is the list of containers accepted by '/analyze-video'
var VideoExtensions = []string{"mp4", "avi", "mov", "mkv", "flv", "wmv"}
