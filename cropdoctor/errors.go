package cropdoctor

import "errors"

// Input validation errors.
var (
	ErrEmptyImage       = errors.New("image is empty")
	ErrUnsupportedImage = errors.New("invalid file format, upload a JPG, PNG, or WEBP image")
	ErrImageTooLarge    = errors.New("file too large, maximum size is 5MB")
)
