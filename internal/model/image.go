package model

import "strings"

// ImageTypes maps the accepted image extensions to their MIME types.
var ImageTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// ImageExt returns the lower-cased extension of filename if it is one of
// the accepted image types.
func ImageExt(filename string) (string, error) {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return "", ErrUnsupportedImage
	}
	ext := strings.ToLower(filename[i+1:])
	if _, ok := ImageTypes[ext]; !ok {
		return "", ErrUnsupportedImage
	}
	return ext, nil
}

// ImageKey derives the storage key for an item image: "<nsn>.<ext>".
// Nothing else from the uploaded filename is kept.
func ImageKey(nsn, filename string) (string, error) {
	ext, err := ImageExt(filename)
	if err != nil {
		return "", err
	}
	return nsn + "." + ext, nil
}
