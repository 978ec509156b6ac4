package forms

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/homepoint/internal/client/imageenc"
	"github.com/dmitrijs2005/homepoint/internal/client/imagesrc"
)

const MaxProfileImageSize = 2 << 20

var profileImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

// ValidateProfileImage accepts JPEG, PNG and GIF sources under 2MB. Sources
// that do not know their size up front are only checked by type; a source
// without a type is judged by its name.
func ValidateProfileImage(src imageenc.Source) error {
	typ := src.MIMEType()
	if typ == "" {
		typ = mime.TypeByExtension(strings.ToLower(filepath.Ext(src.Name())))
	}
	if !profileImageTypes[typ] {
		return invalid("profileImage", "Only JPG, PNG, and GIF images are allowed.")
	}
	if s, ok := src.(imagesrc.Sized); ok {
		n, err := s.Size()
		if err != nil {
			return fmt.Errorf("stat %s: %w", src.Name(), err)
		}
		if n >= MaxProfileImageSize {
			return invalid("profileImage", "Image size must be less than 2MB.")
		}
	}
	return nil
}
