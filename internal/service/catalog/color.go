package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jwalitptl/marketplace-admin/pkg/errors"
)

var (
	webColorPattern     = regexp.MustCompile(`^#?[0-9A-Fa-f]{6}$`)
	storageColorPattern = regexp.MustCompile(`^0[xX][fF]{2}[0-9A-Fa-f]{6}$`)
)

// IsWebColor reports whether s is an RRGGBB color, with or without the
// leading #.
func IsWebColor(s string) bool {
	return webColorPattern.MatchString(s)
}

// HexToStorage converts "#rrggbb" (or bare "rrggbb") into the stored
// "0xFFRRGGBB" form.
func HexToStorage(hex string) (string, error) {
	if !IsWebColor(hex) {
		return "", errors.BadRequest(fmt.Sprintf("invalid color %q, expected #RRGGBB", hex), nil)
	}
	return "0xFF" + strings.ToUpper(strings.TrimPrefix(hex, "#")), nil
}

// StorageToHex converts "0xFFRRGGBB" back into "#RRGGBB".
func StorageToHex(stored string) (string, error) {
	if !storageColorPattern.MatchString(stored) {
		return "", errors.BadRequest(fmt.Sprintf("invalid stored color %q, expected 0xFFRRGGBB", stored), nil)
	}
	return "#" + strings.ToUpper(stored[4:]), nil
}
