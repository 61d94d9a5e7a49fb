package devicetrust

import (
	"strconv"
	"strings"

	"github.com/campus-trust-api/internal/domain"
)

// Fingerprint reduces the fixed, ordered attribute set to a stable
// integer-as-string identifier with a 32-bit rolling hash. Identical
// attribute sets always produce the identical fingerprint. This is a
// change detector, not a security boundary: no cryptographic strength is
// claimed or needed.
func Fingerprint(a domain.DeviceAttributes) string {
	joined := strings.Join([]string{
		a.UserAgent,
		a.Language,
		a.Platform,
		a.ScreenResolution,
		a.Timezone,
		strconv.Itoa(a.HardwareConcurrency),
	}, "|")

	var h int32
	for _, r := range joined {
		h = h*31 + int32(r)
	}
	return strconv.FormatInt(int64(h), 10)
}
