package frontmatter

import (
	"strings"

	"github.com/inful/mdfp"
)

// Keys excluded from the content fingerprint.
var (
	FieldFingerprint = mdfp.FingerprintField
	FieldUID         = "uid"
)

// Fingerprint computes the mdfp content fingerprint of fields and body.
// The fingerprint and uid fields never contribute to the hash.
func Fingerprint(fields map[string]any, body string) (string, error) {
	hashed := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == FieldFingerprint || k == FieldUID {
			continue
		}
		hashed[k] = v
	}

	fm := ""
	if len(hashed) > 0 {
		serialized, err := SerializeYAML(hashed)
		if err != nil {
			return "", err
		}
		fm = strings.TrimSuffix(string(serialized), "\n")
	}
	return mdfp.CalculateFingerprintFromParts(fm, body), nil
}

// Render stamps fields with their fingerprint and returns the complete
// document: the front matter block followed by body.
func Render(fields map[string]any, body string) (string, error) {
	stamped := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		stamped[k] = v
	}

	fp, err := Fingerprint(stamped, body)
	if err != nil {
		return "", err
	}
	stamped[FieldFingerprint] = fp

	fm, err := SerializeYAML(stamped)
	if err != nil {
		return "", err
	}
	return string(Join(fm, []byte(body))), nil
}
