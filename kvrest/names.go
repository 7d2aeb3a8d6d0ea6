package kvrest

import (
	"strings"

	"github.com/kbukum/kvrest/logger"
	"github.com/kbukum/kvrest/validation"
)

// unsafeNameChars change the meaning of a URL path when interpolated raw.
const unsafeNameChars = "/?#%"

// checkNames rejects empty names and warns about names that will not
// address the intended resource. Names are never escaped.
func (c *Client) checkNames(fields ...string) error {
	v := validation.New()
	for i := 0; i+1 < len(fields); i += 2 {
		v.Required(fields[i], fields[i+1])
	}
	if err := v.Err(); err != nil {
		return err
	}
	for i := 0; i+1 < len(fields); i += 2 {
		if strings.ContainsAny(fields[i+1], unsafeNameChars) {
			c.t.log.Warn("name contains URL-significant characters and is sent unescaped", logger.Fields(
				"field", fields[i],
				"name", fields[i+1],
			))
		}
	}
	return nil
}

func bucketPath(bucket string) string { return "/" + bucket }

func keyPath(bucket, key string) string { return "/" + bucket + "/" + key }
