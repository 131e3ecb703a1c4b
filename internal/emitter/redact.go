package emitter

import (
	"regexp"

	"github.com/guckdev/hunch/internal/config"
	"github.com/guckdev/hunch/internal/event"
)

// Redacted replaces scrubbed values.
const Redacted = "[REDACTED]"

// redact returns a copy of spec with configured keys and patterns scrubbed
// from the message, data and tags. The caller's maps are left untouched.
// Non-scalar data values are passed through so event validation still rejects
// them whether or not redaction is on.
func redact(rc config.RedactConfig, spec event.Spec) (event.Spec, error) {
	matchers, err := rc.Matchers()
	if err != nil {
		return spec, err
	}

	spec.Message = scrub(matchers, spec.Message)

	if len(spec.Data) > 0 {
		data := make(map[string]any, len(spec.Data))
		for k, v := range spec.Data {
			switch {
			case rc.MatchesKey(k) && event.IsScalar(v):
				data[k] = Redacted
			default:
				if s, ok := v.(string); ok {
					data[k] = scrub(matchers, s)
				} else {
					data[k] = v
				}
			}
		}
		spec.Data = data
	}

	if len(spec.Tags) > 0 {
		tags := make(map[string]string, len(spec.Tags))
		for k, v := range spec.Tags {
			if rc.MatchesKey(k) {
				tags[k] = Redacted
				continue
			}
			tags[k] = scrub(matchers, v)
		}
		spec.Tags = tags
	}

	return spec, nil
}

func scrub(matchers []*regexp.Regexp, s string) string {
	for _, re := range matchers {
		s = re.ReplaceAllString(s, Redacted)
	}
	return s
}
