package cytonicgen

import (
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gorilla/schema"

	"github.com/broady/cytonic"
)

var optionDecoder = schema.NewDecoder()

// targetOptions returns the options that apply to target: unprefixed keys
// plus keys prefixed with "target.", with the prefix removed. Prefixed keys
// override unprefixed ones.
func targetOptions(target string, opts map[string]string) url.Values {
	values := url.Values{}
	for _, k := range slices.Sorted(maps.Keys(opts)) {
		if !strings.Contains(k, ".") {
			values.Set(k, opts[k])
		}
	}
	prefix := target + "."
	for _, k := range slices.Sorted(maps.Keys(opts)) {
		if rest, ok := strings.CutPrefix(k, prefix); ok {
			values.Set(rest, opts[k])
		}
	}
	return values
}

// decodeOptions decodes values into the options struct dst. Unknown keys
// and malformed values fail with ErrInvalidConfig.
func decodeOptions(target string, dst any, values url.Values) error {
	if len(values) == 0 {
		return nil
	}
	if err := optionDecoder.Decode(dst, values); err != nil {
		return errors.WithHint(
			errors.Wrapf(cytonic.ErrInvalidConfig, "%s options: %v", target, err),
			"prefix an option with its target to scope it, e.g. --opt "+target+".indent=4")
	}
	return nil
}

// ParseOptions parses "key=value" pairs, as given on the command line.
func ParseOptions(pairs []string) (map[string]string, error) {
	opts := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, errors.Wrapf(cytonic.ErrInvalidConfig, "option %q is not of the form key=value", p)
		}
		opts[strings.TrimSpace(k)] = v
	}
	return opts, nil
}
