package parameters

import (
	"maps"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	internalerrors "github.com/pluralsh/scan-harness/pkg/harness/errors"
)

// Merge combines build parameter sources into a single map. Sources are
// applied in order so that later sources override earlier ones. The host
// passes them as: environment variables, system properties, configuration
// parameters and runner parameters.
func Merge(sources ...map[string]string) map[string]string {
	result := make(map[string]string)
	for _, source := range sources {
		maps.Copy(result, source)
	}

	return result
}

// FromEnviron converts "key=value" entries, i.e. os.Environ, into a map.
func FromEnviron(environ []string) map[string]string {
	result := make(map[string]string, len(environ))
	for _, entry := range environ {
		key, value, found := strings.Cut(entry, "=")
		if !found || len(key) == 0 {
			continue
		}

		result[key] = value
	}

	return result
}

// FromPairs converts "key=value" entries passed on the command line into a
// map. Unlike FromEnviron every entry must contain a key.
func FromPairs(entries []string) (map[string]string, error) {
	result := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, found := strings.Cut(entry, "=")
		key = strings.TrimSpace(key)
		if !found || len(key) == 0 {
			return nil, internalerrors.NewConfigurationErrorf("invalid parameter %q, expected key=value", entry)
		}

		result[key] = value
	}

	return result, nil
}

// Decode maps merged parameters onto typed Settings. Numeric and boolean
// values are parsed leniently: a value that is not a number decodes to 0
// and only "true" (ignoring case) decodes to true. Invalid values are then
// handled like unset ones by the steps that consume them.
func Decode(params map[string]string) (*Settings, error) {
	settings := new(Settings)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncKind(lenient),
		WeaklyTypedInput: true,
		Result:           settings,
	})
	if err != nil {
		return nil, err
	}

	if err = decoder.Decode(params); err != nil {
		return nil, internalerrors.NewConfigurationErrorf("could not decode build parameters: %s", err)
	}

	return settings, nil
}

func lenient(from reflect.Kind, to reflect.Kind, data interface{}) (interface{}, error) {
	value, ok := data.(string)
	if from != reflect.String || !ok {
		return data, nil
	}

	value = strings.TrimSpace(value)
	switch to {
	case reflect.Int:
		result, err := strconv.Atoi(value)
		if err != nil {
			return 0, nil
		}

		return result, nil
	case reflect.Bool:
		return strings.EqualFold(value, "true"), nil
	default:
		return data, nil
	}
}
