package parameters

import (
	"github.com/magiconair/properties"
)

// ReadProperties reads a Java style .properties file as written by the
// build agent for system properties and configuration parameters.
// Values are taken literally, ${} references are not expanded.
func ReadProperties(path string) (map[string]string, error) {
	loader := &properties.Loader{
		Encoding:         properties.UTF8,
		DisableExpansion: true,
	}

	props, err := loader.LoadFile(path)
	if err != nil {
		return nil, err
	}

	return props.Map(), nil
}
