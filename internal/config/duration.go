package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration parses yaml values like "3s" or "4h" into a time.Duration. Bare
// integers are taken as nanoseconds, matching time.Duration itself.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
		return nil
	case int:
		*d = Duration(v)
		return nil
	default:
		return fmt.Errorf("invalid duration value of type %T", raw)
	}
}

// Std converts to the standard library duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
