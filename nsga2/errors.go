package nsga2

import "fmt"

// ConfigError reports an invalid optimizer parameter. It is returned before
// any generation runs.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid nsga2 config: %s: %s", e.Field, e.Reason)
}

// InvariantError reports a structural defect detected during a run, such as an
// empty front where selection expected one. It must not occur with correct sorting.
type InvariantError struct {
	Generation int
	Reason     string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("nsga2 invariant violated in generation %d: %s", e.Generation, e.Reason)
}
