package cfg

// ConfigurationError reports a setting that prevents the run from starting.
type ConfigurationError struct {
	Setting string
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}
