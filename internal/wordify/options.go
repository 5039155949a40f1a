package wordify

// Option configures a conversion.
type Option func(*converter)

// WithSerialCommas appends a comma to a scale name whenever the rest of the
// number follows without a leading "and":
//
//	1200000 -> "one million, two hundred thousand"
//	1000001 -> "one million and one"
//
// Disabled by default.
func WithSerialCommas(on bool) Option {
	return func(c *converter) { c.serialCommas = on }
}

func newConverter(opts []Option) converter {
	var c converter
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
