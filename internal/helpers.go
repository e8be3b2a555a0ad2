package internal

import "strconv"

// Scalar is the set of types the typed accessors convert to.
type Scalar interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// Param returns the i-th action parameter converted to T, or the zero value
// when it is absent or does not parse.
func Param[T Scalar](c *Context, i int) T {
	v, _ := convert[T](c.Param(i))
	return v
}

// ParamDefault is Param with a fallback for absent or unparsable values.
func ParamDefault[T Scalar](c *Context, i int, defaultValue T) T {
	return orDefault(c.Param(i), defaultValue)
}

// Query returns a query value of the request converted to T.
func Query[T Scalar](r *Request, name string) T {
	v, _ := convert[T](r.Query(name))
	return v
}

// QueryDefault returns defaultValue if the query value is empty or cannot
// be parsed.
func QueryDefault[T Scalar](r *Request, name string, defaultValue T) T {
	return orDefault(r.Query(name), defaultValue)
}

// PostValue returns a form value of the request converted to T.
func PostValue[T Scalar](r *Request, name string) T {
	v, _ := convert[T](r.Post(name))
	return v
}

func orDefault[T Scalar](raw string, defaultValue T) T {
	if raw == "" {
		return defaultValue
	}
	v, ok := convert[T](raw)
	if !ok {
		return defaultValue
	}
	return v
}

func convert[T Scalar](raw string) (T, bool) {
	var zero T
	var out any
	var err error

	switch any(zero).(type) {
	case string:
		out = raw
	case int:
		out, err = strconv.Atoi(raw)
	case int64:
		out, err = strconv.ParseInt(raw, 10, 64)
	case float64:
		out, err = strconv.ParseFloat(raw, 64)
	case bool:
		out, err = strconv.ParseBool(raw)
	default:
		return zero, false
	}
	if err != nil {
		return zero, false
	}
	v, ok := out.(T)
	return v, ok
}
