package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/dealflow/internal/service"
	"github.com/spf13/pflag"
)

var listAll = service.DealFilter{}

// enumValue is a pflag.Value that only accepts values its parser knows,
// so bad enum flags fail at parse time with the flag name in the error.
type enumValue[T ~string] struct {
	target *T
	kind   string
	parse  func(string) (T, error)
}

var _ pflag.Value = (*enumValue[string])(nil)

func newEnumValue[T ~string](target *T, kind string, parse func(string) (T, error)) *enumValue[T] {
	return &enumValue[T]{target: target, kind: kind, parse: parse}
}

func (v *enumValue[T]) String() string { return string(*v.target) }

func (v *enumValue[T]) Set(s string) error {
	parsed, err := v.parse(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*v.target = parsed
	return nil
}

func (v *enumValue[T]) Type() string { return v.kind }

// dateValue parses YYYY-MM-DD into a UTC time pointer.
type dateValue struct {
	target **time.Time
}

func (v *dateValue) String() string {
	if *v.target == nil {
		return ""
	}
	return (*v.target).Format(time.DateOnly)
}

func (v *dateValue) Set(s string) error {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	*v.target = &t
	return nil
}

func (v *dateValue) Type() string { return "date" }

// parseMetrics reads metric=value pairs.
func parseMetrics(args []string) (map[string]float64, error) {
	out := make(map[string]float64, len(args))
	for _, a := range args {
		name, raw, ok := strings.Cut(a, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("metric %q must look like name=value", a)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("metric %q: value must be a number", name)
		}
		out[name] = v
	}
	return out, nil
}
