// Package envx overlays configuration from environment variables, optionally
// seeded from a dotenv file.
package envx

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the dotenv file at path into the process environment. With an
// empty path a .env in the working directory is loaded if present. Variables
// already set in the environment are never overwritten.
func Load(path string) error {
	if path != "" {
		return godotenv.Load(path)
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Lookup reads prefix+name into dst, leaving dst untouched when unset.
// Supported targets are *string, *int, *bool and *time.Duration.
func Lookup(prefix, name string, dst any) error {
	v, ok := os.LookupEnv(prefix + name)
	if !ok {
		return nil
	}

	switch d := dst.(type) {
	case *string:
		*d = v
	case *int:
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", prefix, name, err)
		}
		*d = n
	case *bool:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", prefix, name, err)
		}
		*d = b
	case *time.Duration:
		t, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", prefix, name, err)
		}
		*d = t
	default:
		return fmt.Errorf("%s%s: unsupported target %T", prefix, name, dst)
	}
	return nil
}

// Var pairs a variable name with its destination for LookupAll.
type Var struct {
	Name string
	Dst  any
}

// LookupAll applies Lookup to every var and joins the failures.
func LookupAll(prefix string, vars ...Var) error {
	var errs []error
	for _, v := range vars {
		errs = append(errs, Lookup(prefix, v.Name, v.Dst))
	}
	return errors.Join(errs...)
}
