// Package config loads environment-driven configuration structs.
//
// Fields are described with caarlos0/env tags. A .env file in the working
// directory, or the files passed to Load, is read first; variables already
// set in the process environment win over file values.
//
//	type Config struct {
//	    Addr string `env:"PLEXIS_ADDR" envDefault:":8080"`
//	}
//
//	cfg := config.MustLoad[Config]()
package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrLoadDotenv = errors.New("config: failed to read env file")
	ErrParse      = errors.New("config: failed to parse environment")
)

// Load reads the given env files (default ".env"), skipping missing ones,
// then parses the environment into a T.
func Load[T any](files ...string) (T, error) {
	var zero T

	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return zero, errors.Join(ErrLoadDotenv, err)
		}
	}

	cfg, err := env.ParseAs[T]()
	if err != nil {
		return zero, errors.Join(ErrParse, err)
	}
	return cfg, nil
}

// MustLoad is like Load but panics on error.
func MustLoad[T any](files ...string) T {
	cfg, err := Load[T](files...)
	if err != nil {
		panic(err)
	}
	return cfg
}
