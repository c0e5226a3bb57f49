package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// LoadEnv overrides configuration values with environment variables. Fields
// opt in with an `env` struct tag naming the variable to read.
func LoadEnv(config *AppConfig) error {
	return loadEnvForStruct(reflect.ValueOf(config).Elem())
}

// loadEnvForStruct recursively processes a struct, looking for env tags
func loadEnvForStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		value := v.Field(i)

		// Recurse into nested structs without an env tag of their own.
		// time.Duration is a named int64, not a struct, so it falls through
		// to the setter below.
		if value.Kind() == reflect.Struct && field.Tag.Get("env") == "" {
			if err := loadEnvForStruct(value); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}

		envValue, exists := os.LookupEnv(envName)
		if !exists || envValue == "" {
			continue
		}

		if err := setFieldValue(value, envValue); err != nil {
			return fmt.Errorf("error setting %s from %s: %w", field.Name, envName, err)
		}
	}

	return nil
}

// setFieldValue converts an environment variable string into the field's type
func setFieldValue(value reflect.Value, envValue string) error {
	switch value.Kind() {
	case reflect.String:
		value.SetString(envValue)

	case reflect.Bool:
		b, err := strconv.ParseBool(envValue)
		if err != nil {
			return fmt.Errorf("invalid boolean value: %s", envValue)
		}
		value.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if value.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(envValue)
			if err != nil {
				return fmt.Errorf("invalid duration value: %s", envValue)
			}
			value.SetInt(int64(d))
			return nil
		}
		n, err := strconv.ParseInt(envValue, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer value: %s", envValue)
		}
		value.SetInt(n)

	case reflect.Slice:
		if value.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", value.Type())
		}
		parts := strings.Split(envValue, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		value.Set(reflect.ValueOf(out))

	default:
		return fmt.Errorf("unsupported field type: %s", value.Kind())
	}

	return nil
}
