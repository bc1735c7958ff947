package envutil

import (
	"log"
	"os"
	"strconv"
)

// GetenvDefault gets the value of an environment variable, or returns the
// specified default value if that variable is not set.
func GetenvDefault(name, defaultValue string) string {
	val, found := os.LookupEnv(name)
	if !found {
		return defaultValue
	}
	return val
}

// GetenvDefaultInt gets an environment variable as an int, or else returns the default
func GetenvDefaultInt(name string, defaultVal int) int {
	val, found := os.LookupEnv(name)
	if !found {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		log.Fatalf("environment variable %s should be an integer: %v", name, err)
	}
	return intVal
}

// GetenvDefaultInt64 gets an environment variable as an int64, or else returns the default
func GetenvDefaultInt64(name string, defaultVal int64) int64 {
	val, found := os.LookupEnv(name)
	if !found {
		return defaultVal
	}
	intVal, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		log.Fatalf("environment variable %s should be an integer: %v", name, err)
	}
	return intVal
}

// GetenvDefaultBool gets an environment variable as a bool, or else returns the default
func GetenvDefaultBool(name string, defaultVal bool) bool {
	val, found := os.LookupEnv(name)
	if !found {
		return defaultVal
	}
	boolVal, err := strconv.ParseBool(val)
	if err != nil {
		log.Fatalf("environment variable %s should be a boolean: %v", name, err)
	}
	return boolVal
}
