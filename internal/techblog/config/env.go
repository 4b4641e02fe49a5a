package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LookupEnv возвращает значение переменной без внешних пробелов.
// Пустое значение считается незаданным, чтобы VAR= в compose файле давало значение по умолчанию.
func LookupEnv(key string) (string, bool) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	val = strings.TrimSpace(val)
	return val, val != ""
}

// ParseIntEnv читает целое число. Незаданная переменная дает 0 без ошибки.
func ParseIntEnv(key string) (int, error) {
	val, ok := LookupEnv(key)
	if !ok {
		return 0, nil
	}
	v, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", key, val)
	}
	return v, nil
}

// ParseBoolEnv читает логическое значение в формате strconv.ParseBool.
func ParseBoolEnv(key string) (bool, error) {
	val, ok := LookupEnv(key)
	if !ok {
		return false, nil
	}
	v, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("%s: %q is not a boolean", key, val)
	}
	return v, nil
}
