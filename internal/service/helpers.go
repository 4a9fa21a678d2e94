package service

import "strings"

// setIf copies a provided optional value into an update map.
func setIf[T any](fields map[string]any, column string, value *T) {
	if value != nil {
		fields[column] = *value
	}
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
