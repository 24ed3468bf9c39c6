package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// SplitList splits a cell such as "80;443" or "cloud, controller" into
// trimmed, non-empty items.
func SplitList(cell string) []string {
	fields := strings.FieldsFunc(cell, func(r rune) bool {
		return r == ';' || r == ','
	})
	var items []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			items = append(items, f)
		}
	}
	return items
}

// ParsePorts converts port strings to ints, keeping their order.
func ParsePorts(items []string) ([]int, error) {
	if len(items) == 0 {
		return nil, nil
	}
	ports := make([]int, 0, len(items))
	for _, item := range items {
		port, err := strconv.Atoi(strings.TrimSpace(item))
		if err != nil {
			return nil, fmt.Errorf("invalid port %q", item)
		}
		ports = append(ports, port)
	}
	return ports, nil
}
