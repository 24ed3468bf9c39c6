package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"muddy/internal/model"
	"muddy/internal/utils"
)

// ParseRulesCSV reads rules from a CSV file with a header row. Column
// names are case-insensitive; "direction" and "match" are required. List
// cells (match, local_ports, remote_ports) separate items with ';'.
func ParseRulesCSV(r io.Reader, name string) ([]model.Rule, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("could not read header: %w", err)
	}

	colMap := make(map[string]int)
	for i, colName := range header {
		key := strings.ToLower(strings.TrimSpace(colName))
		key = strings.ReplaceAll(key, "-", "_")
		colMap[key] = i
	}
	for _, required := range []string{"direction", "match"} {
		if _, ok := colMap[required]; !ok {
			return nil, fmt.Errorf("could not find '%s' column in rules file", required)
		}
	}

	var rules []model.Rule
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)

		cell := func(col string) string {
			if i, ok := colMap[col]; ok && i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}
		if strings.HasPrefix(cell("direction"), "#") {
			continue
		}

		raw := rawRule{
			Name:        cell("name"),
			Direction:   cell("direction"),
			Target:      cell("target"),
			Protocol:    cell("protocol"),
			Match:       utils.SplitList(cell("match")),
			Initiated:   cell("initiated"),
			IPVersion:   cell("ip_version"),
			LocalPorts:  utils.SplitList(cell("local_ports")),
			RemotePorts: utils.SplitList(cell("remote_ports")),
			Service:     cell("service"),
			Source:      fmt.Sprintf("%s:%d", name, line),
		}
		rule, err := raw.toRule()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
