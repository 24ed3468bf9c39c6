package wellknown

import (
	"bytes"
	"encoding/csv"
	"io"
	"log"
	"strconv"
	"strings"

	_ "embed"

	"muddy/pkg/mud"
)

//go:embed well_known_ports.csv
var wellKnownPortsData string

type ServiceEntry struct {
	Protocol mud.Protocol
	Port     int
}

var serviceRegistry map[string][]ServiceEntry

// aliases maps common names onto registry names.
var aliases = map[string]string{
	"DNS":   "DOMAIN",
	"DOT":   "DOMAIN-S",
	"MQTTS": "SECURE-MQTT",
}

func init() {
	serviceRegistry = make(map[string][]ServiceEntry)
	reader := csv.NewReader(bytes.NewBufferString(wellKnownPortsData))
	reader.TrimLeadingSpace = true
	// Skip header
	if _, err := reader.Read(); err != nil {
		log.Fatalf("Failed to read header from embedded well_known_ports.csv: %v", err)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("Failed to parse embedded well_known_ports.csv: %v", err)
		}
		if len(record) < 3 {
			continue
		}

		port, err := strconv.Atoi(record[0])
		if err != nil {
			continue // Skip if port is not a valid number
		}

		register(record[1], mud.TCP, port)
		register(record[2], mud.UDP, port)
	}
}

func register(name string, protocol mud.Protocol, port int) {
	name = strings.TrimSpace(name)
	if name == "" || name == "N/A" {
		return
	}
	key := strings.ToUpper(name)
	serviceRegistry[key] = append(serviceRegistry[key], ServiceEntry{Protocol: protocol, Port: port})
}

// GetService returns the port and protocol entries for a well-known service name.
func GetService(name string) ([]ServiceEntry, bool) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	entry, ok := serviceRegistry[key]
	return entry, ok
}

// Lookup returns the entry for name restricted to protocol. mud.Any picks
// the first registered entry, TCP before UDP.
func Lookup(name string, protocol mud.Protocol) (ServiceEntry, bool) {
	entries, ok := GetService(name)
	if !ok {
		return ServiceEntry{}, false
	}
	for _, entry := range entries {
		if protocol == mud.Any || entry.Protocol == protocol {
			return entry, true
		}
	}
	return ServiceEntry{}, false
}
