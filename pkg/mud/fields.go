package mud

import "sort"

// FieldDescriptions maps MUD container keys to the text used for CLI help.
var FieldDescriptions = map[string]string{
	"mud-version":        "This node specifies the integer version of the MUD specification.",
	"mud-url":            "This URL identifies the MUD file.",
	"to-device-policy":   "The policies that should be enforced on traffic going to the Thing.",
	"from-device-policy": "The policies that should be enforced on traffic coming from the Thing.",
	"last-update":        "This is a date-and-time value of when the MUD file was generated.",
	"cache-validity":     "The period of time in hours that a network management station MUST wait since its last retrieval before checking for an update.",
	"is-supported":       "Whether or not the Thing is supported by the manufacturer.",
	"systeminfo":         "A textual UTF-8 description of the Thing to be connected.",
	"documentation":      "A URL to documentation relating to this device and any information that may be useful to network administrators.",
	"mfg-name":           "Manufacturer name, as specified by RFC 8348.",
	"model-name":         "Model name, as specified by RFC 8348.",
	"firmware-rev":       "Firmware revision, as specified by RFC 8348.",
	"software-rev":       "Software revision, as specified by RFC 8348.",
	"masa-server":        "URI of the Manufacturer Authorized Signing Authority (MASA) server for this device.",
	"extensions":         "Names of MUD extensions used in this file.",
}

// FieldNames returns the keys of FieldDescriptions in sorted order.
func FieldNames() []string {
	names := make([]string, 0, len(FieldDescriptions))
	for name := range FieldDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
