package httpclient

import (
	"fmt"
	"regexp"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const relMore = "more"

var reLink = regexp.MustCompile(`<([^>]+)>;\s*rel="([^"]+)"`)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ParseLinkHeader returns the URLs in a Link header keyed by their relation.
// Links are separated by commas.
func ParseLinkHeader(value string) (map[string]string, error) {
	result := make(map[string]string)
	last := 0
	for _, match := range reLink.FindAllStringSubmatchIndex(value, -1) {
		if sep := strings.TrimSpace(value[last:match[0]]); sep != "" && !(last > 0 && sep == ",") {
			return nil, fmt.Errorf("link header %q does not follow the expected format", value)
		}
		result[value[match[4]:match[5]]] = value[match[2]:match[3]]
		last = match[1]
	}
	if strings.TrimSpace(value[last:]) != "" {
		return nil, fmt.Errorf("link header %q does not follow the expected format", value)
	}
	return result, nil
}
