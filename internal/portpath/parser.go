package portpath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// moduleSegmentRegex matches one instance name of the module path.
	moduleSegmentRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_-]*$`)
	// portRegex matches the trailing `prefix` or `prefix[1]` part.
	portRegex = regexp.MustCompile(`^([a-zA-Z0-9_]*)(?:\[(\d+)\])?$`)
)

// Parse creates a new Path by parsing its canonical string representation.
func Parse(raw string) (*Path, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("port path cannot be empty")
	}

	dot := strings.LastIndex(raw, ".")
	if dot < 0 {
		return nil, fmt.Errorf("port path %q must have the form <module>.<prefix>", raw)
	}
	modulePart, portPart := raw[:dot], raw[dot+1:]

	if modulePart == "" {
		return nil, fmt.Errorf("port path %q has an empty module path", raw)
	}

	p := &Path{Index: -1}
	for _, seg := range strings.Split(modulePart, ".") {
		if seg == "" {
			return nil, fmt.Errorf("port path %q contains an empty segment", raw)
		}
		if !moduleSegmentRegex.MatchString(seg) {
			return nil, fmt.Errorf("invalid module segment %q in port path %q", seg, raw)
		}
		p.Module = append(p.Module, seg)
	}

	matches := portRegex.FindStringSubmatch(portPart)
	if matches == nil {
		return nil, fmt.Errorf("invalid port prefix %q in port path %q", portPart, raw)
	}
	p.Prefix = matches[1]
	if matches[2] != "" {
		index, err := strconv.Atoi(matches[2])
		if err != nil {
			// Unreachable due to regex `\d+`
			return nil, fmt.Errorf("internal error parsing index: %w", err)
		}
		p.Index = index
	}

	return p, nil
}
