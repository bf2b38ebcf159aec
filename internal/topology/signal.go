package topology

import (
	"regexp"
	"strings"

	"github.com/vk/socgen/internal/source"
)

// Direction is the port direction of a module-level signal.
type Direction int

const (
	DirNone Direction = iota
	DirInput
	DirOutput
	DirInout
)

func (d Direction) String() string {
	switch d {
	case DirInput:
		return "input"
	case DirOutput:
		return "output"
	case DirInout:
		return "inout"
	default:
		return ""
	}
}

// suffixPattern matches the conventional direction suffix of a wire name,
// optionally followed by a one-letter replica tag.
var suffixPattern = regexp.MustCompile(`_(ni|nio|i|o|io|no)([ABC]?)$`)

// tagPattern extracts the replica tag that disambiguates e.g. clk_iA from
// clk_iB.
var tagPattern = regexp.MustCompile(`([ABC])$`)

// Signal is one wire of a module or an interface port.
type Signal struct {
	Basename   string
	Prefix     string
	Capitalize bool
	Width      uint
	Direction  Direction

	Clock      bool
	Reset      bool
	ActiveLow  bool
	ActiveHigh bool
	Propagate  bool

	// Request and Response tag interface signals.
	Request  bool
	Response bool

	DataType string

	// Routing hints for non-default connectivity.
	To        string
	From      string
	RoutePath string

	node source.Node
}

func newSignal(n source.Node, prefix string, capitalize bool) (*Signal, error) {
	s := &Signal{
		Basename:   n.InstName(),
		Prefix:     prefix,
		Capitalize: capitalize,
		Width:      n.Width(),
		ActiveLow:  source.BoolProperty(n, "activelow"),
		ActiveHigh: source.BoolProperty(n, "activehigh"),
		Propagate:  source.BoolProperty(n, "propagate"),
		Request:    source.BoolProperty(n, "request"),
		Response:   source.BoolProperty(n, "response"),
		node:       n,
	}
	s.DataType, _ = source.StringProperty(n, "datatype")
	s.To, _ = source.StringProperty(n, "to")
	s.From, _ = source.StringProperty(n, "from")
	s.RoutePath, _ = source.StringProperty(n, "path")

	in := source.BoolProperty(n, "input")
	out := source.BoolProperty(n, "output")
	inout := source.BoolProperty(n, "inout")
	switch {
	case in && out, inout && (in || out):
		return nil, invariantErr(n.Path(), "signal is declared with more than one direction")
	case in:
		s.Direction = DirInput
	case out:
		s.Direction = DirOutput
	case inout:
		s.Direction = DirInout
	}

	if kind, ok := source.StringProperty(n, "signal_type"); ok {
		switch kind {
		case "clk":
			s.Clock = true
		case "rst":
			s.Reset = true
		default:
			e := configErr(n.Path(), "unknown signal_type")
			e.Expected, e.Found = `"clk" or "rst"`, kind
			return nil, e
		}
	}
	if (s.Clock || s.Reset) && s.Direction == DirNone {
		s.Direction = DirInput
	}

	if s.ActiveLow && s.ActiveHigh {
		return nil, invariantErr(n.Path(), "signal is declared both active low and active high")
	}
	if s.Request && s.Response {
		return nil, invariantErr(n.Path(), "interface signal is tagged both request and response")
	}
	return s, nil
}

// Name is the full wire name: prefix and basename, upper-cased when the
// owning port asks for it.
func (s *Signal) Name() string {
	name := s.Prefix + s.Basename
	if s.Capitalize {
		return strings.ToUpper(name)
	}
	return name
}

// Node returns the source node the signal was built from.
func (s *Signal) Node() source.Node {
	return s.node
}

// IsPort reports whether the signal crosses its module's boundary.
func (s *Signal) IsPort() bool {
	return s.Direction != DirNone
}

// withPrefix returns a copy of s under a different prefix, used when a
// signal is re-exposed one level up.
func (s *Signal) withPrefix(prefix string) *Signal {
	cp := *s
	cp.Prefix = prefix
	return &cp
}

// stripSuffix removes the direction suffix of a wire name and keeps any
// replica tag, so "rst_niA" becomes "rstA".
func stripSuffix(name string) string {
	return suffixPattern.ReplaceAllString(name, "$2")
}

func replicaTag(name string) string {
	m := tagPattern.FindStringSubmatch(stripSuffix(name))
	if m == nil {
		return ""
	}
	return m[1]
}

// hintMatches reports whether a routing hint such as "uart0.irq_o" refers to
// a signal called name, allowing a direction suffix on the hint.
func hintMatches(hint, name string) bool {
	if hint == "" {
		return false
	}
	last := hint[strings.LastIndex(hint, ".")+1:]
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(name) + `(_(ni|nio|i|o|io|no))?$`)
	return re.MatchString(last)
}

// hintRefers reports whether a routing hint and a signal name refer to the
// same wire, allowing a direction suffix on either side.
func hintRefers(hint, name string) bool {
	if hint == "" {
		return false
	}
	return hintMatches(hint, name) || hintMatches(name, hint[strings.LastIndex(hint, ".")+1:])
}

// hintModule returns the module segment preceding the signal name in a
// routing hint, or "" when the hint has a single segment.
func hintModule(hint string) string {
	parts := strings.Split(hint, ".")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}
