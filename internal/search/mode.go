package search

import "strings"

// Mode selects what is searched and how.
type Mode int

const (
	ModeFileName Mode = iota
	ModeZip
	ModeLineSearch
	ModeLineRegexSearch
	ModeZipRegex
	ModeJSONPath
	ModePDFSearch
	// ModeFeedSearch is an additional mode over RSS, Atom and JSON feeds.
	ModeFeedSearch
)

var modeInfo = []struct {
	flag  string
	label string
}{
	ModeFileName:        {"file-name", "FileName"},
	ModeZip:             {"zip", "Zip"},
	ModeLineSearch:      {"line-search", "LineSearch"},
	ModeLineRegexSearch: {"line-regex-search", "LineRegexSearch"},
	ModeZipRegex:        {"zip-regex", "ZipRegex"},
	ModeJSONPath:        {"json-path", "JsonPath"},
	ModePDFSearch:       {"pdf-search", "PdfSearch"},
	ModeFeedSearch:      {"feed-search", "FeedSearch"},
}

// Modes lists every mode in declaration order.
func Modes() []Mode {
	modes := make([]Mode, len(modeInfo))
	for i := range modeInfo {
		modes[i] = Mode(i)
	}
	return modes
}

func (m Mode) valid() bool {
	return m >= 0 && int(m) < len(modeInfo)
}

// String returns the display name used in run summaries.
func (m Mode) String() string {
	if !m.valid() {
		return "Unknown"
	}
	return modeInfo[m].label
}

// Flag returns the name accepted on the command line.
func (m Mode) Flag() string {
	if !m.valid() {
		return ""
	}
	return modeInfo[m].flag
}

// RequiresExpression reports whether the mode refuses to run without a
// search expression. Only FileName degrades to plain listing.
func (m Mode) RequiresExpression() bool {
	return m != ModeFileName
}

// ParseMode resolves a command line mode name.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, info := range modeInfo {
		if info.flag == name {
			return Mode(i), nil
		}
	}
	return 0, configErr("unknown mode %q (want one of %s)", s, strings.Join(modeFlags(), ", "))
}

func modeFlags() []string {
	flags := make([]string, len(modeInfo))
	for i, info := range modeInfo {
		flags[i] = info.flag
	}
	return flags
}

// strategyKind is the match strategy a mode pairs with its adapter.
type strategyKind int

const (
	strategyLiteral strategyKind = iota
	strategyRegex
	// strategyQuery adapters interpret the expression themselves.
	strategyQuery
)

type binding struct {
	strategy strategyKind
	adapter  func(m Matcher, expr string, opts Options) Adapter
}

var bindings = map[Mode]binding{
	ModeFileName:        {strategyLiteral, newNameAdapter},
	ModeZip:             {strategyLiteral, newZipAdapter},
	ModeLineSearch:      {strategyLiteral, newLineAdapter},
	ModeLineRegexSearch: {strategyRegex, newLineAdapter},
	ModeZipRegex:        {strategyRegex, newZipAdapter},
	ModeJSONPath:        {strategyQuery, newJSONAdapter},
	ModePDFSearch:       {strategyLiteral, newPDFAdapter},
	ModeFeedSearch:      {strategyLiteral, newFeedAdapter},
}
