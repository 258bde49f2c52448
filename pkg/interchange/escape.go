package interchange

import "strings"

const (
	entrySep = '|'
	fieldSep = ':'
	escChar  = '\\'
)

var (
	escaper    = strings.NewReplacer(`\`, `\\`, `:`, `\:`, `|`, `\|`)
	tagEscaper = strings.NewReplacer(`\`, `\\`, `|`, `\|`)
)

func escape(s string) string {
	return escaper.Replace(s)
}

func unescape(s string) string {
	if strings.IndexByte(s, escChar) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == escChar && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// split cuts s on unescaped sep. Escape sequences are kept so the pieces can
// be split again on another separator before unescaping.
func split(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case escChar:
			i++
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// packList joins entries with "|", each entry's fields escaped and joined with ":".
func packList(entries [][]string) string {
	if len(entries) == 0 {
		return ""
	}
	packed := make([]string, len(entries))
	for i, fields := range entries {
		escaped := make([]string, len(fields))
		for j, f := range fields {
			escaped[j] = escape(f)
		}
		packed[i] = strings.Join(escaped, string(fieldSep))
	}
	return strings.Join(packed, string(entrySep))
}

// unpackList is the inverse of packList. Every entry has exactly width
// fields: missing ones are empty, surplus ones are dropped.
func unpackList(cell string, width int) [][]string {
	if cell == "" {
		return nil
	}
	entries := split(cell, entrySep)
	out := make([][]string, 0, len(entries))
	for _, e := range entries {
		raw := split(e, fieldSep)
		fields := make([]string, width)
		for j := 0; j < width && j < len(raw); j++ {
			fields[j] = unescape(raw[j])
		}
		out = append(out, fields)
	}
	return out
}
