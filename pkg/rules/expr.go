package rules

import "strings"

// filterRef is one filter occurrence inside a marker body, with the
// absolute byte span of its name in the source.
type filterRef struct {
	name  string
	start int
	end   int
}

// filtersIn scans src[start:end] for filter applications. It is a single
// quote-aware pass splitting on '|'; pipes inside string literals do not
// count.
func filtersIn(src string, start, end int) []filterRef {
	var refs []filterRef
	var quote byte

	for i := start; i < end; i++ {
		c := src[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '|':
			j := i + 1
			for j < end && (src[j] == ' ' || src[j] == '\t') {
				j++
			}
			k := j
			for k < end && isIdentByte(src[k]) {
				k++
			}
			if k > j {
				refs = append(refs, filterRef{name: src[j:k], start: j, end: k})
			}
		}
	}
	return refs
}

// leadingIdent returns the first identifier of an expression, skipping
// leading whitespace.
func leadingIdent(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	j := i
	for j < len(s) && isIdentByte(s[j]) {
		j++
	}
	return s[i:j]
}

// basePath returns the dotted value path of an expression up to the
// first filter pipe, whitespace-trimmed ("customer.first_name | escape"
// -> "customer.first_name").
func basePath(expr string) string {
	if idx := strings.IndexByte(expr, '|'); idx >= 0 {
		expr = expr[:idx]
	}
	return strings.TrimSpace(expr)
}

// forClause splits a for/tablerow argument list into the iteration
// variable and collection expression ("item in collections.all.products
// limit: 4" -> "item", "collections.all.products").
func forClause(args string) (variable, collection string, ok bool) {
	fields := strings.Fields(args)
	if len(fields) < 3 || fields[1] != "in" {
		return "", "", false
	}
	return fields[0], fields[2], true
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
