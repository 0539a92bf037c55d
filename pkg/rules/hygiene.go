package rules

import (
	"fmt"
	"strings"

	"themelab-hq/triton/pkg/liquid"
)

// Store hygiene rules scan the raw source line by line. Each check is a
// substring search with a small fixed window around the hit, so cost is
// linear in file size.

func (r *Registry) checkExternalScripts(doc *liquid.Document) []Match {
	return checkExternalRefs(doc, "<script", "src", r.scriptHosts,
		"external script host %q is not on the approved CDN list",
		"host the script as a theme asset or use the platform CDN")
}

func (r *Registry) checkExternalStylesheets(doc *liquid.Document) []Match {
	return checkExternalRefs(doc, "<link", "href", r.styleHosts,
		"external stylesheet host %q is not on the approved CDN list",
		"bundle the CSS as a theme asset")
}

func checkExternalRefs(doc *liquid.Document, tag, attr string, approved map[string]bool, msgFormat, suggestion string) []Match {
	var matches []Match

	for lineNo, line := range strings.Split(doc.Source, "\n") {
		pos := 0
		for {
			rel := strings.Index(line[pos:], tag)
			if rel < 0 {
				break
			}
			at := pos + rel
			pos = at + len(tag)

			host := attrHost(line[at:], attr)
			if host == "" || approved[host] {
				continue
			}
			matches = append(matches, Match{
				Line:       lineNo + 1,
				Message:    fmt.Sprintf(msgFormat, host),
				Suggestion: suggestion,
			})
		}
	}
	return matches
}

// attrHost extracts the hostname of an absolute URL in the given
// attribute within one element's text, or "" when the attribute is
// missing, relative, or not absolute.
func attrHost(elem, attr string) string {
	end := strings.IndexByte(elem, '>')
	if end >= 0 {
		elem = elem[:end]
	}

	idx := strings.Index(elem, attr+"=")
	if idx < 0 {
		return ""
	}
	rest := elem[idx+len(attr)+1:]
	if rest == "" {
		return ""
	}
	quote := rest[0]
	if quote != '"' && quote != '\'' {
		return ""
	}
	rest = rest[1:]
	if closing := strings.IndexByte(rest, quote); closing >= 0 {
		rest = rest[:closing]
	}

	var hostStart int
	switch {
	case strings.HasPrefix(rest, "https://"):
		hostStart = len("https://")
	case strings.HasPrefix(rest, "http://"):
		hostStart = len("http://")
	case strings.HasPrefix(rest, "//"):
		hostStart = 2
	default:
		return ""
	}
	host := rest[hostStart:]
	if slash := strings.IndexByte(host, '/'); slash >= 0 {
		host = host[:slash]
	}
	return strings.ToLower(host)
}

var consoleMethods = []string{"log", "error", "warn", "info", "debug", "trace"}

func checkConsoleStatements(doc *liquid.Document) []Match {
	var matches []Match

	for lineNo, line := range strings.Split(doc.Source, "\n") {
		pos := 0
		for {
			rel := strings.Index(line[pos:], "console.")
			if rel < 0 {
				break
			}
			at := pos + rel
			pos = at + len("console.")

			rest := line[pos:]
			for _, m := range consoleMethods {
				if strings.HasPrefix(rest, m) {
					matches = append(matches, Match{
						Line:       lineNo + 1,
						Message:    fmt.Sprintf("console.%s left in theme code", m),
						Suggestion: "remove debug statements before release",
					})
					break
				}
			}
		}
	}
	return matches
}

func checkDocumentWrite(doc *liquid.Document) []Match {
	var matches []Match
	for lineNo, line := range strings.Split(doc.Source, "\n") {
		if strings.Contains(line, "document.write") {
			matches = append(matches, Match{
				Line:       lineNo + 1,
				Message:    "document.write blocks rendering and breaks modern browsers",
				Suggestion: "use DOM insertion instead",
			})
		}
	}
	return matches
}
