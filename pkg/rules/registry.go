package rules

import (
	"fmt"
	"sort"
	"strings"

	"themelab-hq/triton/pkg/issue"
	"themelab-hq/triton/pkg/liquid"
)

// Rule IDs for the built-in pattern rules.
const (
	RuleUnknownFilter      = "filter/unknown"
	RuleHallucinatedFilter = "filter/hallucinated"
	RuleDeprecatedFilter   = "filter/deprecated"
	RuleUnknownTag         = "tag/unknown"
	RuleDeprecatedTag      = "tag/deprecated"
	RuleSuspiciousObject   = "object/suspicious"
	RuleUnboundedLoop      = "perf/unbounded-loop"
	RuleNestedLoops        = "perf/nested-loops"
	RuleFilterChain        = "perf/filter-chain"
	RuleUnescapedOutput    = "security/unescaped-output"
	RuleExternalScript     = "store/external-script"
	RuleExternalStylesheet = "store/external-stylesheet"
	RuleConsoleStatement   = "store/console"
	RuleDocumentWrite      = "store/document-write"
)

// maxFilterChain is the longest filter chain tolerated in a single
// output before it counts as unreadable.
const maxFilterChain = 10

// Options carries the configurable data the built-in rules close over.
// The exemption and allow lists are configuration, not code: callers
// load them from the run configuration and hand them in here once.
type Options struct {
	// ExtraFilters extends the official filter registry (theme-specific
	// or app-provided filters).
	ExtraFilters []string

	// UserContentPrefixes are value-path prefixes considered
	// user-controlled and therefore subject to the escaping requirement.
	UserContentPrefixes []string

	// TrustedPrefixes are value-path prefixes exempt from the escaping
	// requirement (rich-text content rendered intentionally as HTML).
	TrustedPrefixes []string

	// ApprovedScriptHosts and ApprovedStyleHosts are hostnames external
	// scripts and stylesheets may load from.
	ApprovedScriptHosts []string
	ApprovedStyleHosts  []string
}

// DefaultOptions returns the built-in exemption and allow lists.
func DefaultOptions() Options {
	return Options{
		UserContentPrefixes: []string{
			"customer.",
			"form.",
			"comment.",
			"search.terms",
			"article.author",
		},
		TrustedPrefixes: []string{
			"product.description",
			"article.content",
			"page.content",
			"block.settings.rich_text",
			"section.settings.rich_text",
		},
		ApprovedScriptHosts: []string{"cdn.shopify.com", "ajax.googleapis.com"},
		ApprovedStyleHosts:  []string{"cdn.shopify.com", "fonts.googleapis.com", "fonts.gstatic.com"},
	}
}

// Registry is the immutable rule table for a process. It is built once
// at startup and shared read-only by every worker.
type Registry struct {
	rules []*Rule
	byID  map[string]*Rule

	filters         map[string]bool
	userPrefixes    []string
	trustedPrefixes []string
	scriptHosts     map[string]bool
	styleHosts      map[string]bool
}

// NewRegistry builds the rule table with the given options. Zero-value
// option fields fall back to the defaults.
func NewRegistry(opts Options) *Registry {
	def := DefaultOptions()
	if opts.UserContentPrefixes == nil {
		opts.UserContentPrefixes = def.UserContentPrefixes
	}
	if opts.TrustedPrefixes == nil {
		opts.TrustedPrefixes = def.TrustedPrefixes
	}
	if opts.ApprovedScriptHosts == nil {
		opts.ApprovedScriptHosts = def.ApprovedScriptHosts
	}
	if opts.ApprovedStyleHosts == nil {
		opts.ApprovedStyleHosts = def.ApprovedStyleHosts
	}

	r := &Registry{
		byID:            map[string]*Rule{},
		filters:         map[string]bool{},
		userPrefixes:    opts.UserContentPrefixes,
		trustedPrefixes: opts.TrustedPrefixes,
		scriptHosts:     hostSet(opts.ApprovedScriptHosts),
		styleHosts:      hostSet(opts.ApprovedStyleHosts),
	}
	for name, ok := range officialFilters {
		if ok {
			r.filters[name] = true
		}
	}
	for _, name := range opts.ExtraFilters {
		r.filters[name] = true
	}

	r.add(&Rule{ID: RuleHallucinatedFilter, Severity: issue.SeverityCritical, Check: r.checkHallucinatedFilters})
	r.add(&Rule{ID: RuleUnknownFilter, Severity: issue.SeverityError, Check: r.checkUnknownFilters})
	r.add(&Rule{ID: RuleDeprecatedFilter, Severity: issue.SeverityWarning, Check: r.checkDeprecatedFilters})
	r.add(&Rule{ID: RuleUnknownTag, Severity: issue.SeverityError, Check: checkUnknownTags})
	r.add(&Rule{ID: RuleDeprecatedTag, Severity: issue.SeverityError, Check: checkDeprecatedTags})
	r.add(&Rule{ID: RuleSuspiciousObject, Severity: issue.SeverityError, Check: checkSuspiciousObjects})
	r.add(&Rule{ID: RuleUnboundedLoop, Severity: issue.SeverityError, Check: checkUnboundedLoops})
	r.add(&Rule{ID: RuleNestedLoops, Severity: issue.SeverityWarning, Check: checkNestedLoops})
	r.add(&Rule{ID: RuleFilterChain, Severity: issue.SeverityWarning, Check: checkFilterChains})
	r.add(&Rule{ID: RuleUnescapedOutput, Severity: issue.SeverityError, Check: r.checkUnescapedOutput})
	r.add(&Rule{ID: RuleExternalScript, Severity: issue.SeverityCritical, Check: r.checkExternalScripts})
	r.add(&Rule{ID: RuleExternalStylesheet, Severity: issue.SeverityError, Check: r.checkExternalStylesheets})
	r.add(&Rule{ID: RuleConsoleStatement, Severity: issue.SeverityError, Check: checkConsoleStatements})
	r.add(&Rule{ID: RuleDocumentWrite, Severity: issue.SeverityCritical, Check: checkDocumentWrite})

	return r
}

func (r *Registry) add(rule *Rule) {
	r.rules = append(r.rules, rule)
	r.byID[rule.ID] = rule
}

// Register adds a custom rule. Must happen before the registry is shared
// with workers; the rule table is read-only afterwards.
func (r *Registry) Register(rule *Rule) {
	r.add(rule)
}

// Rules returns every registered rule in registration order.
func (r *Registry) Rules() []*Rule {
	return r.rules
}

// Lookup returns the rule with the given ID.
func (r *Registry) Lookup(id string) (*Rule, bool) {
	rule, ok := r.byID[id]
	return rule, ok
}

// IDs returns every rule ID, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// eachFilter visits every filter occurrence in the document's output
// markers and filter-bearing tags.
func eachFilter(doc *liquid.Document, visit func(ref filterRef, line int)) {
	for _, out := range doc.Outputs {
		for _, ref := range filtersIn(doc.Source, out.Offset+2, out.End-2) {
			visit(ref, out.Line)
		}
	}
	for _, tag := range doc.Tags {
		switch tag.Name {
		case "assign", "echo", "liquid":
		default:
			continue
		}
		for _, ref := range filtersIn(doc.Source, tag.Offset+2, tag.End-2) {
			visit(ref, tag.Line)
		}
	}
}

func (r *Registry) checkUnknownFilters(doc *liquid.Document) []Match {
	var matches []Match
	eachFilter(doc, func(ref filterRef, line int) {
		if r.filters[ref.name] {
			return
		}
		if _, known := hallucinatedFilters[ref.name]; known {
			return // the hallucinated-filter rule owns these
		}
		matches = append(matches, Match{
			Line:       line,
			Message:    fmt.Sprintf("unknown filter: %s", ref.name),
			Suggestion: "check the filter name against the platform documentation",
		})
	})
	return matches
}

func (r *Registry) checkHallucinatedFilters(doc *liquid.Document) []Match {
	var matches []Match
	eachFilter(doc, func(ref filterRef, line int) {
		hint, ok := hallucinatedFilters[ref.name]
		if !ok {
			return
		}
		matches = append(matches, Match{
			Line:       line,
			Message:    fmt.Sprintf("filter %q does not exist", ref.name),
			Suggestion: hint,
		})
	})
	return matches
}

func (r *Registry) checkDeprecatedFilters(doc *liquid.Document) []Match {
	var matches []Match
	eachFilter(doc, func(ref filterRef, line int) {
		replacement, ok := deprecatedFilters[ref.name]
		if !ok {
			return
		}
		matches = append(matches, Match{
			Line:       line,
			Message:    fmt.Sprintf("deprecated filter: %s", ref.name),
			Suggestion: fmt.Sprintf("use %s instead", replacement),
			HasFix:     true,
			FixStart:   ref.start,
			FixEnd:     ref.end,
			FixText:    replacement,
		})
	})
	return matches
}

func checkSuspiciousObjects(doc *liquid.Document) []Match {
	var matches []Match

	report := func(name string, line int) {
		hint, ok := suspiciousObjects[name]
		if !ok {
			return
		}
		matches = append(matches, Match{
			Line:       line,
			Message:    fmt.Sprintf("object %q does not exist in the platform dialect", name),
			Suggestion: hint,
		})
	}

	for _, out := range doc.Outputs {
		report(leadingIdent(out.Expr), out.Line)
	}
	for _, tag := range doc.Tags {
		switch tag.Name {
		case "if", "unless", "elsif":
			report(leadingIdent(tag.Args), tag.Line)
		case "for", "tablerow":
			if _, coll, ok := forClause(tag.Args); ok {
				report(leadingIdent(coll), tag.Line)
			}
		case "assign":
			if idx := strings.IndexByte(tag.Args, '='); idx >= 0 {
				report(leadingIdent(tag.Args[idx+1:]), tag.Line)
			}
		}
	}
	return matches
}

// largeCollections are global collections whose full iteration is a
// documented performance killer.
var largeCollections = map[string]bool{
	"collections":  true,
	"all_products": true,
}

func checkUnboundedLoops(doc *liquid.Document) []Match {
	var matches []Match
	for _, tag := range doc.Tags {
		if tag.Name != "for" && tag.Name != "tablerow" {
			continue
		}
		_, coll, ok := forClause(tag.Args)
		if !ok {
			continue
		}
		large := largeCollections[coll] || strings.HasPrefix(coll, "collections.all.products")
		if !large {
			continue
		}
		if strings.Contains(tag.Args, "limit:") {
			continue
		}
		matches = append(matches, Match{
			Line:       tag.Line,
			Message:    fmt.Sprintf("unbounded loop over global collection %q", coll),
			Suggestion: "add an explicit limit: bound or paginate",
		})
	}
	return matches
}

// checkNestedLoops flags a conditional nested inside two loops. The walk
// keeps a small tag stack; no pattern ever spans the file.
func checkNestedLoops(doc *liquid.Document) []Match {
	var matches []Match
	var stack []string

	loopDepth := func() int {
		n := 0
		for _, name := range stack {
			if name == "for" || name == "tablerow" {
				n++
			}
		}
		return n
	}

	for _, tag := range doc.Tags {
		if tag.Closing {
			if len(stack) > 0 && stack[len(stack)-1] == tag.BaseName() {
				stack = stack[:len(stack)-1]
			}
			continue
		}
		if !liquid.IsPaired(tag.Name) {
			continue
		}
		switch tag.Name {
		case "if", "unless", "case":
			if loopDepth() >= 2 {
				matches = append(matches, Match{
					Line:       tag.Line,
					Message:    fmt.Sprintf("%s nested inside two loops", tag.Name),
					Suggestion: "filter the collection before iterating",
				})
			}
		}
		stack = append(stack, tag.Name)
	}
	return matches
}

func checkFilterChains(doc *liquid.Document) []Match {
	var matches []Match
	for _, out := range doc.Outputs {
		refs := filtersIn(doc.Source, out.Offset+2, out.End-2)
		if len(refs) >= maxFilterChain {
			matches = append(matches, Match{
				Line:       out.Line,
				Message:    fmt.Sprintf("filter chain with %d filters is unreadable", len(refs)),
				Suggestion: "break the chain into assign statements",
			})
		}
	}
	return matches
}

func (r *Registry) checkUnescapedOutput(doc *liquid.Document) []Match {
	var matches []Match

	for _, out := range doc.Outputs {
		path := basePath(out.Expr)
		if path == "" {
			continue
		}
		if !hasAnyPrefix(path, r.userPrefixes) || hasAnyPrefix(path, r.trustedPrefixes) {
			continue
		}

		escaped := false
		for _, ref := range filtersIn(doc.Source, out.Offset+2, out.End-2) {
			if escapingFilters[ref.name] {
				escaped = true
				break
			}
		}
		if escaped {
			continue
		}

		matches = append(matches, Match{
			Line:       out.Line,
			Message:    fmt.Sprintf("unescaped user content: %s", path),
			Suggestion: "pass the value through the escape filter",
			HasFix:     true,
			FixStart:   out.Offset,
			FixEnd:     out.End,
			FixText:    fmt.Sprintf("{{ %s | escape }}", out.Expr),
		})
	}
	return matches
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func hostSet(hosts []string) map[string]bool {
	set := make(map[string]bool, len(hosts))
	for _, h := range hosts {
		set[strings.ToLower(h)] = true
	}
	return set
}
