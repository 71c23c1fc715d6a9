// Package secrets redacts credentials from text before it leaves the process.
//
// Repository content is sent verbatim to the generation backend. Source trees
// routinely carry committed keys in fixtures and example configs, so the
// summarize service can run each blob through a Scrubber first. Findings
// never carry the matched value.
package secrets

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Placeholder replaces every redacted span.
const Placeholder = "[REDACTED]"

// Rule describes one credential shape.
type Rule struct {
	ID      string
	Pattern string

	// Keywords gate the regexp: when set, the rule only runs if the text
	// contains one of them (case-insensitive).
	Keywords []string
}

// Finding locates one redaction in the original text.
type Finding struct {
	RuleID string `json:"ruleId"`
	Line   int    `json:"line"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// Result is the outcome of one Scrub call.
type Result struct {
	Text     string
	Findings []Finding
}

// ByRule counts findings per rule ID.
func (r *Result) ByRule() map[string]int {
	counts := make(map[string]int, len(r.Findings))
	for _, f := range r.Findings {
		counts[f.RuleID]++
	}
	return counts
}

type compiledRule struct {
	id       string
	re       *regexp.Regexp
	keywords []string
}

// Scrubber applies a fixed rule set. It is safe for concurrent use.
type Scrubber struct {
	rules []compiledRule
	allow []*regexp.Regexp
}

// New compiles rules and allow patterns. Matches that also match an allow
// pattern are left in place.
func New(rules []Rule, allow []string) (*Scrubber, error) {
	s := &Scrubber{}
	for _, r := range rules {
		if r.ID == "" {
			return nil, fmt.Errorf("rule with pattern %q has no id", r.Pattern)
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %s: invalid pattern: %w", r.ID, err)
		}
		kws := make([]string, len(r.Keywords))
		for i, kw := range r.Keywords {
			kws[i] = strings.ToLower(kw)
		}
		s.rules = append(s.rules, compiledRule{id: r.ID, re: re, keywords: kws})
	}
	for _, p := range allow {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid allow pattern %q: %w", p, err)
		}
		s.allow = append(s.allow, re)
	}
	return s, nil
}

// Default returns a Scrubber with DefaultRules and no allow list.
func Default() *Scrubber {
	s, err := New(DefaultRules(), nil)
	if err != nil {
		panic(err)
	}
	return s
}

type span struct {
	start, end int
	ruleID     string
}

// Scrub returns text with every rule match replaced by Placeholder.
// Overlapping matches collapse into one redaction attributed to the rule
// that matched first in the text.
func (s *Scrubber) Scrub(text string) *Result {
	if s == nil || text == "" {
		return &Result{Text: text}
	}

	lower := strings.ToLower(text)
	var spans []span
	for _, r := range s.rules {
		if !hasKeyword(lower, r.keywords) {
			continue
		}
		for _, loc := range r.re.FindAllStringIndex(text, -1) {
			if s.allowed(text[loc[0]:loc[1]]) {
				continue
			}
			spans = append(spans, span{start: loc[0], end: loc[1], ruleID: r.id})
		}
	}
	if len(spans) == 0 {
		return &Result{Text: text}
	}

	spans = merge(spans)

	var b strings.Builder
	b.Grow(len(text))
	findings := make([]Finding, 0, len(spans))
	prev := 0
	for _, sp := range spans {
		b.WriteString(text[prev:sp.start])
		b.WriteString(Placeholder)
		prev = sp.end
		findings = append(findings, Finding{
			RuleID: sp.ruleID,
			Line:   strings.Count(text[:sp.start], "\n") + 1,
			Start:  sp.start,
			End:    sp.end,
		})
	}
	b.WriteString(text[prev:])

	return &Result{Text: b.String(), Findings: findings}
}

func (s *Scrubber) allowed(match string) bool {
	for _, re := range s.allow {
		if re.MatchString(match) {
			return true
		}
	}
	return false
}

func hasKeyword(lower string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// merge sorts spans by start and folds overlapping or adjacent ones.
func merge(spans []span) []span {
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	out := []span{spans[0]}
	for _, cur := range spans[1:] {
		last := &out[len(out)-1]
		if cur.start <= last.end {
			if cur.end > last.end {
				last.end = cur.end
			}
			continue
		}
		out = append(out, cur)
	}
	return out
}
