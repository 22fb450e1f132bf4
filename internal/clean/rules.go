package clean

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v2"
)

// ErrBadRules is returned when a rules file cannot be decoded or a
// pattern does not compile.
var ErrBadRules = errors.New("malformed rules file")

// Rule is one ordered regex correction: pattern and replacement.
// Rules apply in file order; later rules operate on the text produced
// by earlier ones, so order is significant.
type Rule struct {
	Pattern     string
	Replacement string

	re *regexp.Regexp
}

// CompileRule builds a single rule.
func CompileRule(pattern, replacement string) (Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("%w: pattern %q: %v", ErrBadRules, pattern, err)
	}
	return Rule{Pattern: pattern, Replacement: replacement, re: re}, nil
}

// LoadRules reads an ordered rules file. The file is a YAML mapping of
// pattern to replacement, decoded as yaml.MapSlice so the file order of
// the rules is preserved. A missing file yields no rules.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read rules: %w", err)
	}

	var raw yaml.MapSlice
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadRules, path, err)
	}

	rules := make([]Rule, 0, len(raw))
	for _, item := range raw {
		pattern, ok := item.Key.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s: non-string pattern %v", ErrBadRules, path, item.Key)
		}
		replacement, ok := item.Value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s: non-string replacement for %q", ErrBadRules, path, pattern)
		}
		rule, err := CompileRule(pattern, replacement)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Apply runs the rules over text in order.
func Apply(rules []Rule, text string) string {
	for _, r := range rules {
		text = r.re.ReplaceAllString(text, r.Replacement)
	}
	return text
}
