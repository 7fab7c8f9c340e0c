// Package classify turns free-text bracket and result strings into closed
// enum values using ordered rule tables. The tables are season config data:
// they grow every year as the sites invent new labels, so they live outside
// the code and are evaluated strictly in priority order with a loud failure
// when nothing matches.
package classify

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ikwf-tools/seedline/internal/model"
)

// Rule is one (predicate, value) entry. Exactly one of Contains or Regex
// must be set; predicates match case-insensitively against the whole input.
type Rule struct {
	Contains string `yaml:"contains,omitempty"`
	Regex    string `yaml:"regex,omitempty"`
	Value    string `yaml:"value"`
}

type compiledRule struct {
	contains string
	re       *regexp.Regexp
	value    string
}

// Classifier evaluates an ordered rule table. First matching rule wins; an
// input no rule matches is a hard error so the missing rule gets added
// instead of data being guessed at.
type Classifier struct {
	kind  string
	rules []compiledRule
}

// NewClassifier compiles a rule table. kind names the table in error
// messages ("division", "result type").
func NewClassifier(kind string, rules []Rule) (*Classifier, error) {
	if len(rules) == 0 {
		return nil, eris.Errorf("classify: empty %s rule table", kind)
	}
	compiled := make([]compiledRule, 0, len(rules))
	for i, r := range rules {
		if (r.Contains == "") == (r.Regex == "") {
			return nil, eris.Errorf("classify: %s rule %d must set exactly one of contains/regex", kind, i)
		}
		if r.Value == "" {
			return nil, eris.Errorf("classify: %s rule %d has no value", kind, i)
		}
		c := compiledRule{contains: strings.ToLower(r.Contains), value: r.Value}
		if r.Regex != "" {
			re, err := regexp.Compile("(?i)" + r.Regex)
			if err != nil {
				return nil, eris.Wrapf(err, "classify: %s rule %d regex", kind, i)
			}
			c.re = re
		}
		compiled = append(compiled, c)
	}
	return &Classifier{kind: kind, rules: compiled}, nil
}

// Classify returns the value of the first rule matching input.
func (c *Classifier) Classify(input string) (string, error) {
	lowered := strings.ToLower(input)
	for _, r := range c.rules {
		if r.re != nil {
			if r.re.MatchString(input) {
				return r.value, nil
			}
			continue
		}
		if strings.Contains(lowered, r.contains) {
			return r.value, nil
		}
	}
	return "", eris.Errorf("classify: no %s rule matches %q", c.kind, input)
}

// DivisionUnknown is the rule value for bracket labels that legitimately
// carry no division information; it classifies to a nil division.
const DivisionUnknown = "unknown"

// DivisionClassifier maps free-text bracket labels to divisions.
type DivisionClassifier struct {
	inner *Classifier
}

// NewDivisionClassifier compiles a division rule table, rejecting values
// that are neither legal divisions nor the explicit "unknown" marker.
func NewDivisionClassifier(rules []Rule) (*DivisionClassifier, error) {
	inner, err := NewClassifier("division", rules)
	if err != nil {
		return nil, err
	}
	for i, r := range rules {
		if r.Value == DivisionUnknown {
			continue
		}
		if !model.Division(r.Value).Valid() {
			return nil, eris.Errorf("classify: division rule %d has unknown division %q", i, r.Value)
		}
	}
	return &DivisionClassifier{inner: inner}, nil
}

// Classify returns the division for a bracket label, or nil when the
// matching rule marks the label as carrying no division.
func (c *DivisionClassifier) Classify(bracket string) (*model.Division, error) {
	value, err := c.inner.Classify(bracket)
	if err != nil {
		return nil, err
	}
	if value == DivisionUnknown {
		return nil, nil
	}
	division := model.Division(value)
	return &division, nil
}

// ResultTypeClassifier maps free-text result strings to result types.
type ResultTypeClassifier struct {
	inner *Classifier
}

var validResultTypes = map[string]struct{}{
	string(model.ResultDecision): {},
	string(model.ResultMajor):    {},
	string(model.ResultTech):     {},
	string(model.ResultPin):      {},
	string(model.ResultOvertime): {},
}

// NewResultTypeClassifier compiles a result-type rule table, rejecting
// values that are not legal result types.
func NewResultTypeClassifier(rules []Rule) (*ResultTypeClassifier, error) {
	inner, err := NewClassifier("result type", rules)
	if err != nil {
		return nil, err
	}
	for i, r := range rules {
		if _, ok := validResultTypes[r.Value]; !ok {
			return nil, eris.Errorf("classify: result rule %d has unknown result type %q", i, r.Value)
		}
	}
	return &ResultTypeClassifier{inner: inner}, nil
}

// Classify returns the result type for a result string.
func (c *ResultTypeClassifier) Classify(result string) (model.ResultType, error) {
	value, err := c.inner.Classify(result)
	if err != nil {
		return "", err
	}
	return model.ResultType(value), nil
}
