package form

import "fmt"

// Result holds the outcome of validating a whole submission. Errors maps a
// field name to the message to display beside it; valid fields are absent.
type Result struct {
	Errors map[string]string `json:"errors"`
}

func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Validator evaluates a fixed rule table. Every rule's field is required.
type Validator struct {
	rules []Rule
	index map[string]Rule
}

func NewValidator(rules []Rule) *Validator {
	v := &Validator{rules: rules, index: make(map[string]Rule, len(rules))}
	for _, r := range rules {
		v.index[r.Field] = r
	}
	return v
}

// Default returns a validator over DefaultRules.
func Default() *Validator {
	return NewValidator(DefaultRules())
}

// Fields lists the required field names in rule order.
func (v *Validator) Fields() []string {
	out := make([]string, 0, len(v.rules))
	for _, r := range v.rules {
		out = append(out, r.Field)
	}
	return out
}

// ValidateField checks a single field, as done when an input loses focus.
// It returns an empty message when the value is acceptable.
func (v *Validator) ValidateField(field, value string) (string, error) {
	rule, ok := v.index[field]
	if !ok {
		return "", fmt.Errorf("form: unknown field %q", field)
	}
	return check(rule, value), nil
}

// Validate checks every required field. Missing keys count as empty values.
func (v *Validator) Validate(values map[string]string) Result {
	res := Result{Errors: map[string]string{}}
	for _, rule := range v.rules {
		if msg := check(rule, values[rule.Field]); msg != "" {
			res.Errors[rule.Field] = msg
		}
	}
	return res
}

func check(rule Rule, raw string) string {
	value := normalize(raw)
	if value == "" {
		return MsgRequired
	}
	if !rule.Check(value) {
		return rule.Message
	}
	return ""
}
