package validation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ── Types ────────────────────────────────────────────────────────────────────

// Errors collects failed rules per field.
// JSON output: {"errors": {"field": ["msg1", "msg2"]}}
type Errors struct {
	Bag map[string][]string `json:"errors"`
}

func (e *Errors) add(field, msg string) {
	if e.Bag == nil {
		e.Bag = make(map[string][]string)
	}
	e.Bag[field] = append(e.Bag[field], msg)
}

// Has returns true if there are any errors.
func (e *Errors) Has() bool { return len(e.Bag) > 0 }

// First returns the first error for a field.
func (e *Errors) First(field string) string {
	if msgs, ok := e.Bag[field]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Fields returns the failing field names in sorted order.
func (e *Errors) Fields() []string {
	fields := make([]string, 0, len(e.Bag))
	for f := range e.Bag {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Error joins every message, ordered by field name.
func (e *Errors) Error() string {
	var parts []string
	for _, f := range e.Fields() {
		parts = append(parts, e.Bag[f]...)
	}
	return "validation failed: " + strings.Join(parts, " ")
}

// ── Validator ────────────────────────────────────────────────────────────────

// Rules is a map of field → pipe-separated rule string.
// e.g. Rules{"IOC_MAX_DEPTH": "required|integer|gte:0"}
type Rules map[string]string

// Validator validates a flat map of string values.
type Validator struct {
	data   map[string]string
	rules  Rules
	errors *Errors
	ran    bool
}

// Make creates a new Validator.
func Make(data map[string]string, rules Rules) *Validator {
	return &Validator{
		data:   data,
		rules:  rules,
		errors: &Errors{},
	}
}

// Fails runs validation and returns true if any rule fails.
func (v *Validator) Fails() bool {
	v.validate()
	return v.errors.Has()
}

// Passes runs validation and returns true if all rules pass.
func (v *Validator) Passes() bool { return !v.Fails() }

// Errors returns the validation error bag.
func (v *Validator) Errors() *Errors { return v.errors }

// Err runs validation and returns the error bag, or nil when every rule passes.
func (v *Validator) Err() error {
	if v.Fails() {
		return v.errors
	}
	return nil
}

// ── Core validation loop ─────────────────────────────────────────────────────

func (v *Validator) validate() {
	if v.ran {
		return
	}
	v.ran = true

	fields := make([]string, 0, len(v.rules))
	for field := range v.rules {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		value := v.data[field]
		for _, rule := range strings.Split(v.rules[field], "|") {
			rule = strings.TrimSpace(rule)
			if rule == "" {
				continue
			}

			// min:3 → name=min, param=3
			name, param, _ := strings.Cut(rule, ":")

			if name == "nullable" {
				if strings.TrimSpace(value) == "" {
					break
				}
				continue
			}

			check, ok := rules[name]
			if !ok {
				v.errors.add(field, fmt.Sprintf("The %s has an unknown rule %q.", field, name))
				break
			}
			if msg, ok := check(field, value, param); !ok {
				v.errors.add(field, msg)
				break // bail on first failure
			}
		}
	}
}

// ── Rules ────────────────────────────────────────────────────────────────────

// ruleFunc reports whether value passes, and the message when it does not.
type ruleFunc func(field, value, param string) (string, bool)

var rules = map[string]ruleFunc{
	"required": func(field, value, _ string) (string, bool) {
		return fmt.Sprintf("The %s field is required.", field), strings.TrimSpace(value) != ""
	},
	"integer": func(field, value, _ string) (string, bool) {
		_, err := strconv.Atoi(value)
		return fmt.Sprintf("The %s must be an integer.", field), err == nil
	},
	"boolean": func(field, value, _ string) (string, bool) {
		_, err := strconv.ParseBool(value)
		return fmt.Sprintf("The %s field must be true or false.", field), err == nil
	},
	"in": func(field, value, param string) (string, bool) {
		return fmt.Sprintf("The selected %s is invalid.", field), oneOf(value, param)
	},
	"gte": func(field, value, param string) (string, bool) {
		bound, err := strconv.ParseFloat(param, 64)
		if err != nil {
			return fmt.Sprintf("The %s rule has a non-numeric bound %q.", field, param), false
		}
		f, err := strconv.ParseFloat(value, 64)
		return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param), err == nil && f >= bound
	},
}

func oneOf(value, list string) bool {
	for _, a := range strings.Split(list, ",") {
		if strings.TrimSpace(a) == value {
			return true
		}
	}
	return false
}
