// Package filter translates single-clause SCIM filter expressions into the
// upstream query-filter syntax.
package filter

import (
	"errors"
	"regexp"
	"strings"
)

// ErrUnsupported marks a filter that cannot be translated: multi-clause
// expressions, unparseable input, or an unknown operator. Callers degrade to
// an unfiltered query; the sentinel keeps "filter ignored" distinguishable
// from "no filter requested".
var ErrUnsupported = errors.New("unsupported SCIM filter")

// Clause is one parsed attribute-operator-value triple.
type Clause struct {
	Attribute string
	Operator  string
	Value     string
}

// clausePattern accepts exactly one clause: attribute, operator, optional
// quoted-or-bare value. Anything beyond a single clause fails to match.
var clausePattern = regexp.MustCompile(`^(\S+)\s+(\S+)(?:\s+(?:"([^"]*)"|([^"\s]+)))?\s*$`)

// attributeMapping maps SCIM attribute paths to their upstream names.
// Unmapped attributes pass through unchanged.
var attributeMapping = map[string]string{
	"userName":        "userPrincipalName",
	"name.familyName": "surname",
	"name.givenName":  "givenName",
	"displayName":     "displayName",
	"emails.value":    "mail",
	"active":          "accountEnabled",
	"id":              "id",
	"externalId":      "userPrincipalName",
}

const operatorPresent = "pr"

var operatorMapping = map[string]string{
	"eq": "eq",
	"ne": "ne",
	"co": "contains",
	"sw": "startswith",
	"ew": "endswith",
	"gt": "gt",
	"ge": "ge",
	"lt": "lt",
	"le": "le",
}

// Parse extracts the single clause from a SCIM filter expression.
func Parse(expr string) (*Clause, error) {
	match := clausePattern.FindStringSubmatch(expr)
	if match == nil {
		return nil, ErrUnsupported
	}

	value := match[3]
	if value == "" {
		value = match[4]
	}

	return &Clause{
		Attribute: match[1],
		Operator:  match[2],
		Value:     value,
	}, nil
}

// Translate renders the upstream filter fragment for a SCIM filter
// expression. An empty expression yields an empty fragment with no error; an
// untranslatable one yields ErrUnsupported.
func Translate(expr string) (string, error) {
	if expr == "" {
		return "", nil
	}

	clause, err := Parse(expr)
	if err != nil {
		return "", err
	}

	attribute := clause.Attribute
	if mapped, ok := attributeMapping[attribute]; ok {
		attribute = mapped
	}

	// The present operator ignores any supplied value.
	if clause.Operator == operatorPresent {
		return attribute + " ne null", nil
	}

	operator, ok := operatorMapping[clause.Operator]
	if !ok {
		return "", ErrUnsupported
	}

	return attribute + " " + operator + " " + renderValue(clause.Value), nil
}

// renderValue types the raw value heuristically: booleans and digit-only
// strings render unquoted, everything else single-quoted.
func renderValue(value string) string {
	lowered := strings.ToLower(value)
	if lowered == "true" || lowered == "false" {
		return lowered
	}

	if value != "" && isDigits(value) {
		return value
	}

	return "'" + value + "'"
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
