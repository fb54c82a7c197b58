package framework

import (
	"fmt"
	"regexp"
	"strings"
)

// Filter решает, запускать ли сценарий.
type Filter func(TestID) bool

type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

func (r RegexFilters) AsFilter(id TestID) bool {
	name := id.String()
	return (!r.MustMatch.IsDefined() || r.MustMatch.AnyMatch(name)) &&
		!r.MustNotMatch.AnyMatch(name)
}

// Describe - человекочитаемое описание фильтров, пустая строка если их нет.
func (r RegexFilters) Describe() string {
	var parts []string
	if r.MustMatch.IsDefined() {
		parts = append(parts, fmt.Sprintf("только %s", r.MustMatch))
	}
	if r.MustNotMatch.IsDefined() {
		parts = append(parts, fmt.Sprintf("кроме %s", r.MustNotMatch))
	}
	return strings.Join(parts, ", ")
}

type RegexList struct {
	patterns []*regexp.Regexp
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set вызывается парсером флагов
func (r *RegexList) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	r.patterns = append(r.patterns, rx)
	return nil
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

func (r RegexList) AnyMatch(s string) bool {
	for _, p := range r.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
