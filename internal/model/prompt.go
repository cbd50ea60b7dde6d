package model

import (
	"fmt"
	"regexp"
	"time"
)

// placeholderPattern builds the whitespace-tolerant {{ name }} matcher for one
// variable name.
func placeholderPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`\{\{\s*` + regexp.QuoteMeta(name) + `\s*\}\}`)
}

// Render substitutes declared variables into the prompt content. The effective
// value per variable is the provided non-empty value, else the declared
// default, else the empty string. Placeholders without a matching declaration
// are left untouched. There is no recursive substitution and no escaping.
func (p Prompt) Render(values map[string]Value) string {
	out := p.Content
	for _, v := range p.Variables {
		effective := StringValue("")
		if got, ok := values[v.Name]; ok && !got.IsEmpty() {
			effective = got
		} else if v.DefaultValue != nil {
			effective = *v.DefaultValue
		}
		out = placeholderPattern(v.Name).ReplaceAllLiteralString(out, effective.String())
	}
	return out
}

// ValidateValues checks the provided values against the declared variables and
// returns human-readable problems. It never fails hard; callers decide whether
// a non-empty list is fatal. Variables absent from values and not required are
// fine: defaults apply silently at render time.
func (p Prompt) ValidateValues(values map[string]Value) []string {
	var errs []string
	for _, v := range p.Variables {
		got, ok := values[v.Name]
		if !ok || got.IsEmpty() {
			if v.Required {
				errs = append(errs, fmt.Sprintf("variable %q is required but not provided", v.Name))
			}
			continue
		}
		if msg := got.CheckType(v.Type); msg != "" {
			errs = append(errs, fmt.Sprintf("variable %q %s", v.Name, msg))
		}
	}
	return errs
}

// WithUpdates returns a copy of the prompt with the set fields of u applied
// and UpdatedAt stamped to now. The receiver is left unchanged.
func (p Prompt) WithUpdates(u PromptUpdate, now time.Time) Prompt {
	out := p
	out.Tags = cloneTags(p.Tags)
	out.Variables = cloneVariables(p.Variables)
	if u.Name != nil {
		out.Name = *u.Name
	}
	if u.Description != nil {
		out.Description = *u.Description
	}
	if u.Content != nil {
		out.Content = *u.Content
	}
	if u.Category != nil {
		out.Category = *u.Category
	}
	if u.Tags != nil {
		out.Tags = cloneTags(*u.Tags)
	}
	if u.Version != nil {
		out.Version = *u.Version
	}
	if u.Author != nil {
		out.Author = *u.Author
	}
	if u.Variables != nil {
		out.Variables = cloneVariables(*u.Variables)
	}
	out.UpdatedAt = now
	return out
}

// WithFavorite returns a copy with the favorite flag applied. Favoriting is
// independent of content updates, so UpdatedAt is not refreshed.
func (p Prompt) WithFavorite(fav bool) Prompt {
	out := p
	out.Tags = cloneTags(p.Tags)
	out.Variables = cloneVariables(p.Variables)
	out.IsFavorite = fav
	return out
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

func cloneVariables(vars []Variable) []Variable {
	if vars == nil {
		return nil
	}
	out := make([]Variable, len(vars))
	copy(out, vars)
	return out
}
