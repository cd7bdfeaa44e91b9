package uimap

import "strings"

// Framework identifies a supported CSS framework.
type Framework string

const (
	Bootstrap   Framework = "bootstrap"
	UIKit       Framework = "uikit"
	Tailwind    Framework = "tailwind"
	Foundation  Framework = "foundation"
	Bulma       Framework = "bulma"
	Materialize Framework = "materialize"
)

// ClassMap maps abstract UI class names onto framework-specific classes.
type ClassMap map[string]string

// registry is populated explicitly at init; no name construction at runtime.
var registry = map[Framework]ClassMap{
	Bootstrap:   bootstrapClasses,
	UIKit:       uikitClasses,
	Tailwind:    tailwindClasses,
	Foundation:  foundationClasses,
	Bulma:       bulmaClasses,
	Materialize: materializeClasses,
}

// Known reports whether the framework has a registered class map.
func Known(fw Framework) bool {
	_, ok := registry[fw]
	return ok
}

// Frameworks lists the registered frameworks.
func Frameworks() []Framework {
	return []Framework{Bootstrap, UIKit, Tailwind, Foundation, Bulma, Materialize}
}

// Resolve maps abstract class names to the selected framework's classes.
// Unknown abstract names pass through unchanged; unknown frameworks resolve
// to the abstract names themselves.
func Resolve(fw Framework, abstract ...string) string {
	m := registry[fw]
	out := make([]string, 0, len(abstract))
	for _, name := range abstract {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if m != nil {
			if concrete, ok := m[name]; ok {
				out = append(out, concrete)
				continue
			}
		}
		out = append(out, name)
	}
	return strings.Join(out, " ")
}
