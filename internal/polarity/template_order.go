package polarity

// AttributeOrder is the order in which two attributes are first referenced
// by template placeholders.
type AttributeOrder struct {
	OptionAName string
	OptionBName string
}

// ResolveTemplateAttributeOrder determines which of two declared dimensions
// the template references first. Placeholders are resolved against the
// dimension names case-insensitively with non-alphanumerics ignored, and
// the first two distinct resolved names win. When fewer than two distinct
// names resolve, the declared order is returned.
func ResolveTemplateAttributeOrder(template, dimA, dimB string) AttributeOrder {
	declared := AttributeOrder{OptionAName: dimA, OptionBName: dimB}

	byToken := make(map[string]string, 2)
	for _, name := range []string{dimA, dimB} {
		if tok := normalizeName(name); tok != "" {
			if _, taken := byToken[tok]; !taken {
				byToken[tok] = name
			}
		}
	}
	if len(byToken) < 2 {
		return declared
	}

	var resolved []string
	for _, ph := range ParsePlaceholders(template) {
		name, ok := byToken[normalizeName(ph.Name)]
		if !ok {
			continue
		}
		if len(resolved) == 1 && resolved[0] == name {
			continue
		}
		resolved = append(resolved, name)
		if len(resolved) == 2 {
			return AttributeOrder{OptionAName: resolved[0], OptionBName: resolved[1]}
		}
	}

	return declared
}
