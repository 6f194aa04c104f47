package project

// Type identifies a supported project ecosystem.
type Type int

const (
	Rust Type = iota
	Node
	Python
	Maven
	Gradle
	DotNet
	NextJS
	NuxtJS
)

// Name returns the human-readable ecosystem name.
func (t Type) Name() string {
	switch t {
	case Rust:
		return "Rust"
	case Node:
		return "Node.js"
	case Python:
		return "Python"
	case Maven:
		return "Java (Maven)"
	case Gradle:
		return "Gradle"
	case DotNet:
		return ".NET"
	case NextJS:
		return "Next.js"
	case NuxtJS:
		return "Nuxt.js"
	}
	return "Unknown"
}

func (t Type) String() string {
	return t.Name()
}

// All returns every supported project type in canonical display order.
func All() []Type {
	return []Type{Rust, Node, Python, Maven, Gradle, DotNet, NextJS, NuxtJS}
}

// ─── Type sets ───────────────────────────────────────────────────────────────

// Set is an enabled-type filter. A nil or empty Set enables every type,
// matching the CLI convention that passing no ecosystem flag means "all".
type Set map[Type]bool

// NewSet builds a Set containing exactly the given types.
func NewSet(types ...Type) Set {
	s := make(Set, len(types))
	for _, t := range types {
		s[t] = true
	}
	return s
}

// Enabled reports whether t passes the filter.
func (s Set) Enabled(t Type) bool {
	if len(s) == 0 {
		return true
	}
	return s[t]
}
