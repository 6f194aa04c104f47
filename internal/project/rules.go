package project

import "strings"

// Rule ties a marker directory name to the project type it indicates.
// Confirm, when non-nil, must approve the names present in the marker's
// parent directory before the classification holds. This disambiguates
// marker names shared across ecosystems: a `target` directory is Rust
// output only when a Cargo.toml sits beside it, Maven output only when
// a pom.xml does.
type Rule struct {
	Marker  string
	Type    Type
	Confirm func(siblings []string) bool
}

// rules is the static classification table. Rules are evaluated in
// order and the first confirmed rule wins, so for shared markers the
// position in this table is the disambiguation priority
// (rust > maven for `target`, maven > gradle for `build`).
var rules = []Rule{
	// Rust
	{Marker: "target", Type: Rust, Confirm: siblingNamed("Cargo.toml")},

	// Node.js
	{Marker: "node_modules", Type: Node},

	// Python virtualenvs and tool caches need no confirmation.
	{Marker: ".venv", Type: Python},
	{Marker: "venv", Type: Python},
	{Marker: "__pycache__", Type: Python},
	{Marker: ".pytest_cache", Type: Python},
	{Marker: ".mypy_cache", Type: Python},
	{Marker: ".ruff_cache", Type: Python},
	{Marker: ".tox", Type: Python},

	// Java (Maven)
	{Marker: "target", Type: Maven, Confirm: siblingNamed("pom.xml")},
	{Marker: "build", Type: Maven, Confirm: siblingNamed("pom.xml")},

	// Gradle
	{Marker: "build", Type: Gradle, Confirm: siblingNamed("build.gradle", "build.gradle.kts")},
	{Marker: ".gradle", Type: Gradle, Confirm: siblingNamed("build.gradle", "build.gradle.kts")},

	// .NET
	{Marker: "bin", Type: DotNet, Confirm: siblingSuffixed(".csproj", ".fsproj", ".sln")},
	{Marker: "obj", Type: DotNet, Confirm: siblingSuffixed(".csproj", ".fsproj", ".sln")},

	// Next.js / Nuxt.js
	{Marker: ".next", Type: NextJS},
	{Marker: ".nuxt", Type: NuxtJS},
}

// Rules returns the full classification table.
func Rules() []Rule {
	return rules
}

// Match classifies a directory given its name and the file names present
// in its parent listing. Only rules whose type passes the enabled filter
// are considered. Returns the matched type and true, or false when the
// name is not a known marker or no confirming sibling is present.
func Match(name string, siblings []string, enabled Set) (Type, bool) {
	for _, r := range rules {
		if r.Marker != name || !enabled.Enabled(r.Type) {
			continue
		}
		if r.Confirm == nil || r.Confirm(siblings) {
			return r.Type, true
		}
	}
	return 0, false
}

// ─── Sibling predicates ──────────────────────────────────────────────────────

// siblingNamed confirms when any of the exact file names is present.
func siblingNamed(names ...string) func([]string) bool {
	return func(siblings []string) bool {
		for _, s := range siblings {
			for _, n := range names {
				if s == n {
					return true
				}
			}
		}
		return false
	}
}

// siblingSuffixed confirms when any sibling name carries one of the
// suffixes (project-file extensions like .csproj or .sln).
func siblingSuffixed(suffixes ...string) func([]string) bool {
	return func(siblings []string) bool {
		for _, s := range siblings {
			for _, suf := range suffixes {
				if strings.HasSuffix(s, suf) {
					return true
				}
			}
		}
		return false
	}
}
