// Package core contains the canonical authentication domain contracts,
// configuration, and error taxonomy. Backend and transport adapters must
// depend on this package; core must not depend on any sibling package.
package core
