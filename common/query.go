package common

// Condition is one boolean predicate inside a filter. Implementations carry
// field paths and placeholder names only, never caller values.
type Condition interface {
	Render() string
	Placeholders() []string
}
