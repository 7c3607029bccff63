package catalog

import (
	"groqkit"
	"groqkit/utils"

	"github.com/pkg/errors"
)

// Snapshot renders every named query with its example arguments.
func Snapshot(q *groqkit.Queries) (entries []Entry, err error) {
	for _, n := range groqkit.Catalog() {
		d, rerr := n.Render(q, n.Example)
		if rerr != nil {
			err = errors.Wrapf(rerr, "render %s", n.Name)
			return
		}
		entries = append(entries, Entry{
			Name:        n.Name,
			ContentType: n.Type,
			UseCase:     string(n.UseCase),
			Options:     n.Example,
			Query:       d.Query,
			Params:      utils.FromParams(d.Params),
		})
	}
	return
}
