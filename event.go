package groqkit

import (
	"groqkit/common"
	"groqkit/query"
	"time"
)

var eventOrder = []query.Order{query.Ascending("startDate"), query.Ascending("title")}

// EventListOptions selects trade shows and field demonstrations.
type EventListOptions struct {
	Featured bool
	// Upcoming keeps events starting at or after Now.
	Upcoming bool
	// Now is the reference instant for Upcoming. It is an option rather
	// than the clock so that identical options give identical queries.
	Now    time.Time
	Sort   string
	Limit  int
	Offset int
}

var eventListKeys = []string{"featured", "upcoming", "now", "sort", "limit", "offset"}

func DecodeEventListOptions(raw string) (opts EventListOptions, err error) {
	d := newDecoder(raw, eventListKeys...)
	opts = EventListOptions{
		Featured: d.getBool("featured"),
		Upcoming: d.getBool("upcoming"),
		Now:      d.getTime("now"),
		Sort:     d.getString("sort"),
		Limit:    d.getInt("limit"),
		Offset:   d.getInt("offset"),
	}
	err = d.err
	return
}

func (opts EventListOptions) spec() (s listSpec, err error) {
	s = listSpec{
		t:     common.Event,
		order: eventOrder,
		sort:  opts.Sort,
		page:  query.Page{Limit: opts.Limit, Offset: opts.Offset},
	}
	if opts.Featured {
		s.where(query.IsTrue{Field: "featured"})
	}
	if opts.Upcoming {
		if opts.Now.IsZero() {
			err = common.InvalidOption("now", "required when upcoming is set")
			return
		}
		s.where(query.Compare{Field: "startDate", Op: query.Gte, Param: "now"},
			common.Bind("now", opts.Now.UTC().Format(time.RFC3339)))
	} else if !opts.Now.IsZero() {
		err = common.InvalidOption("now", "only used together with upcoming")
	}
	return
}

func (q *Queries) ListEvents(opts EventListOptions) (common.Descriptor, error) {
	s, err := opts.spec()
	if err != nil {
		return common.Descriptor{}, err
	}
	return q.list(s)
}

func (q *Queries) CountEvents(opts EventListOptions) (common.Descriptor, error) {
	s, err := opts.spec()
	if err != nil {
		return common.Descriptor{}, err
	}
	return q.count(s)
}

func (q *Queries) GetEventBySlug(slug string) (common.Descriptor, error) {
	return q.detail(common.Event, "slug", "slug.current", slug)
}

func (q *Queries) EventSlugs() (common.Descriptor, error) {
	return q.slugs(common.Event)
}
