package groqkit_test

import (
	"fmt"
	"groqkit"
	"groqkit/query"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var renderRounds = 2000

type timeTicker struct {
	totalTicker map[string]time.Time
}

func newTimeTicker() *timeTicker {
	return &timeTicker{
		totalTicker: map[string]time.Time{},
	}
}

func (tt *timeTicker) start(task string) {
	tt.totalTicker[task] = time.Now()
}
func (tt *timeTicker) log(t *testing.T, task string) {
	since := time.Since(tt.totalTicker[task])
	t.Logf("task %s use time :%s", task, since)
}

func TestBenchmark(t *testing.T) {
	if testing.Short() {
		t.Skip("timing run")
	}
	ticker := newTimeTicker()
	q := newQueries(t)

	ticker.start("catalog")
	for i := 0; i < renderRounds; i++ {
		for _, n := range groqkit.Catalog() {
			_, err := n.Render(q, n.Example)
			assert.NoError(t, err)
		}
	}
	ticker.log(t, "catalog")

	ticker.start("filter")
	for i := 0; i < renderRounds; i++ {
		_, err := q.ListProducts(groqkit.ProductListOptions{
			Filter: fmt.Sprintf(`brand = "Kisan" AND price < %d`, 1000+i),
			Limit:  12,
		})
		assert.NoError(t, err)
	}
	ticker.log(t, "filter")
}

func BenchmarkGetProductBySlug(b *testing.B) {
	reg, _ := groqkit.DefaultRegistry()
	q, _ := groqkit.New(reg)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := q.GetProductBySlug("paddy-cleaner"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSearchProducts(b *testing.B) {
	reg, _ := groqkit.DefaultRegistry()
	q, _ := groqkit.New(reg)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := q.SearchProducts("rice sheller", query.Page{Limit: 10}); err != nil {
			b.Fatal(err)
		}
	}
}
