package notes

// PageItem is one entry of the pagination bar. Gap items stand for
// skipped pages and carry no page number.
type PageItem struct {
	Page    int
	Current bool
	Gap     bool
}

type Controls struct {
	Visible bool
	Current int
	Total   int
	// Prev and Next are 0 when there is nothing to move to.
	Prev  int
	Next  int
	Items []PageItem
}

const (
	pageRange  = 5
	pageMargin = 1
)

// Paginate builds the controls for page current of total. Controls are
// hidden when there are no results or only one page.
func Paginate(current, total int, hasResults bool) Controls {
	if !hasResults || total <= 1 {
		return Controls{Current: current, Total: total}
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	c := Controls{Visible: true, Current: current, Total: total}
	if current > 1 {
		c.Prev = current - 1
	}
	if current < total {
		c.Next = current + 1
	}

	lo := current - pageRange/2
	hi := current + pageRange/2
	if lo < 1 {
		hi += 1 - lo
		lo = 1
	}
	if hi > total {
		lo -= hi - total
		hi = total
	}
	if lo < 1 {
		lo = 1
	}

	last := 0
	for p := 1; p <= total; p++ {
		inMargin := p <= pageMargin || p > total-pageMargin
		if !inMargin && (p < lo || p > hi) {
			continue
		}
		if last != 0 && p > last+1 {
			c.Items = append(c.Items, PageItem{Gap: true})
		}
		c.Items = append(c.Items, PageItem{Page: p, Current: p == current})
		last = p
	}
	return c
}

// Allows reports whether the controls offer a link to page p.
func (c Controls) Allows(p int) bool {
	if !c.Visible {
		return false
	}
	for _, it := range c.Items {
		if !it.Gap && it.Page == p && !it.Current {
			return true
		}
	}
	return false
}
