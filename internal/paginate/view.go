package paginate

import "strconv"

const window = 1

type Button struct {
	Label    string `json:"label"`
	Page     int    `json:"page,omitempty"`
	Active   bool   `json:"active,omitempty"`
	Ellipsis bool   `json:"ellipsis,omitempty"`
}

type View struct {
	Buttons  []Button `json:"buttons"`
	Previous int      `json:"previous,omitempty"`
	Next     int      `json:"next,omitempty"`
}

// View renders page buttons: first, last, the current page and its neighbours, with
// ellipses over the gaps.
func (p Page[T]) View() View {
	var v View
	if p.TotalPages == 0 {
		return v
	}
	current := min(max(p.Page, 1), p.TotalPages)
	if current > 1 {
		v.Previous = current - 1
	}
	if current < p.TotalPages {
		v.Next = current + 1
	}

	last := 0
	for n := 1; n <= p.TotalPages; n++ {
		edge := n == 1 || n == p.TotalPages
		near := n >= current-window && n <= current+window
		if !edge && !near {
			continue
		}
		if last > 0 && n-last > 1 {
			if n-last == 2 {
				v.Buttons = append(v.Buttons, Button{Label: strconv.Itoa(last + 1), Page: last + 1})
			} else {
				v.Buttons = append(v.Buttons, Button{Label: "...", Ellipsis: true})
			}
		}
		v.Buttons = append(v.Buttons, Button{Label: strconv.Itoa(n), Page: n, Active: n == current})
		last = n
	}
	return v
}

// Navigate reports the page to move to. Targets outside 1..TotalPages, or the current
// page itself, are a no-op.
func (p Page[T]) Navigate(target int) (int, bool) {
	if target < 1 || target > p.TotalPages || target == p.Page {
		return p.Page, false
	}
	return target, true
}

// Landing is the page a request for target shows: target when it is in range, otherwise
// the nearest valid page.
func Landing(target, totalPages int) int {
	first := Page[struct{}]{Page: 1, TotalPages: totalPages}
	if page, ok := first.Navigate(target); ok {
		return page
	}
	if totalPages > 0 && target > totalPages {
		return totalPages
	}
	return 1
}
