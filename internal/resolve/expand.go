package resolve

import (
	"github.com/SaxonF/supawatch/internal/sidebar"
)

// ExpandItem produces a concrete item from a template and one result row.
// Resolution applies to the item's id, name, and query SQL (including load
// queries), recursively through children. The resolved id becomes the
// concrete item's identity for that row.
func ExpandItem(tmpl sidebar.Item, row map[string]string) sidebar.Item {
	return expandItem(tmpl, RowBindings(row))
}

func expandItem(tmpl sidebar.Item, bindings map[string]string) sidebar.Item {
	out := tmpl
	out.ID = Apply(tmpl.ID, bindings)
	out.Name = Apply(tmpl.Name, bindings)

	if len(tmpl.Queries) > 0 {
		out.Queries = make([]sidebar.Query, len(tmpl.Queries))
		for i, q := range tmpl.Queries {
			q.SQL = Apply(q.SQL, bindings)
			q.LoadQuery = Apply(q.LoadQuery, bindings)
			out.Queries[i] = q
		}
	}
	if len(tmpl.Children) > 0 {
		out.Children = make([]sidebar.Item, len(tmpl.Children))
		for i, child := range tmpl.Children {
			out.Children[i] = expandItem(child, bindings)
		}
	}
	return out
}

// ExpandRows expands a template against every row of a result set. Resolved
// ids must be unique within the group; on collision the later row wins and
// the earlier concrete item is overwritten in place.
func ExpandRows(tmpl sidebar.Item, rows []map[string]string) []sidebar.Item {
	items := make([]sidebar.Item, 0, len(rows))
	index := make(map[string]int, len(rows))
	for _, row := range rows {
		item := ExpandItem(tmpl, row)
		if at, seen := index[item.ID]; seen {
			items[at] = item
			continue
		}
		index[item.ID] = len(items)
		items = append(items, item)
	}
	return items
}
