package course

import "sort"

// Normalize orders modules and their videos by OrderIndex and marks every node as
// persisted. Sorting is stable, so ties keep retrieval order. The input is not
// modified.
func Normalize(c Course) Course {
	out := c.Clone()
	sort.SliceStable(out.Modules, func(i, j int) bool {
		return out.Modules[i].OrderIndex < out.Modules[j].OrderIndex
	})
	for i := range out.Modules {
		m := &out.Modules[i]
		m.IsNew = false
		sort.SliceStable(m.Videos, func(a, b int) bool {
			return m.Videos[a].OrderIndex < m.Videos[b].OrderIndex
		})
		for j := range m.Videos {
			m.Videos[j].IsNew = false
		}
	}
	return out
}
