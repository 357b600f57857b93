package core

// DomainHierarchy gives access to the parent links of the domain forest.
type DomainHierarchy interface {
	Parent(domainID DomainIDString) (DomainIDString, bool)
}

// IsAncestor reports whether descendant can be reached from ancestor by following child links.
// A domain is not its own ancestor. The walk stops on cycles in malformed data.
func IsAncestor(h DomainHierarchy, ancestor DomainIDString, descendant DomainIDString) bool {
	visited := map[DomainIDString]bool{descendant: true}
	current := descendant

	for {
		parent, ok := h.Parent(current)
		if !ok || visited[parent] {
			return false
		}

		if parent == ancestor {
			return true
		}

		visited[parent] = true
		current = parent
	}
}

// Related reports whether two domains are equal or one is an ancestor of the other.
func Related(h DomainHierarchy, a DomainIDString, b DomainIDString) bool {
	return a == b || IsAncestor(h, a, b) || IsAncestor(h, b, a)
}

// SharesRelatedDomain reports whether any domain of as is related to any domain of bs.
func SharesRelatedDomain(h DomainHierarchy, as []DomainIDString, bs []DomainIDString) bool {
	for _, a := range as {
		for _, b := range bs {
			if Related(h, a, b) {
				return true
			}
		}
	}

	return false
}
