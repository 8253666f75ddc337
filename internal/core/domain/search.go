package domain

// SearchType selects the retrieval mode of a text search.
type SearchType string

const (
	SearchSemantic SearchType = "semantic"
	SearchSparse   SearchType = "sparse"
	SearchHybrid   SearchType = "hybrid"
)

func (s SearchType) Valid() bool {
	switch s {
	case SearchSemantic, SearchSparse, SearchHybrid:
		return true
	}
	return false
}
