package domain

// Entity is a stored, identifier-addressed competency plus its embedding
// vectors. Identifiers are assigned by the vector store adapter on create.
type Entity struct {
	Identifier   string        `json:"identifier"`
	Competency   Competency    `json:"competency"`
	DenseVector  *DenseVector  `json:"dense_vector,omitempty"`
	SparseVector *SparseVector `json:"sparse_vector,omitempty"`
}

// CreateEntity carries the inputs of a repository create.
type CreateEntity struct {
	Competency   Competency
	DenseVector  DenseVector
	SparseVector SparseVector
}

// UpdateEntity carries the inputs of a repository update.
type UpdateEntity struct {
	Identifier   string
	Competency   Competency
	DenseVector  DenseVector
	SparseVector SparseVector
}

// SearchResult pairs a found entity with its similarity score.
type SearchResult struct {
	Entity Entity  `json:"entity"`
	Score  float64 `json:"score"`
}
