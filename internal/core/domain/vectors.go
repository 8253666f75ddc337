package domain

// DenseVector is a fixed-length float embedding.
type DenseVector struct {
	Values []float32 `json:"values"`
}

// SparseVector is a mostly-zero embedding represented by its active
// dimensions: Indices and Values have the same length.
type SparseVector struct {
	Indices []uint32  `json:"indices"`
	Values  []float32 `json:"values"`
}

// VectorName selects which named vector space a store query runs against.
type VectorName string

const (
	VectorDense  VectorName = "dense"
	VectorSparse VectorName = "sparse"
)

// QueryVector is either a dense or a sparse vector; exactly one side is set,
// matching the VectorName passed alongside it.
type QueryVector struct {
	Dense  *DenseVector
	Sparse *SparseVector
}
