package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/skillbase/competency-search/internal/core/domain"
)

type fakeRepo struct {
	entities map[string]*domain.Entity

	created        []domain.CreateEntity
	updated        []domain.UpdateEntity
	deleted        []string
	vectorSearches []domain.VectorName
	hybridSearches int

	searchResults []domain.SearchResult
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{entities: make(map[string]*domain.Entity)}
}

func (r *fakeRepo) CreateEntity(_ context.Context, model domain.CreateEntity) (*domain.Entity, error) {
	r.created = append(r.created, model)
	entity := &domain.Entity{
		Identifier:   "generated-id",
		Competency:   model.Competency,
		DenseVector:  &model.DenseVector,
		SparseVector: &model.SparseVector,
	}
	r.entities[entity.Identifier] = entity
	return entity, nil
}

func (r *fakeRepo) GetEntity(_ context.Context, identifier string) (*domain.Entity, error) {
	return r.entities[identifier], nil
}

func (r *fakeRepo) UpdateEntity(_ context.Context, model domain.UpdateEntity) (*domain.Entity, error) {
	r.updated = append(r.updated, model)
	entity := &domain.Entity{
		Identifier:   model.Identifier,
		Competency:   model.Competency,
		DenseVector:  &model.DenseVector,
		SparseVector: &model.SparseVector,
	}
	r.entities[model.Identifier] = entity
	return entity, nil
}

func (r *fakeRepo) DeleteEntity(_ context.Context, identifier string) error {
	r.deleted = append(r.deleted, identifier)
	delete(r.entities, identifier)
	return nil
}

func (r *fakeRepo) SearchByVector(_ context.Context, _ domain.QueryVector, vectorName domain.VectorName, _ []domain.Filter, _ int) ([]domain.SearchResult, error) {
	r.vectorSearches = append(r.vectorSearches, vectorName)
	return r.searchResults, nil
}

func (r *fakeRepo) SearchHybrid(_ context.Context, _ domain.DenseVector, _ domain.SparseVector, _ []domain.Filter, _ int) ([]domain.SearchResult, error) {
	r.hybridSearches++
	return r.searchResults, nil
}

type fakeDense struct {
	calls int
	err   error
}

func (e *fakeDense) Encode(context.Context, string) (domain.DenseVector, error) {
	e.calls++
	if e.err != nil {
		return domain.DenseVector{}, e.err
	}
	return domain.DenseVector{Values: []float32{0.1, 0.2}}, nil
}

type fakeSparse struct {
	calls int
	err   error
}

func (e *fakeSparse) Encode(context.Context, string) (domain.SparseVector, error) {
	e.calls++
	if e.err != nil {
		return domain.SparseVector{}, e.err
	}
	return domain.SparseVector{Indices: []uint32{7}, Values: []float32{0.9}}, nil
}

func sampleCompetency() domain.Competency {
	return domain.Competency{
		Code:     "2221.1",
		Lang:     domain.LangEN,
		Type:     domain.TypeOccupation,
		Provider: domain.ProviderESCO,
		Title:    "District nurse",
	}
}

func TestCreateEntityRejectsEmptyText(t *testing.T) {
	repo := newFakeRepo()
	dense := &fakeDense{}
	sparse := &fakeSparse{}
	uc := NewEntityUseCase(repo, dense, sparse)

	for _, text := range []string{"", "   "} {
		_, err := uc.CreateEntity(context.Background(), sampleCompetency(), text)
		if !domain.IsKind(err, domain.ErrValidation) {
			t.Fatalf("text %q: expected ErrValidation, got %v", text, err)
		}
	}
	if dense.calls != 0 || sparse.calls != 0 {
		t.Fatalf("encoders must not be called on invalid input")
	}
}

func TestCreateEntityEncodesAndStores(t *testing.T) {
	repo := newFakeRepo()
	dense := &fakeDense{}
	sparse := &fakeSparse{}
	uc := NewEntityUseCase(repo, dense, sparse)

	entity, err := uc.CreateEntity(context.Background(), sampleCompetency(), "district nurse")
	if err != nil {
		t.Fatalf("CreateEntity() error = %v", err)
	}
	if entity.Identifier != "generated-id" {
		t.Fatalf("expected store-assigned identifier, got %q", entity.Identifier)
	}
	if entity.Competency.Title != "District nurse" {
		t.Fatalf("unexpected competency: %+v", entity.Competency)
	}
	if dense.calls != 1 || sparse.calls != 1 {
		t.Fatalf("expected one call per encoder, got dense=%d sparse=%d", dense.calls, sparse.calls)
	}
	if len(repo.created) != 1 || len(repo.created[0].DenseVector.Values) == 0 {
		t.Fatalf("expected vectors passed to repository, got %+v", repo.created)
	}
}

func TestCreateEntityWrapsEncoderFailure(t *testing.T) {
	repo := newFakeRepo()
	uc := NewEntityUseCase(repo, &fakeDense{err: errors.New("backend down")}, &fakeSparse{})

	_, err := uc.CreateEntity(context.Background(), sampleCompetency(), "some text")
	if !domain.IsKind(err, domain.ErrEmbedding) {
		t.Fatalf("expected ErrEmbedding, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("repository must not be touched when encoding fails")
	}
}

func TestGetEntityReturnsNotFound(t *testing.T) {
	uc := NewEntityUseCase(newFakeRepo(), &fakeDense{}, &fakeSparse{})

	_, err := uc.GetEntity(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound, got %v", err)
	}
}

func TestUpdateEntityReusesVectorsForUnchangedText(t *testing.T) {
	repo := newFakeRepo()
	dense := &fakeDense{}
	sparse := &fakeSparse{}
	uc := NewEntityUseCase(repo, dense, sparse)

	stored := sampleCompetency()
	stored.IndexedText = "district nurse"
	repo.entities["e1"] = &domain.Entity{
		Identifier:   "e1",
		Competency:   stored,
		DenseVector:  &domain.DenseVector{Values: []float32{0.5}},
		SparseVector: &domain.SparseVector{Indices: []uint32{1}, Values: []float32{1}},
	}

	// Empty text reuses the stored vectors.
	if _, err := uc.UpdateEntity(context.Background(), "e1", stored, ""); err != nil {
		t.Fatalf("UpdateEntity() error = %v", err)
	}
	// Same text as the stored indexed text also reuses them.
	if _, err := uc.UpdateEntity(context.Background(), "e1", stored, "district nurse"); err != nil {
		t.Fatalf("UpdateEntity() error = %v", err)
	}

	if dense.calls != 0 || sparse.calls != 0 {
		t.Fatalf("expected no encoding, got dense=%d sparse=%d", dense.calls, sparse.calls)
	}
	if len(repo.updated) != 2 {
		t.Fatalf("expected 2 updates, got %d", len(repo.updated))
	}
	if repo.updated[0].DenseVector.Values[0] != 0.5 {
		t.Fatalf("expected stored dense vector reused, got %+v", repo.updated[0].DenseVector)
	}
}

func TestUpdateEntityReencodesChangedText(t *testing.T) {
	repo := newFakeRepo()
	dense := &fakeDense{}
	sparse := &fakeSparse{}
	uc := NewEntityUseCase(repo, dense, sparse)

	stored := sampleCompetency()
	stored.IndexedText = "district nurse"
	repo.entities["e1"] = &domain.Entity{Identifier: "e1", Competency: stored}

	if _, err := uc.UpdateEntity(context.Background(), "e1", stored, "community nurse"); err != nil {
		t.Fatalf("UpdateEntity() error = %v", err)
	}
	if dense.calls != 1 || sparse.calls != 1 {
		t.Fatalf("expected one call per encoder, got dense=%d sparse=%d", dense.calls, sparse.calls)
	}
}

func TestUpdateEntityRejectsWhitespaceText(t *testing.T) {
	repo := newFakeRepo()
	uc := NewEntityUseCase(repo, &fakeDense{}, &fakeSparse{})

	stored := sampleCompetency()
	stored.IndexedText = "district nurse"
	repo.entities["e1"] = &domain.Entity{Identifier: "e1", Competency: stored}

	_, err := uc.UpdateEntity(context.Background(), "e1", stored, "   ")
	if !domain.IsKind(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUpdateEntityPropagatesNotFound(t *testing.T) {
	uc := NewEntityUseCase(newFakeRepo(), &fakeDense{}, &fakeSparse{})

	_, err := uc.UpdateEntity(context.Background(), "missing", sampleCompetency(), "text")
	if !domain.IsKind(err, domain.ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound, got %v", err)
	}
}

func TestDeleteEntityChecksExistenceFirst(t *testing.T) {
	repo := newFakeRepo()
	uc := NewEntityUseCase(repo, &fakeDense{}, &fakeSparse{})

	if err := uc.DeleteEntity(context.Background(), "missing"); !domain.IsKind(err, domain.ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound, got %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatalf("delete must not reach repository for unknown identifier")
	}

	repo.entities["e1"] = &domain.Entity{Identifier: "e1", Competency: sampleCompetency()}
	if err := uc.DeleteEntity(context.Background(), "e1"); err != nil {
		t.Fatalf("DeleteEntity() error = %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "e1" {
		t.Fatalf("unexpected deletes: %v", repo.deleted)
	}
}

func TestSearchByTextDispatch(t *testing.T) {
	repo := newFakeRepo()
	dense := &fakeDense{}
	sparse := &fakeSparse{}
	uc := NewEntityUseCase(repo, dense, sparse)

	if _, err := uc.SearchByText(context.Background(), "nurse", nil, 10, domain.SearchSemantic); err != nil {
		t.Fatalf("semantic search error = %v", err)
	}
	if dense.calls != 1 || sparse.calls != 0 {
		t.Fatalf("semantic: expected only dense encoder, got dense=%d sparse=%d", dense.calls, sparse.calls)
	}
	if len(repo.vectorSearches) != 1 || repo.vectorSearches[0] != domain.VectorDense {
		t.Fatalf("semantic: expected dense vector search, got %v", repo.vectorSearches)
	}

	if _, err := uc.SearchByText(context.Background(), "nurse", nil, 10, domain.SearchSparse); err != nil {
		t.Fatalf("sparse search error = %v", err)
	}
	if sparse.calls != 1 {
		t.Fatalf("sparse: expected sparse encoder call, got %d", sparse.calls)
	}
	if repo.vectorSearches[1] != domain.VectorSparse {
		t.Fatalf("sparse: expected sparse vector search, got %v", repo.vectorSearches)
	}

	if _, err := uc.SearchByText(context.Background(), "nurse", nil, 10, domain.SearchHybrid); err != nil {
		t.Fatalf("hybrid search error = %v", err)
	}
	if dense.calls != 2 || sparse.calls != 2 {
		t.Fatalf("hybrid: expected both encoders once more, got dense=%d sparse=%d", dense.calls, sparse.calls)
	}
	if repo.hybridSearches != 1 {
		t.Fatalf("hybrid: expected one hybrid repository call, got %d", repo.hybridSearches)
	}
}

func TestSearchByTextRejectsUnknownType(t *testing.T) {
	repo := newFakeRepo()
	dense := &fakeDense{}
	sparse := &fakeSparse{}
	uc := NewEntityUseCase(repo, dense, sparse)

	_, err := uc.SearchByText(context.Background(), "nurse", nil, 10, domain.SearchType("fuzzy"))
	if !domain.IsKind(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if dense.calls != 0 || sparse.calls != 0 {
		t.Fatalf("no encoder may run for an unknown search type")
	}
}

func TestSearchByTextRejectsEmptyText(t *testing.T) {
	uc := NewEntityUseCase(newFakeRepo(), &fakeDense{}, &fakeSparse{})

	_, err := uc.SearchByText(context.Background(), "  ", nil, 10, domain.SearchHybrid)
	if !domain.IsKind(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
