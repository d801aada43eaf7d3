package book

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/orderflow/internal/entity"
	"github.com/Additional-Code/orderflow/pkg/errorbank"
)

type memStore struct {
	books  map[int64]*entity.Book
	nextID int64
}

func newMemStore(books ...*entity.Book) *memStore {
	s := &memStore{books: make(map[int64]*entity.Book), nextID: 1}
	for _, b := range books {
		if b.ID == 0 {
			b.ID = s.nextID
		}
		if b.ID >= s.nextID {
			s.nextID = b.ID + 1
		}
		s.books[b.ID] = b
	}
	return s
}

func (s *memStore) GetByID(_ context.Context, id int64) (*entity.Book, error) {
	b, ok := s.books[id]
	if !ok {
		return nil, entity.ErrBookNotFound
	}
	clone := *b
	return &clone, nil
}

func (s *memStore) List(_ context.Context, featuredOnly bool) ([]*entity.Book, error) {
	var out []*entity.Book
	for _, b := range s.books {
		if featuredOnly && !b.Featured {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *memStore) Create(_ context.Context, book *entity.Book) error {
	book.ID = s.nextID
	s.nextID++
	s.books[book.ID] = book
	return nil
}

func (s *memStore) Update(_ context.Context, book *entity.Book) error {
	if _, ok := s.books[book.ID]; !ok {
		return entity.ErrBookNotFound
	}
	clone := *book
	s.books[book.ID] = &clone
	return nil
}

func (s *memStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.books[id]; !ok {
		return entity.ErrBookNotFound
	}
	delete(s.books, id)
	return nil
}

func newService(books ...*entity.Book) (*Service, *memStore) {
	store := newMemStore(books...)
	return NewService(Params{Store: store}), store
}

func TestBookCRUD(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	book := &entity.Book{Title: "Design Patterns", Author: "Gamma et al.", Price: 54.99, Featured: true}
	require.NoError(t, svc.Create(ctx, book))
	require.NotZero(t, book.ID)

	got, err := svc.Get(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Design Patterns", got.Title)
	assert.Equal(t, "Design Patterns by Gamma et al.", got.Description())

	updated, err := svc.Update(ctx, book.ID, &entity.Book{Title: "Design Patterns", Author: "GoF", Price: 49.99})
	require.NoError(t, err)
	assert.Equal(t, "GoF", updated.Author)
	assert.False(t, updated.Featured)

	require.NoError(t, svc.Delete(ctx, book.ID))
	_, err = svc.Get(ctx, book.ID)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
}

func TestBookListFeatured(t *testing.T) {
	svc, _ := newService(
		&entity.Book{Title: "A", Author: "X", Featured: true},
		&entity.Book{Title: "B", Author: "Y"},
	)

	all, err := svc.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	featured, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "A", featured[0].Title)
}

func TestBookCreateValidation(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	cases := map[string]*entity.Book{
		"nil payload":    nil,
		"missing title":  {Author: "X"},
		"missing author": {Title: "A"},
		"negative price": {Title: "A", Author: "X", Price: -1},
	}
	for name, book := range cases {
		t.Run(name, func(t *testing.T) {
			err := svc.Create(ctx, book)
			require.Error(t, err)
			assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
		})
	}
}

func TestBookUpdateMissing(t *testing.T) {
	svc, _ := newService()
	_, err := svc.Update(context.Background(), 99, &entity.Book{Title: "A", Author: "X"})
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
}
