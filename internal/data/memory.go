package data

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// memoryDB is a process-local stand-in for the PostgreSQL schema. It keeps
// the same referential rules: a book must reference an existing author and
// an author cannot be removed while books reference it.
type memoryDB struct {
	mu         sync.RWMutex
	authors    map[int64]*Author
	books      map[int64]*Book
	nextAuthor int64
	nextBook   int64
	now        func() time.Time
}

// NewMemoryModels returns Models backed by an in-memory store. Records live
// as long as the returned value.
func NewMemoryModels() Models {
	db := &memoryDB{
		authors: make(map[int64]*Author),
		books:   make(map[int64]*Book),
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
	return Models{
		Authors: memoryAuthors{db: db},
		Books:   memoryBooks{db: db},
	}
}

func referenceError(format string, args ...any) error {
	return &QueryError{
		Code:      CodeReference,
		AttrNames: []string{"author"},
		Err:       fmt.Errorf(format, args...),
	}
}

type memoryAuthors struct{ db *memoryDB }

func (s memoryAuthors) Create(_ context.Context, author *Author) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.nextAuthor++
	author.ID = s.db.nextAuthor
	author.CreatedAt = s.db.now()
	author.UpdatedAt = author.CreatedAt

	stored := *author
	s.db.authors[stored.ID] = &stored
	return nil
}

func (s memoryAuthors) Find(_ context.Context, where Where) ([]*Author, error) {
	conds, err := normalize(where, authorAttributes)
	if err != nil {
		return nil, err
	}

	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	authors := []*Author{}
	for _, a := range s.db.authors {
		if matches(conds, a.attr) {
			cp := *a
			authors = append(authors, &cp)
		}
	}
	sort.Slice(authors, func(i, j int) bool { return authors[i].ID < authors[j].ID })
	return authors, nil
}

func (s memoryAuthors) UpdateOne(_ context.Context, id int64, patch AuthorPatch) (*Author, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	a, ok := s.db.authors[id]
	if !ok {
		return nil, nil
	}
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Country != nil {
		a.Country = *patch.Country
	}
	a.UpdatedAt = s.db.now()

	cp := *a
	return &cp, nil
}

func (s memoryAuthors) DestroyOne(_ context.Context, id int64) (*Author, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	a, ok := s.db.authors[id]
	if !ok {
		return nil, nil
	}
	for _, b := range s.db.books {
		if b.AuthorID == id {
			return nil, referenceError("author %d is still referenced by book %d", id, b.ID)
		}
	}
	delete(s.db.authors, id)
	return a, nil
}

type memoryBooks struct{ db *memoryDB }

func (s memoryBooks) Create(_ context.Context, book *Book) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.authors[book.AuthorID]; !ok {
		return referenceError("author %d does not exist", book.AuthorID)
	}

	s.db.nextBook++
	book.ID = s.db.nextBook
	book.CreatedAt = s.db.now()
	book.UpdatedAt = book.CreatedAt

	stored := *book
	s.db.books[stored.ID] = &stored
	return nil
}

func (s memoryBooks) Find(_ context.Context, where Where) ([]*Book, error) {
	conds, err := normalize(where, bookAttributes)
	if err != nil {
		return nil, err
	}

	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	books := []*Book{}
	for _, b := range s.db.books {
		if matches(conds, b.attr) {
			cp := *b
			books = append(books, &cp)
		}
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, nil
}

func (s memoryBooks) UpdateOne(_ context.Context, id int64, patch BookPatch) (*Book, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	b, ok := s.db.books[id]
	if !ok {
		return nil, nil
	}
	if patch.AuthorID != nil {
		if _, exists := s.db.authors[*patch.AuthorID]; !exists {
			return nil, referenceError("author %d does not exist", *patch.AuthorID)
		}
		b.AuthorID = *patch.AuthorID
	}
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.YearPublished != nil {
		b.YearPublished = *patch.YearPublished
	}
	if patch.Genre != nil {
		b.Genre = *patch.Genre
	}
	b.UpdatedAt = s.db.now()

	cp := *b
	return &cp, nil
}

func (s memoryBooks) DestroyOne(_ context.Context, id int64) (*Book, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	b, ok := s.db.books[id]
	if !ok {
		return nil, nil
	}
	delete(s.db.books, id)
	return b, nil
}
