// Package repotest provides recording in-memory gateways for tests.
package repotest

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/internal/repository"
	"github.com/jwalitptl/marketplace-admin/pkg/errors"
)

type Call struct {
	Op         string
	Collection string
	ID         string
	Data       map[string]interface{}
	Queries    []model.Query
}

// DocumentStore keeps documents per collection in insertion order and
// records every call.
type DocumentStore struct {
	mu    sync.Mutex
	docs  map[string][]model.Document
	Calls []Call
	// Errors forces the next call of an operation to fail.
	Errors map[string]error
	// Totals overrides the reported total of a collection.
	Totals map[string]int
}

var _ repository.DocumentStore = (*DocumentStore)(nil)

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs:   make(map[string][]model.Document),
		Errors: make(map[string]error),
		Totals: make(map[string]int),
	}
}

func (s *DocumentStore) Seed(collection string, docs ...model.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[collection] = append(s.docs[collection], docs...)
}

// CallsOf returns the recorded calls of one operation.
func (s *DocumentStore) CallsOf(op string) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Call
	for _, c := range s.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (s *DocumentStore) record(c Call) error {
	s.Calls = append(s.Calls, c)
	if err, ok := s.Errors[c.Op]; ok {
		delete(s.Errors, c.Op)
		return err
	}
	return nil
}

func (s *DocumentStore) ListDocuments(_ context.Context, collection string, queries ...model.Query) (*model.DocumentList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(Call{Op: "list", Collection: collection, Queries: queries}); err != nil {
		return nil, err
	}

	out := []model.Document{}
	for _, d := range s.docs[collection] {
		if matches(d, queries) {
			out = append(out, clone(d))
		}
	}
	total := len(out)
	if t, ok := s.Totals[collection]; ok {
		total = t
	}
	return &model.DocumentList{Total: total, Documents: out}, nil
}

func (s *DocumentStore) CreateDocument(_ context.Context, collection, id string, data map[string]interface{}) (model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(Call{Op: "create", Collection: collection, ID: id, Data: data}); err != nil {
		return nil, err
	}
	doc := model.Document{"$id": id}
	for k, v := range data {
		doc[k] = v
	}
	s.docs[collection] = append(s.docs[collection], doc)
	return clone(doc), nil
}

func (s *DocumentStore) UpdateDocument(_ context.Context, collection, id string, partial map[string]interface{}) (model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(Call{Op: "update", Collection: collection, ID: id, Data: partial}); err != nil {
		return nil, err
	}
	for _, d := range s.docs[collection] {
		if d.ID() == id {
			for k, v := range partial {
				d[k] = v
			}
			return clone(d), nil
		}
	}
	return nil, errors.NotFound("document", fmt.Errorf("%s/%s", collection, id))
}

func (s *DocumentStore) DeleteDocument(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(Call{Op: "delete", Collection: collection, ID: id}); err != nil {
		return err
	}
	docs := s.docs[collection]
	for i, d := range docs {
		if d.ID() == id {
			s.docs[collection] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	return errors.NotFound("document", fmt.Errorf("%s/%s", collection, id))
}

func matches(d model.Document, queries []model.Query) bool {
	for _, q := range queries {
		if q.Method != "equal" {
			continue
		}
		found := false
		for _, v := range q.Values {
			if fmt.Sprint(d[q.Attribute]) == fmt.Sprint(v) {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func clone(d model.Document) model.Document {
	out := make(model.Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// FileStore serves fixed pages and records every request.
type FileStore struct {
	Pages    [][]model.File
	Requests []model.PageRequest
	Err      error
}

var _ repository.FileStore = (*FileStore)(nil)

// ListFiles treats the cursor as the index of the page to return.
func (f *FileStore) ListFiles(_ context.Context, _ string, page model.PageRequest) (*model.FilePage, error) {
	f.Requests = append(f.Requests, page)
	if f.Err != nil {
		return nil, f.Err
	}
	idx := 0
	if page.Cursor != "" {
		idx, _ = strconv.Atoi(page.Cursor)
	}
	if idx >= len(f.Pages) {
		return &model.FilePage{Files: []model.File{}}, nil
	}
	out := &model.FilePage{Files: f.Pages[idx]}
	if idx+1 < len(f.Pages) {
		out.Next = strconv.Itoa(idx + 1)
	}
	return out, nil
}

// AccountGateway is a scripted remote account service.
type AccountGateway struct {
	Password      string
	Session       *model.RemoteSession
	HasSession    bool
	SessionErr    error
	DeleteErr     error
	Account       *model.Account
	Deleted       int
	LastSecret    string
	PasswordCalls int
}

var _ repository.AccountGateway = (*AccountGateway)(nil)

func (a *AccountGateway) CreateSession(_ context.Context, _, password string) (*model.RemoteSession, error) {
	if password != a.Password {
		return nil, errors.Unauthorized("Invalid credentials. Please check the email and password.", nil)
	}
	return a.Session, nil
}

func (a *AccountGateway) GetSession(ctx context.Context, _ string) (bool, error) {
	a.LastSecret = repository.SessionSecret(ctx)
	return a.HasSession, a.SessionErr
}

func (a *AccountGateway) DeleteSession(ctx context.Context, _ string) error {
	a.LastSecret = repository.SessionSecret(ctx)
	a.Deleted++
	return a.DeleteErr
}

func (a *AccountGateway) GetCurrentAccount(ctx context.Context) (*model.Account, error) {
	a.LastSecret = repository.SessionSecret(ctx)
	if a.Account == nil {
		return nil, errors.Unauthorized("", nil)
	}
	return a.Account, nil
}

func (a *AccountGateway) UpdatePassword(_ context.Context, newPassword, oldPassword string) error {
	a.PasswordCalls++
	if oldPassword != a.Password {
		return errors.Unauthorized("Invalid credentials", nil)
	}
	a.Password = newPassword
	return nil
}
