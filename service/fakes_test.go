package service

import (
	"context"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"productcatalog/models"
	"productcatalog/repository"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeReferences struct {
	brands     map[string]string
	categories map[string]string
	tags       map[string]string
	err        error
}

func newFakeReferences() *fakeReferences {
	return &fakeReferences{
		brands:     map[string]string{"Farmhouse": "b1", "Acme": "b2"},
		categories: map[string]string{"Dairy": "c1", "Bakery": "c2"},
		tags:       map[string]string{"dairy": "t1", "organic": "t2", "bread": "t3"},
	}
}

func (f *fakeReferences) FindBrandByName(_ context.Context, name string) (*models.Brand, error) {
	if f.err != nil {
		return nil, f.err
	}
	if id, ok := f.brands[name]; ok {
		return &models.Brand{ID: id, Name: name}, nil
	}
	return nil, nil
}

func (f *fakeReferences) FindCategoryByName(_ context.Context, name string) (*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	if id, ok := f.categories[name]; ok {
		return &models.Category{ID: id, Name: name}, nil
	}
	return nil, nil
}

func (f *fakeReferences) FindTagsByNames(_ context.Context, names []string) ([]models.Tag, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Tag{}
	for _, n := range names {
		if id, ok := f.tags[n]; ok {
			out = append(out, models.Tag{ID: id, Name: n})
		}
	}
	return out, nil
}

// memProducts mirrors the store's filter semantics in memory.
type memProducts struct {
	mu     sync.Mutex
	nextID int
	items  map[string]models.Product
}

func newMemProducts() *memProducts {
	return &memProducts{items: map[string]models.Product{}}
}

func (m *memProducts) Create(_ context.Context, p *models.Product) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = strconv.Itoa(m.nextID)
	m.items[p.ID] = *p
	return p.ID, nil
}

func (m *memProducts) GetByID(_ context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	return &p, nil
}

func (m *memProducts) Find(_ context.Context, q repository.ProductQuery) ([]models.ProductSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.ProductSummary{}
	for _, p := range m.items {
		if !containsFold(p.Name, q.Name) || !containsFold(p.Category, q.Category) || !containsFold(p.Brand, q.Brand) {
			continue
		}
		if len(q.Tags) > 0 && !hasAnyTag(p.Tags, q.Tags) {
			continue
		}
		out = append(out, models.ProductSummary{ID: p.ID, Name: p.Name, Category: p.Category, Brand: p.Brand, Tags: p.Tags})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memProducts) Update(_ context.Context, id string, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return models.ErrProductNotFound
	}
	p.ID = id
	m.items[id] = *p
	return nil
}

func (m *memProducts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return models.ErrProductNotFound
	}
	delete(m.items, id)
	return nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func hasAnyTag(tags []models.Tag, names []string) bool {
	for _, t := range tags {
		for _, n := range names {
			if t.Name == n {
				return true
			}
		}
	}
	return false
}

type fakeUsers struct {
	byEmail map[string]*models.User
	err     error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*models.User{}}
}

func (f *fakeUsers) CreateUser(_ context.Context, u *models.User) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return models.ErrEmailTaken
	}
	u.ID = "u" + strconv.Itoa(len(f.byEmail)+1)
	cp := *u
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(userID, email string) (string, error) {
	return "token-for-" + userID, nil
}
