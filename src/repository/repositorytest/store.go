// Package repositorytest provides an in-memory entity store for tests. It
// counts calls per operation and can be told to fail an operation.
package repositorytest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"mediaarchive/src/model"
	"mediaarchive/src/repository"

	"github.com/google/uuid"
)

type Store struct {
	mu          sync.Mutex
	categories  map[uuid.UUID]model.Category
	items       map[uuid.UUID]model.ArchiveItem
	collections map[uuid.UUID]model.Collection
	users       map[uuid.UUID]model.User
	// members maps a collection to its item ids.
	members map[uuid.UUID]map[uuid.UUID]struct{}

	calls    map[string]int
	failures map[string]error
	clock    time.Time
}

func NewStore() *Store {
	return &Store{
		categories:  make(map[uuid.UUID]model.Category),
		items:       make(map[uuid.UUID]model.ArchiveItem),
		collections: make(map[uuid.UUID]model.Collection),
		users:       make(map[uuid.UUID]model.User),
		members:     make(map[uuid.UUID]map[uuid.UUID]struct{}),
		calls:       make(map[string]int),
		failures:    make(map[string]error),
		clock:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Calls returns how many times op (e.g. "ArchiveItems.List") ran.
func (s *Store) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Fail makes op return err until Fail(op, nil) is called.
func (s *Store) Fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *Store) ArchiveItems() repository.ArchiveItemRepository { return archiveItems{s} }
func (s *Store) Collections() repository.CollectionRepository  { return collections{s} }
func (s *Store) Categories() repository.CategoryRepository      { return categories{s} }
func (s *Store) Users() repository.UserRepository               { return users{s} }

// record counts a call to op. s.mu must be held.
func (s *Store) record(op string) error {
	s.calls[op]++
	return s.failures[op]
}

func (s *Store) stamp(b *model.Base) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	s.clock = s.clock.Add(time.Second)
	b.CreatedAt = s.clock
	b.UpdatedAt = s.clock
}

func (s *Store) touch(b *model.Base) {
	s.clock = s.clock.Add(time.Second)
	b.UpdatedAt = s.clock
}

func (s *Store) collectionsOf(itemID uuid.UUID) []model.Collection {
	var out []model.Collection
	for cid, members := range s.members {
		if _, ok := members[itemID]; ok {
			out = append(out, s.collections[cid])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Store) publicItemsOf(collectionID uuid.UUID) []model.ArchiveItem {
	var out []model.ArchiveItem
	for id := range s.members[collectionID] {
		if item, ok := s.items[id]; ok && item.IsPublic() {
			out = append(out, item)
		}
	}
	sortNewestFirst(out)
	return out
}

func sortNewestFirst(items []model.ArchiveItem) {
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func existing[T any](m map[uuid.UUID]T, ids []uuid.UUID) []uuid.UUID {
	found := []uuid.UUID{}
	for _, id := range ids {
		if _, ok := m[id]; ok {
			found = append(found, id)
		}
	}
	return found
}

type archiveItems struct{ s *Store }

func (r archiveItems) List(_ context.Context, filter repository.ArchiveItemFilter) ([]model.ArchiveItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.record("ArchiveItems.List"); err != nil {
		return nil, err
	}

	var out []model.ArchiveItem
	for _, item := range r.s.items {
		if filter.Visibility != "" && item.Visibility != filter.Visibility {
			continue
		}
		if filter.CategoryID != uuid.Nil && item.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Search != "" && !containsFold(item.Title, filter.Search) {
			continue
		}
		out = append(out, item)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r archiveItems) FindByID(_ context.Context, id uuid.UUID) (*model.ArchiveItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.record("ArchiveItems.FindByID"); err != nil {
		return nil, err
	}

	item, ok := r.s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if category, ok := r.s.categories[item.CategoryID]; ok {
		item.Category = &category
	}
	item.Collections = r.s.collectionsOf(id)
	return &item, nil
}

func (r archiveItems) ExistingIDs(_ context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.record("ArchiveItems.ExistingIDs"); err != nil {
		return nil, err
	}
	return existing(r.s.items, ids), nil
}

func (r archiveItems) Create(_ context.Context, item *model.ArchiveItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.record("ArchiveItems.Create"); err != nil {
		return err
	}

	r.s.stamp(&item.Base)
	stored := *item
	stored.Category, stored.Collections = nil, nil
	r.s.items[item.ID] = stored
	return nil
}

func (r archiveItems) Update(_ context.Context, item *model.ArchiveItem, addCollections, removeCollections []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.record("ArchiveItems.Update"); err != nil {
		return err
	}

	if _, ok := r.s.items[item.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.touch(&item.Base)
	stored := *item
	stored.Category, stored.Collections = nil, nil
	r.s.items[item.ID] = stored

	for _, cid := range addCollections {
		if r.s.members[cid] == nil {
			r.s.members[cid] = make(map[uuid.UUID]struct{})
		}
		r.s.members[cid][item.ID] = struct{}{}
	}
	for _, cid := range removeCollections {
		delete(r.s.members[cid], item.ID)
	}
	return nil
}

func (r archiveItems) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.record("ArchiveItems.Delete"); err != nil {
		return err
	}

	if _, ok := r.s.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.items, id)
	for _, members := range r.s.members {
		delete(members, id)
	}
	return nil
}

type collections struct{ s *Store }

func (r collections) List(_ context.Context, search string) ([]model.Collection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.record("Collections.List"); err != nil {
		return nil, err
	}

	out := []model.Collection{}
	for id, c := range r.s.collections {
		if search != "" && !containsFold(c.Name, search) {
			continue
		}
		c.Items = r.s.publicItemsOf(id)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r collections) FindByID(_ context.Context, id uuid.UUID) (*model.Collection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.record("Collections.FindByID"); err != nil {
		return nil, err
	}

	c, ok := r.s.collections[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c.Items = r.s.publicItemsOf(id)
	return &c, nil
}

func (r collections) ExistingIDs(_ context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.record("Collections.ExistingIDs"); err != nil {
		return nil, err
	}
	return existing(r.s.collections, ids), nil
}

func (r collections) ItemIDs(_ context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.record("Collections.ItemIDs"); err != nil {
		return nil, err
	}

	ids := []uuid.UUID{}
	for itemID := range r.s.members[id] {
		ids = append(ids, itemID)
	}
	return ids, nil
}

func (r collections) nameTaken(name string, except uuid.UUID) bool {
	for id, c := range r.s.collections {
		if id != except && c.Name == name {
			return true
		}
	}
	return false
}

func (r collections) Create(_ context.Context, collection *model.Collection, itemIDs []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.record("Collections.Create"); err != nil {
		return err
	}

	if r.nameTaken(collection.Name, uuid.Nil) {
		return repository.ErrDuplicate
	}
	r.s.stamp(&collection.Base)
	stored := *collection
	stored.Items = nil
	r.s.collections[collection.ID] = stored

	members := make(map[uuid.UUID]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		members[id] = struct{}{}
	}
	r.s.members[collection.ID] = members
	return nil
}

func (r collections) Update(_ context.Context, collection *model.Collection, addItems, removeItems []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.record("Collections.Update"); err != nil {
		return err
	}

	if _, ok := r.s.collections[collection.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.nameTaken(collection.Name, collection.ID) {
		return repository.ErrDuplicate
	}
	r.s.touch(&collection.Base)
	stored := *collection
	stored.Items = nil
	r.s.collections[collection.ID] = stored

	if r.s.members[collection.ID] == nil {
		r.s.members[collection.ID] = make(map[uuid.UUID]struct{})
	}
	for _, id := range addItems {
		r.s.members[collection.ID][id] = struct{}{}
	}
	for _, id := range removeItems {
		delete(r.s.members[collection.ID], id)
	}
	return nil
}

func (r collections) Delete(_ context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.record("Collections.Delete"); err != nil {
		return nil, err
	}

	if _, ok := r.s.collections[id]; !ok {
		return nil, repository.ErrNotFound
	}
	members := []uuid.UUID{}
	for itemID := range r.s.members[id] {
		members = append(members, itemID)
	}
	delete(r.s.collections, id)
	delete(r.s.members, id)
	return members, nil
}

// AddMember puts itemID into a collection directly, bypassing the services.
func (s *Store) AddMember(collectionID, itemID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.members[collectionID] == nil {
		s.members[collectionID] = make(map[uuid.UUID]struct{})
	}
	s.members[collectionID][itemID] = struct{}{}
}

type categories struct{ s *Store }

func (r categories) List(_ context.Context) ([]model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.record("Categories.List"); err != nil {
		return nil, err
	}

	out := []model.Category{}
	for _, c := range r.s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r categories) FindByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.record("Categories.FindByID"); err != nil {
		return nil, err
	}

	c, ok := r.s.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r categories) Create(_ context.Context, category *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.record("Categories.Create"); err != nil {
		return err
	}

	for _, c := range r.s.categories {
		if c.Name == category.Name {
			return repository.ErrDuplicate
		}
	}
	r.s.stamp(&category.Base)
	r.s.categories[category.ID] = *category
	return nil
}

type users struct{ s *Store }

func (r users) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.record("Users.FindByID"); err != nil {
		return nil, err
	}

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r users) FindByUserName(_ context.Context, userName string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.record("Users.FindByUserName"); err != nil {
		return nil, err
	}

	for _, u := range r.s.users {
		if u.UserName == userName {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r users) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.record("Users.Create"); err != nil {
		return err
	}

	for _, u := range r.s.users {
		if u.UserName == user.UserName {
			return repository.ErrDuplicate
		}
	}
	r.s.stamp(&user.Base)
	r.s.users[user.ID] = *user
	return nil
}
