// internal/content/memory.go
package content

import "context"

// MemoryRepository is an in-memory Repository used by tests and by the
// end-to-end fixtures. Registries under test are constructed with only
// the entities they need.
type MemoryRepository struct {
	Posts    map[int64]*Post
	Comments map[int64]*Comment
	Users    map[int64]*User
	Terms    map[int64]*Term
	Info     SiteInfo
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		Posts:    make(map[int64]*Post),
		Comments: make(map[int64]*Comment),
		Users:    make(map[int64]*User),
		Terms:    make(map[int64]*Term),
	}
}

func (r *MemoryRepository) GetPost(_ context.Context, id int64) (*Post, error) {
	if p, ok := r.Posts[id]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) GetComment(_ context.Context, id int64) (*Comment, error) {
	if c, ok := r.Comments[id]; ok {
		return c, nil
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) GetUser(_ context.Context, id int64) (*User, error) {
	if u, ok := r.Users[id]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) GetTerm(_ context.Context, id int64) (*Term, error) {
	if t, ok := r.Terms[id]; ok {
		return t, nil
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) UsersByRole(_ context.Context, role string) ([]User, error) {
	var out []User
	for _, u := range r.Users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *MemoryRepository) Site(_ context.Context) (SiteInfo, error) {
	return r.Info, nil
}
