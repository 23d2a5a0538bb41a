// internal/content/postgres.go
package content

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresRepository reads content entities from the CMS database.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetPost(ctx context.Context, id int64) (*Post, error) {
	const query = `
		SELECT id, type, title, slug, content, excerpt, status, permalink,
		       COALESCE(featured_image_url, ''), author_id, last_editor_id,
		       published_at, updated_at, created_at
		FROM posts WHERE id = $1`

	var p Post
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Type, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.Status,
		&p.Permalink, &p.FeaturedImageURL, &p.AuthorID, &p.LastEditorID,
		&p.PublishedAt, &p.UpdatedAt, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	return &p, nil
}

func (r *PostgresRepository) GetComment(ctx context.Context, id int64) (*Comment, error) {
	const query = `
		SELECT id, post_id, author_id, author_name, author_email,
		       COALESCE(author_url, ''), COALESCE(author_ip, ''),
		       content, type, status, parent_id, created_at
		FROM comments WHERE id = $1`

	var c Comment
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.PostID, &c.AuthorID, &c.AuthorName, &c.AuthorEmail,
		&c.AuthorURL, &c.AuthorIP, &c.Content, &c.Type, &c.Status,
		&c.ParentID, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment %d: %w", id, err)
	}
	return &c, nil
}

func (r *PostgresRepository) GetUser(ctx context.Context, id int64) (*User, error) {
	const query = `
		SELECT id, login, email, display_name, COALESCE(first_name, ''),
		       COALESCE(last_name, ''), COALESCE(nickname, ''), role,
		       registered_at, COALESCE(last_login_at, registered_at)
		FROM users WHERE id = $1`

	var u User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Login, &u.Email, &u.DisplayName, &u.FirstName, &u.LastName,
		&u.Nickname, &u.Role, &u.RegisteredAt, &u.LastLoginAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

func (r *PostgresRepository) GetTerm(ctx context.Context, id int64) (*Term, error) {
	const query = `SELECT id, taxonomy, name, slug, permalink FROM terms WHERE id = $1`

	var t Term
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Taxonomy, &t.Name, &t.Slug, &t.Permalink)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get term %d: %w", id, err)
	}
	return &t, nil
}

func (r *PostgresRepository) UsersByRole(ctx context.Context, role string) ([]User, error) {
	const query = `
		SELECT id, login, email, display_name, COALESCE(first_name, ''),
		       COALESCE(last_name, ''), COALESCE(nickname, ''), role,
		       registered_at, COALESCE(last_login_at, registered_at)
		FROM users WHERE role = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("users by role %s: %w", role, err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.ID, &u.Login, &u.Email, &u.DisplayName, &u.FirstName, &u.LastName,
			&u.Nickname, &u.Role, &u.RegisteredAt, &u.LastLoginAt,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PostgresRepository) Site(ctx context.Context) (SiteInfo, error) {
	const query = `
		SELECT COALESCE(name, ''), COALESCE(description, ''),
		       COALESCE(url, ''), COALESCE(admin_email, '')
		FROM site_info LIMIT 1`

	var info SiteInfo
	err := r.db.QueryRowContext(ctx, query).Scan(&info.Name, &info.Description, &info.URL, &info.AdminEmail)
	if err == sql.ErrNoRows {
		return SiteInfo{}, nil
	}
	if err != nil {
		return SiteInfo{}, fmt.Errorf("get site info: %w", err)
	}
	return info, nil
}
