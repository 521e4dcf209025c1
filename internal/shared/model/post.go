package model

import "time"

// Post 帖子
//
// author 固定为创建请求的认证用户，客户端提交的 author 字段一律忽略。
type Post struct {
	ID        string    `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	AuthorID  string    `json:"author_id" db:"author_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// OwnerID 实现 authz.Resource
func (p *Post) OwnerID() string {
	return p.AuthorID
}

// Comment 帖子评论
//
// post 引用必须在创建时指向已存在的帖子。
type Comment struct {
	ID        string    `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	AuthorID  string    `json:"author_id" db:"author_id"`
	PostID    string    `json:"post_id" db:"post_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// OwnerID 实现 authz.Resource
func (c *Comment) OwnerID() string {
	return c.AuthorID
}
