// AngelaMos | 2026
// entity.go

package community

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Author is a snapshot of the user at the time they wrote something. It
// is never refreshed when the user changes their profile.
type Author struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type Comment struct {
	ID        string    `json:"_id"`
	User      Author    `json:"user"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type Post struct {
	ID           string      `db:"id"`
	Seq          int64       `db:"seq"`
	AuthorID     string      `db:"author_id"`
	AuthorName   string      `db:"author_name"`
	AuthorAvatar string      `db:"author_avatar"`
	Content      string      `db:"content"`
	Likes        int         `db:"likes"`
	LikedBy      StringList  `db:"liked_by"`
	Comments     CommentList `db:"comments"`
	CreatedAt    time.Time   `db:"created_at"`
}

func (p *Post) Author() Author {
	return Author{ID: p.AuthorID, Name: p.AuthorName, Avatar: p.AuthorAvatar}
}

func (p *Post) LikedByUser(userID string) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// StringList maps a JSONB array of strings.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	return string(b), err
}

func (l *StringList) Scan(src any) error {
	return scanJSON(src, (*[]string)(l))
}

// CommentList maps a JSONB array of comments.
type CommentList []Comment

func (l CommentList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]Comment(l))
	return string(b), err
}

func (l *CommentList) Scan(src any) error {
	return scanJSON(src, (*[]Comment)(l))
}

func scanJSON(src, dst any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan jsonb: unsupported type %T", src)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("scan jsonb: %w", err)
	}
	return nil
}
