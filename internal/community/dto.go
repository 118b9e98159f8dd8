// AngelaMos | 2026
// dto.go

package community

import (
	"strings"
	"time"
)

type ContentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

func (r *ContentRequest) Normalize() {
	r.Content = strings.TrimSpace(r.Content)
}

type PostResponse struct {
	ID        string    `json:"_id"`
	User      Author    `json:"user"`
	Content   string    `json:"content"`
	Likes     int       `json:"likes"`
	LikedBy   []string  `json:"likedBy"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
}

type LikeResponse struct {
	ID    string `json:"id"`
	Likes int    `json:"likes"`
}

type CommentResponse struct {
	PostID  string  `json:"postId"`
	Comment Comment `json:"comment"`
}

func ToPostResponse(p *Post) PostResponse {
	likedBy := []string(p.LikedBy)
	if likedBy == nil {
		likedBy = []string{}
	}
	comments := []Comment(p.Comments)
	if comments == nil {
		comments = []Comment{}
	}

	return PostResponse{
		ID:        p.ID,
		User:      p.Author(),
		Content:   p.Content,
		Likes:     p.Likes,
		LikedBy:   likedBy,
		Comments:  comments,
		CreatedAt: p.CreatedAt,
	}
}

func ToPostResponseList(posts []Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, ToPostResponse(&posts[i]))
	}
	return out
}
