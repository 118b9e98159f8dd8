// AngelaMos | 2026
// memory.go

package community

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/codeburry/api/internal/core"
)

type memoryRepository struct {
	mu    sync.Mutex
	posts map[string]*Post
	seq   int64
	now   func() time.Time
}

// NewMemoryRepository returns a process-local Repository. Like and
// AddComment hold the lock for the whole check-and-write.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		posts: make(map[string]*Post),
		now:   time.Now,
	}
}

func (r *memoryRepository) Create(_ context.Context, post *Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[post.ID]; ok {
		return fmt.Errorf("create post: %w", core.ErrDuplicateKey)
	}

	r.seq++
	post.Seq = r.seq
	post.Likes = 0
	post.CreatedAt = r.now().UTC()
	if post.LikedBy == nil {
		post.LikedBy = StringList{}
	}
	if post.Comments == nil {
		post.Comments = CommentList{}
	}

	r.posts[post.ID] = clonePost(post)
	return nil
}

func (r *memoryRepository) List(_ context.Context) ([]Post, error) {
	r.mu.Lock()
	out := make([]Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, *clonePost(p))
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Seq > out[j].Seq
	})

	return out, nil
}

func (r *memoryRepository) Like(_ context.Context, postID, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[postID]
	if !ok {
		return 0, fmt.Errorf("like post: %w", core.ErrNotFound)
	}
	if p.LikedByUser(userID) {
		return 0, fmt.Errorf("like post: %w", core.ErrDuplicateAction)
	}

	p.LikedBy = append(p.LikedBy, userID)
	p.Likes++

	return p.Likes, nil
}

func (r *memoryRepository) AddComment(_ context.Context, postID string, comment Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[postID]
	if !ok {
		return fmt.Errorf("add comment: %w", core.ErrNotFound)
	}

	p.Comments = append(p.Comments, comment)
	return nil
}

func clonePost(p *Post) *Post {
	out := *p
	out.LikedBy = append(StringList{}, p.LikedBy...)
	out.Comments = append(CommentList{}, p.Comments...)
	return &out
}
