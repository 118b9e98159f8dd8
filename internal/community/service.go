// AngelaMos | 2026
// service.go

package community

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/codeburry/api/internal/core"
	"github.com/codeburry/api/internal/realtime"
)

type Service struct {
	repo          Repository
	broadcaster   realtime.Broadcaster
	defaultAvatar string
	now           func() time.Time
}

func NewService(
	repo Repository,
	broadcaster realtime.Broadcaster,
	defaultAvatar string,
) *Service {
	return &Service{
		repo:          repo,
		broadcaster:   broadcaster,
		defaultAvatar: defaultAvatar,
		now:           time.Now,
	}
}

func (s *Service) ListPosts(ctx context.Context) ([]PostResponse, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return ToPostResponseList(posts), nil
}

func (s *Service) CreatePost(
	ctx context.Context,
	author Author,
	content string,
) (_ *PostResponse, err error) {
	ctx, span := core.StartSpan(ctx, "community", "community.create_post",
		attribute.String("user.id", author.ID),
	)
	defer func() { core.EndSpan(span, err) }()

	if content == "" {
		return nil, core.ValidationError("Content required")
	}

	author = s.snapshot(author)
	post := &Post{
		ID:           uuid.New().String(),
		AuthorID:     author.ID,
		AuthorName:   author.Name,
		AuthorAvatar: author.Avatar,
		Content:      content,
		LikedBy:      StringList{},
		Comments:     CommentList{},
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}

	resp := ToPostResponse(post)
	s.emit(ctx, realtime.EventNewPost, resp)

	return &resp, nil
}

// LikePost adds userID to the post's likers. A second like from the same
// user fails with ErrDuplicateAction and leaves the count unchanged.
func (s *Service) LikePost(
	ctx context.Context,
	postID, userID string,
) (_ *LikeResponse, err error) {
	ctx, span := core.StartSpan(ctx, "community", "community.like_post",
		attribute.String("post.id", postID),
		attribute.String("user.id", userID),
	)
	defer func() { core.EndSpan(span, err) }()

	if !validPostID(postID) {
		return nil, fmt.Errorf("like post: %w", core.ErrNotFound)
	}

	likes, err := s.repo.Like(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	resp := &LikeResponse{ID: postID, Likes: likes}
	s.emit(ctx, realtime.EventLikePost, resp)

	return resp, nil
}

func (s *Service) AddComment(
	ctx context.Context,
	postID string,
	author Author,
	content string,
) (_ *CommentResponse, err error) {
	ctx, span := core.StartSpan(ctx, "community", "community.add_comment",
		attribute.String("post.id", postID),
		attribute.String("user.id", author.ID),
	)
	defer func() { core.EndSpan(span, err) }()

	if content == "" {
		return nil, core.ValidationError("Content required")
	}

	if !validPostID(postID) {
		return nil, fmt.Errorf("add comment: %w", core.ErrNotFound)
	}

	comment := Comment{
		ID:        uuid.New().String(),
		User:      s.snapshot(author),
		Content:   content,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.AddComment(ctx, postID, comment); err != nil {
		return nil, err
	}

	resp := &CommentResponse{PostID: postID, Comment: comment}
	s.emit(ctx, realtime.EventNewComment, resp)

	return resp, nil
}

func (s *Service) snapshot(a Author) Author {
	if a.Avatar == "" {
		a.Avatar = s.defaultAvatar
	}
	return a
}

func (s *Service) emit(ctx context.Context, event string, payload any) {
	if s.broadcaster == nil {
		return
	}
	core.AddSpanEvent(ctx, "realtime.broadcast", attribute.String("event", event))
	s.broadcaster.Broadcast(ctx, event, payload)
}

// Post ids are UUIDs; anything else cannot name a post.
func validPostID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
