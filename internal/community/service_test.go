// AngelaMos | 2026
// service_test.go

package community

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/codeburry/api/internal/core"
	"github.com/codeburry/api/internal/realtime"
)

type recordedEvent struct {
	name    string
	payload []byte
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakeBroadcaster) Broadcast(_ context.Context, name string, payload any) {
	data, _ := json.Marshal(payload)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{name: name, payload: data})
}

func (f *fakeBroadcaster) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.name)
	}
	return out
}

var (
	alice = Author{ID: "user-alice", Name: "Alice", Avatar: "/alice.png"}
	bob   = Author{ID: "user-bob", Name: "Bob"}
)

func newTestService() (*Service, *fakeBroadcaster) {
	b := &fakeBroadcaster{}
	return NewService(NewMemoryRepository(), b, "/avatar.png"), b
}

func TestCreatePost(t *testing.T) {
	svc, b := newTestService()
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, bob, "hello world")
	require.NoError(t, err)
	require.Equal(t, "hello world", post.Content)
	require.Equal(t, "/avatar.png", post.User.Avatar)
	require.Zero(t, post.Likes)
	require.Empty(t, post.LikedBy)
	require.Empty(t, post.Comments)
	require.Equal(t, []string{realtime.EventNewPost}, b.names())

	_, err = svc.CreatePost(ctx, bob, "")
	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "Content required", appErr.Message)
	require.Len(t, b.names(), 1)
}

func TestListPostsNewestFirst(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, content := range []string{"first", "second", "third"} {
		_, err := svc.CreatePost(ctx, alice, content)
		require.NoError(t, err)
	}

	posts, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	require.Equal(t, "third", posts[0].Content)
	require.Equal(t, "second", posts[1].Content)
	require.Equal(t, "first", posts[2].Content)
}

func TestListPostsSameTimestampKeepsCreationOrder(t *testing.T) {
	repo := NewMemoryRepository().(*memoryRepository)
	frozen := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return frozen }
	svc := NewService(repo, &fakeBroadcaster{}, "/avatar.png")
	ctx := context.Background()

	contents := []string{"a", "b", "c", "d", "e"}
	for _, content := range contents {
		_, err := svc.CreatePost(ctx, alice, content)
		require.NoError(t, err)
	}

	posts, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, len(contents))
	for i, p := range posts {
		require.Equal(t, contents[len(contents)-1-i], p.Content)
		require.True(t, frozen.Equal(p.CreatedAt))
	}
}

func TestListPostsEmpty(t *testing.T) {
	svc, _ := newTestService()

	posts, err := svc.ListPosts(context.Background())
	require.NoError(t, err)
	require.NotNil(t, posts)
	require.Empty(t, posts)
}

func TestLikePostOncePerUser(t *testing.T) {
	svc, b := newTestService()
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, alice, "like me")
	require.NoError(t, err)

	liked, err := svc.LikePost(ctx, post.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, 1, liked.Likes)

	_, err = svc.LikePost(ctx, post.ID, bob.ID)
	require.ErrorIs(t, err, core.ErrDuplicateAction)

	posts, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, posts[0].Likes)
	require.Equal(t, []string{bob.ID}, posts[0].LikedBy)

	require.Equal(t,
		[]string{realtime.EventNewPost, realtime.EventLikePost},
		b.names(),
	)
}

func TestLikePostConcurrentUsers(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, alice, "race")
	require.NoError(t, err)

	const likers = 50
	errs := make(chan error, likers)
	var wg sync.WaitGroup
	for i := range likers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, likeErr := svc.LikePost(ctx, post.ID, uuid.NewString())
			errs <- likeErr
			if i%2 == 0 {
				_, _ = svc.LikePost(ctx, post.ID, "user-repeat")
			}
		}()
	}
	wg.Wait()
	close(errs)

	for likeErr := range errs {
		require.NoError(t, likeErr)
	}

	posts, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	require.Equal(t, likers+1, posts[0].Likes)
	require.Len(t, posts[0].LikedBy, likers+1)
}

func TestLikePostMissing(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.LikePost(ctx, uuid.NewString(), bob.ID)
	require.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.LikePost(ctx, "not-an-id", bob.ID)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestAddComment(t *testing.T) {
	svc, b := newTestService()
	ctx := context.Background()
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) }

	post, err := svc.CreatePost(ctx, alice, "discuss")
	require.NoError(t, err)

	resp, err := svc.AddComment(ctx, post.ID, bob, "nice")
	require.NoError(t, err)
	require.Equal(t, post.ID, resp.PostID)
	require.Equal(t, "nice", resp.Comment.Content)
	require.Equal(t, "/avatar.png", resp.Comment.User.Avatar)
	require.NotEmpty(t, resp.Comment.ID)

	_, err = svc.AddComment(ctx, post.ID, alice, "thanks")
	require.NoError(t, err)

	posts, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts[0].Comments, 2)
	require.Equal(t, "nice", posts[0].Comments[0].Content)
	require.Equal(t, "thanks", posts[0].Comments[1].Content)

	require.Equal(t, realtime.EventNewComment, b.names()[1])
}

func TestAddCommentErrors(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddComment(ctx, uuid.NewString(), bob, "hello")
	require.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.AddComment(ctx, uuid.NewString(), bob, "")
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestServiceWithoutBroadcaster(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil, "/avatar.png")

	_, err := svc.CreatePost(context.Background(), alice, "quiet")
	require.NoError(t, err)
}
