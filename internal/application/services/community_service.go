package services

import (
	"context"
	"sort"
	"strings"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/repositories"
	apperrors "github.com/Yong0-sa/weconnect-sub000/pkg/errors"
)

// CommunityService backs the community board
type CommunityService struct {
	repo repositories.CommunityRepository
}

// NewCommunityService creates a community service
func NewCommunityService(repo repositories.CommunityRepository) *CommunityService {
	return &CommunityService{repo: repo}
}

// ListPosts lists posts, optionally for one farm
func (s *CommunityService) ListPosts(ctx context.Context, farmID *int64) ([]entities.Post, error) {
	return s.repo.ListPosts(ctx, farmID)
}

// GetPost loads one post
func (s *CommunityService) GetPost(ctx context.Context, postID int64) (*entities.Post, error) {
	return s.repo.GetPost(ctx, postID)
}

// CreatePost validates and posts an article
func (s *CommunityService) CreatePost(ctx context.Context, in entities.PostInput) (*entities.Post, error) {
	in, err := preparePost(in)
	if err != nil {
		return nil, err
	}
	return s.repo.CreatePost(ctx, in)
}

// UpdatePost validates and rewrites an article
func (s *CommunityService) UpdatePost(ctx context.Context, postID int64, in entities.PostInput) (*entities.Post, error) {
	in, err := preparePost(in)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdatePost(ctx, postID, in)
}

// DeletePost removes an article
func (s *CommunityService) DeletePost(ctx context.Context, postID int64) error {
	return s.repo.DeletePost(ctx, postID)
}

func preparePost(in entities.PostInput) (entities.PostInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, apperrors.NewValidationError("제목을 입력하세요.")
	}
	if strings.TrimSpace(in.Content) == "" {
		return in, apperrors.NewValidationError("내용을 입력하세요.")
	}
	in.Tags = NormalizeTags(in.Tags)
	return in, nil
}

// NormalizeTags trims tags, strips leading '#', and drops blanks and duplicates keeping first-seen order
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(tag), "#"))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Thread loads the comments of postID as a tree
func (s *CommunityService) Thread(ctx context.Context, postID int64) ([]*entities.Comment, error) {
	comments, err := s.repo.ListComments(ctx, postID)
	if err != nil {
		return nil, err
	}
	return BuildCommentTree(comments), nil
}

// BuildCommentTree nests replies under their parent. Top level and every reply list are ordered
// by creation time. A reply whose parent is missing is promoted to the top level.
func BuildCommentTree(comments []entities.Comment) []*entities.Comment {
	nodes := make(map[int64]*entities.Comment, len(comments))
	ordered := make([]*entities.Comment, 0, len(comments))
	for i := range comments {
		c := comments[i]
		c.Replies = nil
		nodes[c.CommentID] = &c
		ordered = append(ordered, &c)
	}
	sortComments(ordered)

	var roots []*entities.Comment
	for _, c := range ordered {
		if c.ParentID != nil && !inCycle(nodes, c) {
			if parent, ok := nodes[*c.ParentID]; ok {
				parent.Replies = append(parent.Replies, c)
				continue
			}
		}
		roots = append(roots, c)
	}
	return roots
}

// inCycle reports whether following parents from c leads back to c
func inCycle(nodes map[int64]*entities.Comment, c *entities.Comment) bool {
	seen := map[int64]bool{c.CommentID: true}
	for cur := c; cur.ParentID != nil; {
		if seen[*cur.ParentID] {
			return *cur.ParentID == c.CommentID
		}
		parent, ok := nodes[*cur.ParentID]
		if !ok {
			return false
		}
		seen[parent.CommentID] = true
		cur = parent
	}
	return false
}

func sortComments(comments []*entities.Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		a, b := commentTime(comments[i]), commentTime(comments[j])
		if !a.Equal(b.Time) {
			return a.Before(b.Time)
		}
		return comments[i].CommentID < comments[j].CommentID
	})
}

func commentTime(c *entities.Comment) (t entities.Timestamp) {
	if c.CreatedAt != nil {
		t = *c.CreatedAt
	}
	return t
}

// Comment posts a comment, or a reply when parentID is set
func (s *CommunityService) Comment(ctx context.Context, postID int64, parentID *int64, content string) (*entities.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("댓글을 입력하세요.")
	}
	return s.repo.CreateComment(ctx, entities.CommentInput{PostID: postID, ParentID: parentID, Content: content})
}

// DeleteComment removes a comment
func (s *CommunityService) DeleteComment(ctx context.Context, commentID int64) error {
	return s.repo.DeleteComment(ctx, commentID)
}
