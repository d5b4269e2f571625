package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"sort"
	"strings"

	"github.com/bantaybuddy/backend/internal/models"
	"github.com/bantaybuddy/backend/internal/repositories"
	"github.com/bantaybuddy/backend/validators"
	"github.com/labstack/echo/v4"
)

// newTestContext builds an Echo context the way the router would, with the
// request validator installed and the given uid set by the auth middleware.
func newTestContext(method, target, uid string, body io.Reader, contentType string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validators.NewValidator()

	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if uid != "" {
		c.Set("firebaseUID", uid)
	}
	return c, rec
}

// --- user repository fake ---

type fakeUserRepo struct {
	users map[string]*models.User
	err   error
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]*models.User{}}
	for _, user := range users {
		repo.users[user.UID] = user
	}
	return repo
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	r.users[user.UID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByUID(_ context.Context, uid string) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	user, ok := r.users[uid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, uid string, req *models.UpdateProfileRequest) (*models.User, error) {
	user, err := r.GetUserByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if req.DisplayName != "" {
		user.DisplayName = req.DisplayName
	}
	if req.Location != "" {
		user.Location = req.Location
	}
	if req.UserPhotoURL != "" {
		user.UserPhotoURL = req.UserPhotoURL
	}
	if req.CoverPhotoURL != "" {
		user.CoverPhotoURL = req.CoverPhotoURL
	}
	return user, nil
}

func (r *fakeUserRepo) AddPet(ctx context.Context, uid, petID string) error {
	user, err := r.GetUserByUID(ctx, uid)
	if err != nil {
		return err
	}
	user.Pets = append(user.Pets, petID)
	return nil
}

func (r *fakeUserRepo) RemovePet(ctx context.Context, uid, petID string) error {
	user, err := r.GetUserByUID(ctx, uid)
	if err != nil {
		return err
	}
	kept := user.Pets[:0]
	for _, id := range user.Pets {
		if id != petID {
			kept = append(kept, id)
		}
	}
	user.Pets = kept
	return nil
}

// --- post repository fake ---

type fakePostRepo struct {
	posts map[string]*models.Post
}

func newFakePostRepo(posts ...*models.Post) *fakePostRepo {
	repo := &fakePostRepo{posts: map[string]*models.Post{}}
	for _, post := range posts {
		repo.posts[post.PostID] = post
	}
	return repo
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	if post.ReportStatus == "" {
		post.ReportStatus = models.ReportStatusNone
	}
	r.posts[post.PostID] = post
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	post, ok := r.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return post, nil
}

func (r *fakePostRepo) GetPostsByAuthor(_ context.Context, authorID string, skip, limit int64) ([]models.Post, error) {
	return r.list(func(p *models.Post) bool { return p.AuthorID == authorID }, skip, limit), nil
}

func (r *fakePostRepo) ListPosts(_ context.Context, category string, skip, limit int64) ([]models.Post, error) {
	return r.list(func(p *models.Post) bool { return category == "" || p.Category == category }, skip, limit), nil
}

func (r *fakePostRepo) list(match func(*models.Post) bool, skip, limit int64) []models.Post {
	var posts []models.Post
	for _, post := range r.posts {
		if match(post) {
			posts = append(posts, *post)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].Date.After(posts[j].Date) })
	if skip > int64(len(posts)) {
		skip = int64(len(posts))
	}
	posts = posts[skip:]
	if limit > 0 && int64(len(posts)) > limit {
		posts = posts[:limit]
	}
	return posts
}

func (r *fakePostRepo) UpdateContent(_ context.Context, id, content, category string) error {
	post, ok := r.posts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	post.Content = content
	post.Category = category
	post.IsEdited = true
	return nil
}

func (r *fakePostRepo) SetReportStatus(_ context.Context, id string, status models.ReportStatus) error {
	post, ok := r.posts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	post.ReportStatus = status
	for _, other := range r.posts {
		if other.OriginalPostID == id {
			other.OriginalReportStatus = status
		}
	}
	return nil
}

func (r *fakePostRepo) DeletePost(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

// --- pet repository fake ---

type fakePetRepo struct {
	pets map[string]*models.Pet
}

func newFakePetRepo(pets ...*models.Pet) *fakePetRepo {
	repo := &fakePetRepo{pets: map[string]*models.Pet{}}
	for _, pet := range pets {
		repo.pets[pet.PetID] = pet
	}
	return repo
}

func (r *fakePetRepo) CreatePet(_ context.Context, pet *models.Pet) error {
	r.pets[pet.PetID] = pet
	return nil
}

func (r *fakePetRepo) GetPetByID(_ context.Context, petID string) (*models.Pet, error) {
	pet, ok := r.pets[petID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return pet, nil
}

func (r *fakePetRepo) GetPetsByOwner(_ context.Context, ownerUID string) ([]models.Pet, error) {
	pets := []models.Pet{}
	for _, pet := range r.pets {
		if pet.OwnerUID == ownerUID {
			pets = append(pets, *pet)
		}
	}
	return pets, nil
}

func (r *fakePetRepo) DeletePet(_ context.Context, petID string) error {
	if _, ok := r.pets[petID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.pets, petID)
	return nil
}

// --- comment repository fake ---

type fakeCommentRepo struct {
	comments        map[string]*models.Comment
	replies         map[string]*models.Reply
	failReplyInsert bool
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{
		comments: map[string]*models.Comment{},
		replies:  map[string]*models.Reply{},
	}
}

func (r *fakeCommentRepo) CreateComment(_ context.Context, comment *models.Comment) error {
	r.comments[comment.CommentID] = comment
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(_ context.Context, commentID string) (*models.Comment, error) {
	comment, ok := r.comments[commentID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return comment, nil
}

func (r *fakeCommentRepo) GetCommentsByPostID(_ context.Context, postID string) ([]models.Comment, error) {
	comments := []models.Comment{}
	for _, comment := range r.comments {
		if comment.PostID == postID {
			comments = append(comments, *comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].CommentDate.Before(comments[j].CommentDate) })
	return comments, nil
}

func (r *fakeCommentRepo) UpdateCommentBody(_ context.Context, commentID, body string) error {
	comment, ok := r.comments[commentID]
	if !ok {
		return repositories.ErrNotFound
	}
	comment.CommentBody = body
	comment.IsEdited = true
	return nil
}

func (r *fakeCommentRepo) DeleteComment(_ context.Context, commentID string) error {
	if _, ok := r.comments[commentID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.comments, commentID)
	for replyID, reply := range r.replies {
		if reply.CommentID == commentID {
			delete(r.replies, replyID)
		}
	}
	return nil
}

// CreateReply mirrors the store's ordering: the reply lands first, the parent
// count is bumped only once the insert succeeded.
func (r *fakeCommentRepo) CreateReply(_ context.Context, reply *models.Reply) error {
	parent, ok := r.comments[reply.CommentID]
	if !ok {
		return repositories.ErrNotFound
	}
	if r.failReplyInsert {
		return errors.New("reply insert failed")
	}
	r.replies[reply.ReplyID] = reply
	parent.ReplyCount++
	return nil
}

func (r *fakeCommentRepo) GetReplyByID(_ context.Context, replyID string) (*models.Reply, error) {
	reply, ok := r.replies[replyID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return reply, nil
}

func (r *fakeCommentRepo) GetRepliesByCommentID(_ context.Context, commentID string) ([]models.Reply, error) {
	replies := []models.Reply{}
	for _, reply := range r.replies {
		if reply.CommentID == commentID {
			replies = append(replies, *reply)
		}
	}
	return replies, nil
}

func (r *fakeCommentRepo) DeleteReply(_ context.Context, replyID string) error {
	reply, ok := r.replies[replyID]
	if !ok {
		return repositories.ErrNotFound
	}
	delete(r.replies, replyID)
	if parent, ok := r.comments[reply.CommentID]; ok {
		parent.ReplyCount--
	}
	return nil
}

func (r *fakeCommentRepo) CountForPost(_ context.Context, postID string) (int64, error) {
	var total int64
	for _, comment := range r.comments {
		if comment.PostID == postID {
			total += 1 + comment.ReplyCount
		}
	}
	return total, nil
}

func (r *fakeCommentRepo) WatchPost(ctx context.Context, _ string) (<-chan struct{}, func(), error) {
	events := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(events)
	}()
	return events, func() {}, nil
}

// --- reaction repository fake ---

type fakeReactionRepo struct {
	boards map[string]*models.ReactionBoard
}

func newFakeReactionRepo() *fakeReactionRepo {
	return &fakeReactionRepo{boards: map[string]*models.ReactionBoard{}}
}

func (r *fakeReactionRepo) GetBoard(_ context.Context, postID string) (*models.ReactionBoard, error) {
	board, ok := r.boards[postID]
	if !ok {
		return models.NewReactionBoard(postID), nil
	}
	return board, nil
}

func (r *fakeReactionRepo) Toggle(_ context.Context, postID, uid string, kind models.ReactionKind) (models.ToggleOutcome, error) {
	board, ok := r.boards[postID]
	if !ok {
		board = models.NewReactionBoard(postID)
		r.boards[postID] = board
	}
	return board.Toggle(uid, kind), nil
}

// --- notification repository fake ---

type fakeNotificationRepo struct {
	created []*models.Notification
	err     error
}

func (r *fakeNotificationRepo) CreateNotification(notification *models.Notification) error {
	if r.err != nil {
		return r.err
	}
	notification.ID = uint(len(r.created) + 1)
	r.created = append(r.created, notification)
	return nil
}

func (r *fakeNotificationRepo) GetByRecipient(recipientUID string, page, limit int) ([]models.Notification, int64, error) {
	matched := []models.Notification{}
	for _, n := range r.created {
		if n.RecipientUID == recipientUID {
			matched = append(matched, *n)
		}
	}
	total := int64(len(matched))
	offset := (page - 1) * limit
	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(recipientUID string) (int64, error) {
	var count int64
	for _, n := range r.created {
		if n.RecipientUID == recipientUID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(notificationID uint, recipientUID string) error {
	for _, n := range r.created {
		if n.ID == notificationID && n.RecipientUID == recipientUID {
			n.IsRead = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeNotificationRepo) MarkAllAsRead(recipientUID string) error {
	for _, n := range r.created {
		if n.RecipientUID == recipientUID {
			n.IsRead = true
		}
	}
	return nil
}

// --- report repository fake ---

type fakeReportRepo struct {
	reports []*models.Report
}

func (r *fakeReportRepo) CreateReport(report *models.Report) error {
	report.ID = uint(len(r.reports) + 1)
	r.reports = append(r.reports, report)
	return nil
}

func (r *fakeReportRepo) GetByPostID(postID string) ([]models.Report, error) {
	matched := []models.Report{}
	for _, report := range r.reports {
		if report.PostID == postID {
			matched = append(matched, *report)
		}
	}
	return matched, nil
}

func (r *fakeReportRepo) CountByPostID(postID string) (int64, error) {
	reports, _ := r.GetByPostID(postID)
	return int64(len(reports)), nil
}

func (r *fakeReportRepo) HasReported(postID, reporterUID string) (bool, error) {
	for _, report := range r.reports {
		if report.PostID == postID && report.ReporterUID == reporterUID {
			return true, nil
		}
	}
	return false, nil
}

// --- media store fake ---

type fakeMediaStore struct {
	uploaded []string
	deleted  []string
	failOn   string
}

func (s *fakeMediaStore) UploadPostMedia(_ context.Context, postID, filename, _ string, r io.Reader) (string, error) {
	return s.upload("postMedia/"+postID, filename, r)
}

func (s *fakeMediaStore) UploadPetPhoto(_ context.Context, petID, filename, _ string, r io.Reader) (string, error) {
	return s.upload("petProfile/"+petID, filename, r)
}

func (s *fakeMediaStore) upload(prefix, filename string, r io.Reader) (string, error) {
	if s.failOn != "" && strings.Contains(filename, s.failOn) {
		return "", fmt.Errorf("upload of %s failed", filename)
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	url := fmt.Sprintf("https://cdn.test/%s/%s", prefix, filename)
	s.uploaded = append(s.uploaded, url)
	return url, nil
}

func (s *fakeMediaStore) DeleteByURL(_ context.Context, mediaURL string) error {
	s.deleted = append(s.deleted, mediaURL)
	return nil
}
