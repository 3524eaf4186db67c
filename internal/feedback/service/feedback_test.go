package service

import (
	"context"
	"sync"
	"testing"

	"roomly/internal/authz"
	"roomly/internal/directory"
	feedbackerrors "roomly/internal/feedback/errors"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/logger"
	"roomly/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	roomL1    = "1a9f9c3e-2b4d-4e6f-8a1b-3c5d7e9f1a2b"
	roomL2    = "2b8e8d4f-3c5e-4f7a-9b2c-4d6e8f0a2b3c"
	userAlice = "4d6c6f6b-5e7a-4b9c-bd4e-6f8a0b2c4d5e"
	managerL1 = "6f4a4b8d-7a9c-4dbe-9f6a-8b0c2d4e6f7a"
	adminIda  = "7a3b3c9e-8b0d-4ecf-aa7b-9c1d3e5f7a8b"
)

type fakeFeedbackRepo struct {
	mu    sync.Mutex
	items map[string]*model.Feedback
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{items: make(map[string]*model.Feedback)}
}

func (r *fakeFeedbackRepo) Create(ctx context.Context, feedback *model.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *feedback
	r.items[feedback.ID] = &cp
	return nil
}

func (r *fakeFeedbackRepo) FindByID(ctx context.Context, id string) (*model.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.items[id]
	if !ok {
		return nil, feedbackerrors.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFeedbackRepo) FindByRoom(ctx context.Context, roomID string, limit int, offset int64) ([]*model.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Feedback
	for _, f := range r.items {
		if f.RoomID == roomID {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeFeedbackRepo) CountByRoom(ctx context.Context, roomID string) (int64, error) {
	found, _ := r.FindByRoom(ctx, roomID, 0, 0)
	return int64(len(found)), nil
}

func (r *fakeFeedbackRepo) Resolve(ctx context.Context, id string, status model.FeedbackStatus, resolverID, comment string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.items[id]
	if !ok || f.Status != model.FeedbackOpen {
		return feedbackerrors.ErrNotOpen
	}
	f.Status = status
	f.ResolverID = resolverID
	f.ResolutionComment = comment
	return nil
}

type fakeRoomDirectory struct {
	rooms map[string]*model.Room
}

func (d *fakeRoomDirectory) FindByID(ctx context.Context, id string) (*model.Room, error) {
	room, ok := d.rooms[id]
	if !ok {
		return nil, directory.ErrRoomNotFound
	}
	return room, nil
}

func (d *fakeRoomDirectory) FindByLocation(ctx context.Context, locationID string) ([]*model.Room, error) {
	return nil, nil
}

type fakeUserDirectory struct {
	principals map[string]*model.Principal
}

func (d *fakeUserDirectory) FindPrincipal(ctx context.Context, userID string) (*model.Principal, error) {
	p, ok := d.principals[userID]
	if !ok {
		return nil, directory.ErrUserNotFound
	}
	return p, nil
}

func newTestService(t *testing.T) (FeedbackService, *fakeFeedbackRepo) {
	t.Helper()

	log := logger.New(logger.Config{Level: "error", Service: "test"})
	cfg := &config.Config{Log: log}

	rooms := &fakeRoomDirectory{rooms: map[string]*model.Room{
		roomL1: {ID: roomL1, LocationID: "loc-1", Name: "Aurora", Active: true},
		roomL2: {ID: roomL2, LocationID: "loc-2", Name: "Borealis", Active: true},
	}}
	users := &fakeUserDirectory{principals: map[string]*model.Principal{
		userAlice: {ID: userAlice, Role: model.RoleUser},
		managerL1: {ID: managerL1, Role: model.RoleManager, Locations: []string{"loc-1"}},
		adminIda:  {ID: adminIda, Role: model.RoleAdmin},
	}}

	repo := newFakeFeedbackRepo()
	svc := NewFeedbackService(cfg, repo, rooms, users, authz.NewScoper(rooms, log))
	return svc, repo
}

func newFeedback(roomID string) *model.Feedback {
	return &model.Feedback{
		RoomID:  roomID,
		Message: "The projector is broken",
	}
}

func TestCreateFeedback(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Create(context.Background(), userAlice, newFeedback(roomL1))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.FeedbackOpen, created.Status)
	assert.Equal(t, userAlice, created.UserID)
}

func TestCreateFeedback_UnknownRoom(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), userAlice, newFeedback("9c1d1ebf-0d2f-4abc-ac9d-1e3f5a7b9c0d"))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.AsAppError(err).Code)
}

func TestCreateFeedback_StatusForcedOpen(t *testing.T) {
	svc, _ := newTestService(t)

	f := newFeedback(roomL1)
	f.Status = model.FeedbackResolved
	f.ResolverID = adminIda

	created, err := svc.Create(context.Background(), userAlice, f)
	require.NoError(t, err)
	assert.Equal(t, model.FeedbackOpen, created.Status)
	assert.Empty(t, created.ResolverID)
}

func TestResolveFeedback(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, userAlice, newFeedback(roomL1))
	require.NoError(t, err)

	resolved, err := svc.Resolve(ctx, managerL1, created.ID, "replaced the projector")
	require.NoError(t, err)
	assert.Equal(t, model.FeedbackResolved, resolved.Status)
	assert.Equal(t, managerL1, resolved.ResolverID)
	assert.Equal(t, "replaced the projector", resolved.ResolutionComment)
}

func TestDismissFeedback(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, userAlice, newFeedback(roomL1))
	require.NoError(t, err)

	dismissed, err := svc.Dismiss(ctx, adminIda, created.ID, "duplicate report")
	require.NoError(t, err)
	assert.Equal(t, model.FeedbackDismissed, dismissed.Status)
}

func TestCloseFeedback_Authorization(t *testing.T) {
	tests := []struct {
		name    string
		room    string
		actor   string
		wantErr bool
	}{
		{name: "reporter cannot close own report", room: roomL1, actor: userAlice, wantErr: true},
		{name: "manager in location", room: roomL1, actor: managerL1},
		{name: "manager outside location", room: roomL2, actor: managerL1, wantErr: true},
		{name: "admin anywhere", room: roomL2, actor: adminIda},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)
			ctx := context.Background()

			created, err := svc.Create(ctx, userAlice, newFeedback(tt.room))
			require.NoError(t, err)

			_, err = svc.Resolve(ctx, tt.actor, created.ID, "")
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperrors.CodeForbidden, apperrors.AsAppError(err).Code)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCloseFeedback_TerminalIsSticky(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, userAlice, newFeedback(roomL1))
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, managerL1, created.ID, "done")
	require.NoError(t, err)

	_, err = svc.Dismiss(ctx, managerL1, created.ID, "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidTransition, apperrors.AsAppError(err).Code)
}

func TestListFeedbackByRoom(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, userAlice, newFeedback(roomL1))
	require.NoError(t, err)
	_, err = svc.Create(ctx, userAlice, newFeedback(roomL2))
	require.NoError(t, err)

	items, total, err := svc.ListByRoom(ctx, roomL1, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, roomL1, items[0].RoomID)
}
