package item_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tripsplit/internal/item"
)

func TestRequiredVotes(t *testing.T) {
	tests := []struct {
		eligible int
		want     int
	}{
		{eligible: 1, want: 1},
		{eligible: 2, want: 2},
		{eligible: 3, want: 2},
		{eligible: 4, want: 3},
		{eligible: 5, want: 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, item.RequiredVotes(tt.eligible), "eligible=%d", tt.eligible)
	}
}

func TestTally_Decide(t *testing.T) {
	type testCase struct {
		name       string
		approvals  int
		rejections int
		eligible   int
		want       item.Status
	}

	tests := []testCase{
		{name: "MajorityApproves", approvals: 2, rejections: 0, eligible: 3, want: item.StatusApproved},
		{name: "MajorityRejects", approvals: 1, rejections: 2, eligible: 3, want: item.StatusRejected},
		{name: "ShortOfMajority", approvals: 1, rejections: 1, eligible: 3, want: item.StatusPending},
		{name: "EvenElectorateNeedsMoreThanHalf", approvals: 2, rejections: 2, eligible: 4, want: item.StatusPending},
		{name: "ApprovalCheckedFirst", approvals: 1, rejections: 1, eligible: 1, want: item.StatusApproved},
		{name: "NoElectorate", approvals: 3, rejections: 0, eligible: 0, want: item.StatusPending},
		{name: "SingleVoter", approvals: 1, rejections: 0, eligible: 1, want: item.StatusApproved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tally := item.NewTally(tt.approvals, tt.rejections, tt.eligible)
			assert.Equal(t, tt.want, tally.Decide())
			assert.Equal(t, tt.eligible, tally.EligibleParticipants)
		})
	}
}

func TestService_Create(t *testing.T) {
	tripID := uuid.New()
	creator := uuid.New()

	type args struct {
		params item.CreateParams
	}

	type testCase struct {
		name       string
		args       args
		setupMock  func(m *item.MockRepository, tx *item.MockTx)
		wantStatus item.Status
		wantErr    error
	}

	base := item.CreateParams{
		TripID:    tripID,
		CreatedBy: creator,
		Title:     "  Sushi Dai ",
		Category:  item.CategoryFood,
	}

	tests := []testCase{
		{
			name: "SoleParticipantAutoApproves",
			args: args{params: base},
			setupMock: func(m *item.MockRepository, tx *item.MockTx) {
				m.EXPECT().HasRecentDuplicate(gomock.Any(), creator, "Sushi Dai", item.CategoryFood, gomock.Any()).Return(false, nil)
				m.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().CreateItem(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, it *item.Item) error {
						it.ID = uuid.New()
						return nil
					})
				tx.EXPECT().UpsertVote(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, v item.Vote) error {
						assert.Equal(t, creator, v.UserID)
						assert.Equal(t, item.VoteApprove, v.Value)
						return nil
					})
				tx.EXPECT().CountEligible(gomock.Any(), tripID).Return(1, nil)
				tx.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), item.StatusApproved).Return(nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantStatus: item.StatusApproved,
		},
		{
			name: "LargerTripStaysPending",
			args: args{params: base},
			setupMock: func(m *item.MockRepository, tx *item.MockTx) {
				m.EXPECT().HasRecentDuplicate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				m.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().CreateItem(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().UpsertVote(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().CountEligible(gomock.Any(), tripID).Return(3, nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantStatus: item.StatusPending,
		},
		{
			name: "DuplicateWithinWindow",
			args: args{params: base},
			setupMock: func(m *item.MockRepository, _ *item.MockTx) {
				m.EXPECT().HasRecentDuplicate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr: item.ErrDuplicateSubmission,
		},
		{
			name: "InvalidCategory",
			args: args{params: item.CreateParams{TripID: tripID, CreatedBy: creator, Title: "x", Category: "BAR"}},
			wantErr: item.ErrInvalidCategory,
		},
		{
			name: "VoteFailureRollsBack",
			args: args{params: base},
			setupMock: func(m *item.MockRepository, tx *item.MockTx) {
				m.EXPECT().HasRecentDuplicate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				m.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().CreateItem(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().UpsertVote(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := item.NewMockRepository(ctrl)
			tx := item.NewMockTx(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, tx)
			}

			svc := item.NewService(repo)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, got)
				assert.Contains(t, err.Error(), tt.wantErr.Error())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, "Sushi Dai", got.Title)
		})
	}
}

func TestService_CastVote(t *testing.T) {
	itemID := uuid.New()
	tripID := uuid.New()
	creator := uuid.New()
	voter := uuid.New()

	pending := &item.Item{ID: itemID, TripID: tripID, CreatedBy: creator, Status: item.StatusPending}

	type args struct {
		userID uuid.UUID
		value  item.VoteValue
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *item.MockRepository, tx *item.MockTx)
		want      *item.VoteResult
		wantErr   error
	}

	tests := []testCase{
		{
			name: "CrossesApprovalThreshold",
			args: args{userID: voter, value: item.VoteApprove},
			setupMock: func(m *item.MockRepository, tx *item.MockTx) {
				m.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().LockItem(gomock.Any(), itemID).Return(pending, nil)
				tx.EXPECT().UpsertVote(gomock.Any(), item.Vote{ItemID: itemID, UserID: voter, Value: item.VoteApprove}).Return(nil)
				tx.EXPECT().CountVotes(gomock.Any(), itemID).Return(item.VoteCount{Approvals: 2}, nil)
				tx.EXPECT().CountEligible(gomock.Any(), tripID).Return(3, nil)
				tx.EXPECT().UpdateStatus(gomock.Any(), itemID, item.StatusApproved).Return(nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			want: &item.VoteResult{
				ItemID: itemID,
				Status: item.StatusApproved,
				Value:  item.VoteApprove,
				Tally:  item.Tally{Approvals: 2, Required: 2, EligibleParticipants: 3},
			},
		},
		{
			name: "StaysPending",
			args: args{userID: voter, value: item.VoteReject},
			setupMock: func(m *item.MockRepository, tx *item.MockTx) {
				m.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().LockItem(gomock.Any(), itemID).Return(pending, nil)
				tx.EXPECT().UpsertVote(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().CountVotes(gomock.Any(), itemID).Return(item.VoteCount{Approvals: 1, Rejections: 1}, nil)
				tx.EXPECT().CountEligible(gomock.Any(), tripID).Return(4, nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			want: &item.VoteResult{
				ItemID: itemID,
				Status: item.StatusPending,
				Value:  item.VoteReject,
				Tally:  item.Tally{Approvals: 1, Rejections: 1, Required: 3, EligibleParticipants: 4},
			},
		},
		{
			name: "NotFound",
			args: args{userID: voter, value: item.VoteApprove},
			setupMock: func(m *item.MockRepository, tx *item.MockTx) {
				m.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().LockItem(gomock.Any(), itemID).Return(nil, item.ErrNotFound)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: item.ErrNotFound,
		},
		{
			name: "OwnItem",
			args: args{userID: creator, value: item.VoteApprove},
			setupMock: func(m *item.MockRepository, tx *item.MockTx) {
				m.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().LockItem(gomock.Any(), itemID).Return(pending, nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: item.ErrOwnItem,
		},
		{
			name: "AlreadyResolved",
			args: args{userID: voter, value: item.VoteReject},
			setupMock: func(m *item.MockRepository, tx *item.MockTx) {
				resolved := *pending
				resolved.Status = item.StatusRejected

				m.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().LockItem(gomock.Any(), itemID).Return(&resolved, nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: item.ErrNotPending,
		},
		{
			name:    "InvalidValue",
			args:    args{userID: voter, value: "MAYBE"},
			wantErr: item.ErrInvalidVoteValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := item.NewMockRepository(ctrl)
			tx := item.NewMockTx(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, tx)
			}

			svc := item.NewService(repo)
			got, err := svc.CastVote(context.Background(), itemID, tt.args.userID, tt.args.value)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_CastVote_NotPendingCarriesStatus(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := item.NewMockRepository(ctrl)
	tx := item.NewMockTx(ctrl)

	id := uuid.New()

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().LockItem(gomock.Any(), id).Return(&item.Item{ID: id, CreatedBy: uuid.New(), Status: item.StatusApproved}, nil)
	tx.EXPECT().Rollback().Return(nil)

	_, err := item.NewService(repo).CastVote(context.Background(), id, uuid.New(), item.VoteApprove)

	var npe *item.NotPendingError
	require.ErrorAs(t, err, &npe)
	assert.Equal(t, item.StatusApproved, npe.Status)
	assert.Equal(t, "item is already approved", err.Error())
}

func TestService_Recalculate(t *testing.T) {
	tripA := uuid.New()
	tripB := uuid.New()
	tripEmpty := uuid.New()

	approveMe := uuid.New()
	rejectMe := uuid.New()
	stay := uuid.New()
	orphan := uuid.New()

	ctrl := gomock.NewController(t)
	rtx := item.NewMockRecalcTx(ctrl)

	rtx.EXPECT().ListPending(gomock.Any()).Return([]item.PendingItem{
		{ID: approveMe, TripID: tripA},
		{ID: stay, TripID: tripA},
		{ID: rejectMe, TripID: tripB},
		{ID: orphan, TripID: tripEmpty},
	}, nil)
	rtx.EXPECT().CountEligibleByTrip(gomock.Any(), []uuid.UUID{tripA, tripB, tripEmpty}).
		Return(map[uuid.UUID]int{tripA: 1, tripB: 2}, nil)
	rtx.EXPECT().TallyVotes(gomock.Any(), []uuid.UUID{approveMe, stay, rejectMe, orphan}).
		Return(map[uuid.UUID]item.VoteCount{
			approveMe: {Approvals: 1},
			rejectMe:  {Approvals: 1, Rejections: 2},
			orphan:    {Approvals: 4},
		}, nil)
	rtx.EXPECT().UpdateStatuses(gomock.Any(), []uuid.UUID{approveMe}, item.StatusApproved).Return(1, nil)
	rtx.EXPECT().UpdateStatuses(gomock.Any(), []uuid.UUID{rejectMe}, item.StatusRejected).Return(1, nil)

	svc := item.NewService(item.NewMockRepository(ctrl))
	changed, err := svc.Recalculate(context.Background(), rtx)

	require.NoError(t, err)
	assert.Equal(t, 2, changed)
}

func TestService_Recalculate_NothingPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	rtx := item.NewMockRecalcTx(ctrl)

	rtx.EXPECT().ListPending(gomock.Any()).Return(nil, nil)

	changed, err := item.NewService(item.NewMockRepository(ctrl)).Recalculate(context.Background(), rtx)

	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestService_RecalculateAll_RollsBackOnError(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := item.NewMockRepository(ctrl)
	tx := item.NewMockTx(ctrl)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().ListPending(gomock.Any()).Return([]item.PendingItem{{ID: uuid.New(), TripID: uuid.New()}}, nil)
	tx.EXPECT().CountEligibleByTrip(gomock.Any(), gomock.Any()).Return(nil, errors.New("db error"))
	tx.EXPECT().Rollback().Return(nil)

	_, err := item.NewService(repo).RecalculateAll(context.Background())
	assert.Error(t, err)
}

func TestService_Delete(t *testing.T) {
	creator := uuid.New()
	it := &item.Item{ID: uuid.New(), CreatedBy: creator}

	type testCase struct {
		name      string
		actor     uuid.UUID
		tripAdmin bool
		setupMock func(m *item.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:  "Creator",
			actor: creator,
			setupMock: func(m *item.MockRepository) {
				m.EXPECT().DeleteItem(gomock.Any(), it.ID).Return(nil)
			},
		},
		{
			name:      "TripAdmin",
			actor:     uuid.New(),
			tripAdmin: true,
			setupMock: func(m *item.MockRepository) {
				m.EXPECT().DeleteItem(gomock.Any(), it.ID).Return(nil)
			},
		},
		{
			name:    "OtherMember",
			actor:   uuid.New(),
			wantErr: item.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := item.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			err := item.NewService(repo).Delete(context.Background(), it, tt.actor, tt.tripAdmin)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_CheckIn(t *testing.T) {
	userID := uuid.New()

	type testCase struct {
		name        string
		status      item.Status
		created     bool
		wantErr     error
		wantCreated bool
	}

	tests := []testCase{
		{name: "FirstVisit", status: item.StatusApproved, created: true, wantCreated: true},
		{name: "UpdatesPhoto", status: item.StatusApproved, created: false},
		{name: "PendingItem", status: item.StatusPending, wantErr: item.ErrNotApproved},
		{name: "RejectedItem", status: item.StatusRejected, wantErr: item.ErrNotApproved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := item.NewMockRepository(ctrl)

			id := uuid.New()
			repo.EXPECT().GetItem(gomock.Any(), id).Return(&item.Item{ID: id, Status: tt.status}, nil)

			if tt.wantErr == nil {
				repo.EXPECT().UpsertCheck(gomock.Any(), gomock.Any()).Return(tt.created, nil)
			}

			check, created, err := item.NewService(repo).CheckIn(context.Background(), id, userID, "https://img.example/1.jpg")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantCreated, created)
			assert.Equal(t, userID, check.UserID)
			assert.Equal(t, "https://img.example/1.jpg", check.PhotoURL)
		})
	}
}
