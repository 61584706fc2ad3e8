package trip_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tripsplit/internal/ledger"
	"github.com/MrJamesThe3rd/tripsplit/internal/trip"
	"github.com/MrJamesThe3rd/tripsplit/internal/user"
)

type mocks struct {
	repo   *trip.MockRepository
	tx     *trip.MockTx
	users  *trip.MockUserLookup
	recalc *trip.MockRecalculator
}

func newMocks(ctrl *gomock.Controller) mocks {
	return mocks{
		repo:   trip.NewMockRepository(ctrl),
		tx:     trip.NewMockTx(ctrl),
		users:  trip.NewMockUserLookup(ctrl),
		recalc: trip.NewMockRecalculator(ctrl),
	}
}

func (m mocks) service() *trip.Service {
	return trip.NewService(m.repo, m.users, m.recalc)
}

func TestService_Create(t *testing.T) {
	creator := &user.User{ID: uuid.New(), Email: "ana@example.com", Status: user.StatusActive}

	t.Run("CreatorBecomesAdmin", func(t *testing.T) {
		m := newMocks(gomock.NewController(t))

		m.users.EXPECT().Get(gomock.Any(), creator.ID).Return(creator, nil)
		m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
		m.tx.EXPECT().CreateTrip(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tr *trip.Trip) error {
				tr.ID = uuid.New()
				return nil
			})
		m.tx.EXPECT().AddParticipant(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *trip.Participant) error {
				assert.Equal(t, trip.RoleAdmin, p.Role)
				assert.Equal(t, trip.ParticipantRegistered, p.Type)
				assert.Equal(t, "ana@example.com", p.Name)
				require.NotNil(t, p.UserID)
				assert.Equal(t, creator.ID, *p.UserID)

				return nil
			})
		m.tx.EXPECT().Commit().Return(nil)
		m.tx.EXPECT().Rollback().Return(nil)

		got, err := m.service().Create(context.Background(), trip.CreateParams{Name: " Japan 2026 ", CreatedBy: creator.ID})
		require.NoError(t, err)
		assert.Equal(t, "Japan 2026", got.Name)
		assert.Equal(t, ledger.CurrencyCLP, got.DefaultCurrency)
	})

	t.Run("EndBeforeStart", func(t *testing.T) {
		m := newMocks(gomock.NewController(t))

		start := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 0, -1)

		_, err := m.service().Create(context.Background(), trip.CreateParams{Name: "x", StartDate: &start, EndDate: &end, CreatedBy: creator.ID})
		assert.ErrorIs(t, err, trip.ErrInvalidDates)
	})

	t.Run("NameRequired", func(t *testing.T) {
		m := newMocks(gomock.NewController(t))

		_, err := m.service().Create(context.Background(), trip.CreateParams{Name: "  ", CreatedBy: creator.ID})
		assert.ErrorIs(t, err, trip.ErrNameRequired)
	})

	t.Run("UnsupportedCurrency", func(t *testing.T) {
		m := newMocks(gomock.NewController(t))

		_, err := m.service().Create(context.Background(), trip.CreateParams{Name: "x", DefaultCurrency: "ARS", CreatedBy: creator.ID})
		assert.ErrorIs(t, err, ledger.ErrUnsupportedCurrency)
	})
}

func TestService_AddParticipant(t *testing.T) {
	tripID := uuid.New()
	admin := uuid.New()
	adminMembership := &trip.Participant{ID: uuid.New(), TripID: tripID, UserID: &admin, Role: trip.RoleAdmin}

	type testCase struct {
		name      string
		params    trip.AddParams
		setupMock func(m mocks)
		wantErr   error
		wantRole  trip.Role
	}

	tests := []testCase{
		{
			name:   "Ghost",
			params: trip.AddParams{Type: trip.ParticipantGhost, Name: " Grandma "},
			setupMock: func(m mocks) {
				m.repo.EXPECT().FindMembership(gomock.Any(), tripID, admin).Return(adminMembership, nil)
				m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
				m.tx.EXPECT().AddParticipant(gomock.Any(), gomock.Any()).Return(nil)
				m.tx.EXPECT().Commit().Return(nil)
				m.tx.EXPECT().Rollback().Return(nil)
			},
			wantRole: trip.RoleViewer,
		},
		{
			name:   "RegisteredEditor",
			params: trip.AddParams{Email: "bo@example.com", Role: trip.RoleEditor},
			setupMock: func(m mocks) {
				bo := &user.User{ID: uuid.New(), Email: "bo@example.com", Name: "Bo", Status: user.StatusActive}

				m.repo.EXPECT().FindMembership(gomock.Any(), tripID, admin).Return(adminMembership, nil)
				m.users.EXPECT().GetByEmail(gomock.Any(), "bo@example.com").Return(bo, nil)
				m.repo.EXPECT().FindMembership(gomock.Any(), tripID, bo.ID).Return(nil, trip.ErrNotMember)
				m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
				m.tx.EXPECT().AddParticipant(gomock.Any(), gomock.Any()).Return(nil)
				m.tx.EXPECT().Commit().Return(nil)
				m.tx.EXPECT().Rollback().Return(nil)
			},
			wantRole: trip.RoleEditor,
		},
		{
			name:   "AlreadyMember",
			params: trip.AddParams{Email: "bo@example.com"},
			setupMock: func(m mocks) {
				bo := &user.User{ID: uuid.New(), Status: user.StatusActive}

				m.repo.EXPECT().FindMembership(gomock.Any(), tripID, admin).Return(adminMembership, nil)
				m.users.EXPECT().GetByEmail(gomock.Any(), "bo@example.com").Return(bo, nil)
				m.repo.EXPECT().FindMembership(gomock.Any(), tripID, bo.ID).Return(&trip.Participant{}, nil)
			},
			wantErr: trip.ErrAlreadyMember,
		},
		{
			name:   "InactiveUser",
			params: trip.AddParams{Email: "cy@example.com"},
			setupMock: func(m mocks) {
				m.repo.EXPECT().FindMembership(gomock.Any(), tripID, admin).Return(adminMembership, nil)
				m.users.EXPECT().GetByEmail(gomock.Any(), "cy@example.com").Return(&user.User{Status: user.StatusDisabled}, nil)
			},
			wantErr: trip.ErrInactiveUser,
		},
		{
			name:   "CannotGrantAdmin",
			params: trip.AddParams{Type: trip.ParticipantGhost, Name: "x", Role: trip.RoleAdmin},
			setupMock: func(m mocks) {
				m.repo.EXPECT().FindMembership(gomock.Any(), tripID, admin).Return(adminMembership, nil)
			},
			wantErr: trip.ErrInvalidRole,
		},
		{
			name:   "NotAdmin",
			params: trip.AddParams{Type: trip.ParticipantGhost, Name: "x"},
			setupMock: func(m mocks) {
				m.repo.EXPECT().FindMembership(gomock.Any(), tripID, admin).Return(&trip.Participant{Role: trip.RoleEditor}, nil)
			},
			wantErr: trip.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMocks(gomock.NewController(t))
			tt.setupMock(m)

			got, err := m.service().AddParticipant(context.Background(), admin, tripID, tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, got.Role)
		})
	}
}

func TestService_RemoveParticipant(t *testing.T) {
	tripID := uuid.New()
	admin := uuid.New()
	participantID := uuid.New()
	adminMembership := &trip.Participant{TripID: tripID, UserID: &admin, Role: trip.RoleAdmin}

	type testCase struct {
		name      string
		setupMock func(m mocks)
		want      int
		wantErr   error
	}

	tests := []testCase{
		{
			name: "RegisteredTriggersRecalculation",
			setupMock: func(m mocks) {
				m.repo.EXPECT().FindMembership(gomock.Any(), tripID, admin).Return(adminMembership, nil)
				m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
				m.tx.EXPECT().LockParticipant(gomock.Any(), tripID, participantID).
					Return(&trip.Participant{ID: participantID, Type: trip.ParticipantRegistered, Role: trip.RoleViewer}, nil)
				m.tx.EXPECT().DeleteParticipant(gomock.Any(), participantID).Return(nil)
				m.tx.EXPECT().Electorate().Return(nil)
				m.recalc.EXPECT().Recalculate(gomock.Any(), gomock.Any()).Return(1, nil)
				m.tx.EXPECT().Commit().Return(nil)
				m.tx.EXPECT().Rollback().Return(nil)
			},
			want: 1,
		},
		{
			name: "GhostSkipsRecalculation",
			setupMock: func(m mocks) {
				m.repo.EXPECT().FindMembership(gomock.Any(), tripID, admin).Return(adminMembership, nil)
				m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
				m.tx.EXPECT().LockParticipant(gomock.Any(), tripID, participantID).
					Return(&trip.Participant{ID: participantID, Type: trip.ParticipantGhost, Role: trip.RoleViewer}, nil)
				m.tx.EXPECT().DeleteParticipant(gomock.Any(), participantID).Return(nil)
				m.tx.EXPECT().Commit().Return(nil)
				m.tx.EXPECT().Rollback().Return(nil)
			},
		},
		{
			name: "LastAdmin",
			setupMock: func(m mocks) {
				m.repo.EXPECT().FindMembership(gomock.Any(), tripID, admin).Return(adminMembership, nil)
				m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
				m.tx.EXPECT().LockParticipant(gomock.Any(), tripID, participantID).
					Return(&trip.Participant{ID: participantID, Type: trip.ParticipantRegistered, Role: trip.RoleAdmin}, nil)
				m.tx.EXPECT().CountAdmins(gomock.Any(), tripID).Return(1, nil)
				m.tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: trip.ErrLastAdmin,
		},
		{
			name: "RecalculationFailureUndoesRemoval",
			setupMock: func(m mocks) {
				m.repo.EXPECT().FindMembership(gomock.Any(), tripID, admin).Return(adminMembership, nil)
				m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
				m.tx.EXPECT().LockParticipant(gomock.Any(), tripID, participantID).
					Return(&trip.Participant{ID: participantID, Type: trip.ParticipantRegistered, Role: trip.RoleEditor}, nil)
				m.tx.EXPECT().DeleteParticipant(gomock.Any(), participantID).Return(nil)
				m.tx.EXPECT().Electorate().Return(nil)
				m.recalc.EXPECT().Recalculate(gomock.Any(), gomock.Any()).Return(0, errors.New("db error"))
				m.tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: errors.New("recalculate pending items: db error"),
		},
		{
			name: "NotAMember",
			setupMock: func(m mocks) {
				m.repo.EXPECT().FindMembership(gomock.Any(), tripID, admin).Return(nil, trip.ErrNotMember)
			},
			wantErr: trip.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMocks(gomock.NewController(t))
			tt.setupMock(m)

			got, err := m.service().RemoveParticipant(context.Background(), admin, tripID, participantID)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_ChangeRole(t *testing.T) {
	tripID := uuid.New()
	admin := uuid.New()
	adminMembership := &trip.Participant{TripID: tripID, UserID: &admin, Role: trip.RoleAdmin}

	t.Run("LastAdminCannotStepDown", func(t *testing.T) {
		m := newMocks(gomock.NewController(t))

		m.repo.EXPECT().FindMembership(gomock.Any(), tripID, admin).Return(adminMembership, nil)
		m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
		m.tx.EXPECT().LockParticipant(gomock.Any(), tripID, gomock.Any()).Return(&trip.Participant{Role: trip.RoleAdmin}, nil)
		m.tx.EXPECT().CountAdmins(gomock.Any(), tripID).Return(1, nil)
		m.tx.EXPECT().Rollback().Return(nil)

		_, err := m.service().ChangeRole(context.Background(), admin, tripID, uuid.New(), trip.RoleViewer)
		assert.ErrorIs(t, err, trip.ErrLastAdmin)
	})

	t.Run("Promote", func(t *testing.T) {
		m := newMocks(gomock.NewController(t))
		pid := uuid.New()

		m.repo.EXPECT().FindMembership(gomock.Any(), tripID, admin).Return(adminMembership, nil)
		m.repo.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
		m.tx.EXPECT().LockParticipant(gomock.Any(), tripID, pid).Return(&trip.Participant{ID: pid, Role: trip.RoleViewer}, nil)
		m.tx.EXPECT().UpdateRole(gomock.Any(), pid, trip.RoleAdmin).Return(nil)
		m.tx.EXPECT().Commit().Return(nil)
		m.tx.EXPECT().Rollback().Return(nil)

		got, err := m.service().ChangeRole(context.Background(), admin, tripID, pid, trip.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, trip.RoleAdmin, got.Role)
	})

	t.Run("InvalidRole", func(t *testing.T) {
		m := newMocks(gomock.NewController(t))

		_, err := m.service().ChangeRole(context.Background(), admin, tripID, uuid.New(), "OWNER")
		assert.ErrorIs(t, err, trip.ErrInvalidRole)
	})
}

func TestRole_CanWrite(t *testing.T) {
	assert.True(t, trip.RoleAdmin.CanWrite())
	assert.True(t, trip.RoleEditor.CanWrite())
	assert.False(t, trip.RoleViewer.CanWrite())
}
