package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/piresc/kirimjek/internal/pkg/geo"
	"github.com/piresc/kirimjek/internal/pkg/models"
	"github.com/piresc/kirimjek/services/dispatch"
	"github.com/piresc/kirimjek/services/dispatch/mocks"
	drivermocks "github.com/piresc/kirimjek/services/driver/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pickupLat = -6.2
	pickupLon = 106.8
)

var fixedNow = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func testConfig() *models.Config {
	return &models.Config{
		Dispatch: models.DispatchConfig{
			InitialRadiusKm:       1.5,
			RadiusStepKm:          1.0,
			MaxRadiusKm:           10,
			BroadcastRadiusKm:     3,
			AssumedSpeedKmh:       35,
			OfferTimeoutSeconds:   30,
			MaxRebroadcastRetries: 2,
			SweepIntervalSeconds:  1,
			RetentionSeconds:      60,
		},
	}
}

type mockSet struct {
	deliveries  *mocks.MockDeliveryStore
	coordinator *mocks.MockCoordinatorStore
	proximity   *mocks.MockProximitySearcher
	directory   *drivermocks.MockDirectory
	gw          *mocks.MockDispatchGW
}

func newMockedUC(t *testing.T) (*DispatchUC, mockSet) {
	ctrl := gomock.NewController(t)
	m := mockSet{
		deliveries:  mocks.NewMockDeliveryStore(ctrl),
		coordinator: mocks.NewMockCoordinatorStore(ctrl),
		proximity:   mocks.NewMockProximitySearcher(ctrl),
		directory:   drivermocks.NewMockDirectory(ctrl),
		gw:          mocks.NewMockDispatchGW(ctrl),
	}
	uc := NewDispatchUC(testConfig(), m.deliveries, m.coordinator, m.proximity, m.directory, m.gw, nil)
	uc.now = func() time.Time { return fixedNow }
	return uc, m
}

func matchingDelivery(id string) *models.DeliveryRequest {
	return &models.DeliveryRequest{
		ID:     id,
		Pickup: models.Location{Latitude: pickupLat, Longitude: pickupLon},
		Status: models.DeliveryStatusMatching,
	}
}

func TestEstimateETA(t *testing.T) {
	uc, _ := newMockedUC(t)

	tests := []struct {
		name      string
		distance  float64
		expected  int
		expectErr bool
	}{
		{name: "ten km at default speed", distance: 10, expected: 18},
		{name: "zero distance", distance: 0, expected: 0},
		{name: "partial minute rounds up", distance: 0.1, expected: 1},
		{name: "negative distance", distance: -1, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eta, err := uc.EstimateETA(tt.distance)
			if tt.expectErr {
				assert.ErrorIs(t, err, geo.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, eta)
		})
	}
}

func TestFindNearestDriver_SearchesEveryRingBeforeGivingUp(t *testing.T) {
	// Arrange
	uc, m := newMockedUC(t)
	var radii []float64
	m.proximity.EXPECT().
		Nearby(gomock.Any(), pickupLat, pickupLon, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, radius float64) ([]models.MatchCandidate, error) {
			radii = append(radii, radius)
			return nil, nil
		}).
		Times(10)

	// Act
	candidate, err := uc.FindNearestDriver(context.Background(), pickupLat, pickupLon, func(context.Context, string) (bool, error) {
		t.Fatal("eligibility must not be consulted without candidates")
		return false, nil
	})

	// Assert
	assert.ErrorIs(t, err, dispatch.ErrNoDriverFound)
	assert.Nil(t, candidate)
	assert.Equal(t, 1.5, radii[0])
	assert.Equal(t, 10.0, radii[len(radii)-1])
}

func TestFindNearestDriver_ReturnsNearestEligibleOfFirstRing(t *testing.T) {
	uc, m := newMockedUC(t)
	m.proximity.EXPECT().
		Nearby(gomock.Any(), pickupLat, pickupLon, 1.5).
		Return([]models.MatchCandidate{
			{DriverID: "drv-a", DistanceKm: 0.4},
			{DriverID: "drv-b", DistanceKm: 0.9},
			{DriverID: "drv-c", DistanceKm: 1.2},
		}, nil).
		Times(1)

	eligible := func(_ context.Context, id string) (bool, error) {
		return id != "drv-a", nil
	}
	candidate, err := uc.FindNearestDriver(context.Background(), pickupLat, pickupLon, eligible)

	require.NoError(t, err)
	assert.Equal(t, "drv-b", candidate.DriverID)
	assert.Equal(t, 0.9, candidate.DistanceKm)
}

func TestFindNearestDriver_ChecksEachDriverOnce(t *testing.T) {
	uc, m := newMockedUC(t)
	gomock.InOrder(
		m.proximity.EXPECT().Nearby(gomock.Any(), pickupLat, pickupLon, 1.5).
			Return([]models.MatchCandidate{{DriverID: "drv-a", DistanceKm: 1.0}}, nil),
		m.proximity.EXPECT().Nearby(gomock.Any(), pickupLat, pickupLon, 2.5).
			Return([]models.MatchCandidate{
				{DriverID: "drv-a", DistanceKm: 1.0},
				{DriverID: "drv-b", DistanceKm: 2.2},
			}, nil),
	)

	calls := map[string]int{}
	eligible := func(_ context.Context, id string) (bool, error) {
		calls[id]++
		return id == "drv-b", nil
	}
	candidate, err := uc.FindNearestDriver(context.Background(), pickupLat, pickupLon, eligible)

	require.NoError(t, err)
	assert.Equal(t, "drv-b", candidate.DriverID)
	assert.Equal(t, map[string]int{"drv-a": 1, "drv-b": 1}, calls)
}

func TestFindNearestDriver_InvalidCoordinate(t *testing.T) {
	uc, _ := newMockedUC(t)

	_, err := uc.FindNearestDriver(context.Background(), 91, 0, nil)

	assert.ErrorIs(t, err, geo.ErrInvalidCoordinate)
}

func TestFindNearestDriver_ProximityError(t *testing.T) {
	uc, m := newMockedUC(t)
	m.proximity.EXPECT().Nearby(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	_, err := uc.FindNearestDriver(context.Background(), pickupLat, pickupLon, nil)

	assert.ErrorContains(t, err, "connection refused")
}

func TestDefaultEligibility(t *testing.T) {
	tests := []struct {
		name     string
		holds    bool
		eligible bool
		expected bool
	}{
		{name: "free and eligible", eligible: true, expected: true},
		{name: "holding a delivery", holds: true, expected: false},
		{name: "offline in directory", eligible: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, m := newMockedUC(t)
			m.coordinator.EXPECT().DriverHolds(gomock.Any(), "drv-1").Return(tt.holds, nil)
			if !tt.holds {
				m.directory.EXPECT().IsEligible(gomock.Any(), "drv-1").Return(tt.eligible, nil)
			}

			ok, err := uc.DefaultEligibility(context.Background(), "drv-1")

			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}
}

func TestDispatch_InvalidStrategy(t *testing.T) {
	uc, _ := newMockedUC(t)

	_, err := uc.Dispatch(context.Background(), models.DispatchRequest{DeliveryID: "del-1", Strategy: "fastest"})

	assert.ErrorIs(t, err, dispatch.ErrInvalidStrategy)
}

func TestDispatch_Direct_Success(t *testing.T) {
	// Arrange
	uc, m := newMockedUC(t)
	created := matchingDelivery("del-1")
	created.Status = models.DeliveryStatusCreated

	m.deliveries.EXPECT().LoadDelivery(gomock.Any(), "del-1").Return(created, nil)
	m.deliveries.EXPECT().SaveDeliveryStatus(gomock.Any(), "del-1", models.DeliveryStatusMatching, "").Return(nil)
	m.proximity.EXPECT().Nearby(gomock.Any(), pickupLat, pickupLon, 1.5).
		Return([]models.MatchCandidate{{DriverID: "drv-1", DistanceKm: 1.2}}, nil)
	m.coordinator.EXPECT().DriverHolds(gomock.Any(), "drv-1").Return(false, nil)
	m.directory.EXPECT().IsEligible(gomock.Any(), "drv-1").Return(true, nil)
	m.coordinator.EXPECT().CommitDirect(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *models.DispatchAttempt) error {
			assert.Equal(t, models.AttemptCommitted, a.State)
			assert.Equal(t, "drv-1", a.WinnerID)
			assert.Equal(t, "del-1", a.DeliveryID)
			assert.Equal(t, 1.5, a.RadiusKm)
			return nil
		})
	m.deliveries.EXPECT().SaveDeliveryStatus(gomock.Any(), "del-1", models.DeliveryStatusAssigned, "drv-1").Return(nil)

	var statuses []models.DeliveryStatus
	m.gw.EXPECT().PublishStatusChanged(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e models.StatusChangedEvent) error {
			assert.NotEmpty(t, e.EventID)
			statuses = append(statuses, e.Status)
			return nil
		}).
		Times(2)

	// Act
	result, err := uc.Dispatch(context.Background(), models.DispatchRequest{DeliveryID: "del-1", Strategy: models.StrategyDirect})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusAssigned, result.Status)
	assert.Equal(t, "drv-1", result.DriverID)
	assert.Equal(t, 3, result.ETAMinutes)
	assert.Equal(t, []models.DeliveryStatus{models.DeliveryStatusMatching, models.DeliveryStatusAssigned}, statuses)
}

func TestDispatch_Direct_RetriesAfterLostRace(t *testing.T) {
	uc, m := newMockedUC(t)
	m.deliveries.EXPECT().LoadDelivery(gomock.Any(), "del-1").Return(matchingDelivery("del-1"), nil)
	m.coordinator.EXPECT().OpenAttemptFor(gomock.Any(), "del-1").Return(nil, nil)
	m.proximity.EXPECT().Nearby(gomock.Any(), gomock.Any(), gomock.Any(), 1.5).
		Return([]models.MatchCandidate{
			{DriverID: "drv-1", DistanceKm: 0.5},
			{DriverID: "drv-2", DistanceKm: 0.8},
		}, nil).
		Times(2)
	m.directory.EXPECT().IsEligible(gomock.Any(), gomock.Any()).Return(true, nil).AnyTimes()

	held := map[string]bool{}
	m.coordinator.EXPECT().DriverHolds(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id string) (bool, error) { return held[id], nil }).
		AnyTimes()
	m.coordinator.EXPECT().CommitDirect(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *models.DispatchAttempt) error {
			if a.WinnerID == "drv-1" {
				held["drv-1"] = true
				return dispatch.ErrDriverUnavailable
			}
			return nil
		}).
		Times(2)
	m.deliveries.EXPECT().SaveDeliveryStatus(gomock.Any(), "del-1", models.DeliveryStatusAssigned, "drv-2").Return(nil)
	m.gw.EXPECT().PublishStatusChanged(gomock.Any(), gomock.Any()).Return(nil)

	result, err := uc.Dispatch(context.Background(), models.DispatchRequest{DeliveryID: "del-1", Strategy: models.StrategyDirect})

	require.NoError(t, err)
	assert.Equal(t, "drv-2", result.DriverID)
}

func TestDispatch_Direct_NoDriverFound(t *testing.T) {
	uc, m := newMockedUC(t)
	m.deliveries.EXPECT().LoadDelivery(gomock.Any(), "del-1").Return(matchingDelivery("del-1"), nil)
	m.coordinator.EXPECT().OpenAttemptFor(gomock.Any(), "del-1").Return(nil, nil)
	m.proximity.EXPECT().Nearby(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(10)
	m.deliveries.EXPECT().SaveDeliveryStatus(gomock.Any(), "del-1", models.DeliveryStatusUnmatched, "").Return(nil)
	m.gw.EXPECT().PublishStatusChanged(gomock.Any(), gomock.Any()).Return(nil)

	result, err := uc.Dispatch(context.Background(), models.DispatchRequest{DeliveryID: "del-1", Strategy: models.StrategyDirect})

	assert.ErrorIs(t, err, dispatch.ErrNoDriverFound)
	require.NotNil(t, result)
	assert.Equal(t, models.DeliveryStatusUnmatched, result.Status)
}

func TestDispatch_Direct_SaveFailureRevertsCommit(t *testing.T) {
	uc, m := newMockedUC(t)
	m.deliveries.EXPECT().LoadDelivery(gomock.Any(), "del-1").Return(matchingDelivery("del-1"), nil)
	m.coordinator.EXPECT().OpenAttemptFor(gomock.Any(), "del-1").Return(nil, nil)
	m.proximity.EXPECT().Nearby(gomock.Any(), gomock.Any(), gomock.Any(), 1.5).
		Return([]models.MatchCandidate{{DriverID: "drv-1", DistanceKm: 0.5}}, nil)
	m.coordinator.EXPECT().DriverHolds(gomock.Any(), "drv-1").Return(false, nil)
	m.directory.EXPECT().IsEligible(gomock.Any(), "drv-1").Return(true, nil)
	m.coordinator.EXPECT().CommitDirect(gomock.Any(), gomock.Any()).Return(nil)
	m.deliveries.EXPECT().SaveDeliveryStatus(gomock.Any(), "del-1", models.DeliveryStatusAssigned, "drv-1").
		Return(errors.New("database is down"))
	m.coordinator.EXPECT().RevertCommit(gomock.Any(), gomock.Any(), "drv-1", false, fixedNow).
		DoAndReturn(func(_ context.Context, attemptID, _ string, _ bool, now time.Time) (*models.DispatchAttempt, error) {
			return &models.DispatchAttempt{ID: attemptID, DeliveryID: "del-1", State: models.AttemptExpired, ResolvedAt: now}, nil
		})

	_, err := uc.Dispatch(context.Background(), models.DispatchRequest{DeliveryID: "del-1", Strategy: models.StrategyDirect})

	assert.ErrorContains(t, err, "database is down")
}

func TestDispatch_TerminalDeliveryReturnsOutcome(t *testing.T) {
	uc, m := newMockedUC(t)
	assigned := matchingDelivery("del-1")
	assigned.Status = models.DeliveryStatusAssigned
	assigned.AssignedDriverID = "drv-9"
	m.deliveries.EXPECT().LoadDelivery(gomock.Any(), "del-1").Return(assigned, nil)

	result, err := uc.Dispatch(context.Background(), models.DispatchRequest{DeliveryID: "del-1"})

	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusAssigned, result.Status)
	assert.Equal(t, "drv-9", result.DriverID)
	assert.Equal(t, models.StrategyBroadcast, result.Strategy)
}

func TestDispatch_MatchingDeliveryReturnsOpenAttempt(t *testing.T) {
	uc, m := newMockedUC(t)
	open := &models.DispatchAttempt{ID: "att-1", DeliveryID: "del-1", State: models.AttemptOpen}
	m.deliveries.EXPECT().LoadDelivery(gomock.Any(), "del-1").Return(matchingDelivery("del-1"), nil)
	m.coordinator.EXPECT().OpenAttemptFor(gomock.Any(), "del-1").Return(open, nil)

	result, err := uc.Dispatch(context.Background(), models.DispatchRequest{DeliveryID: "del-1"})

	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusMatching, result.Status)
	assert.Equal(t, "att-1", result.Attempt.ID)
}

func TestDispatch_RegistersPickup(t *testing.T) {
	uc, m := newMockedUC(t)
	pickup := &models.Location{Latitude: pickupLat, Longitude: pickupLon}
	unmatched := matchingDelivery("del-1")
	unmatched.Status = models.DeliveryStatusUnmatched

	m.deliveries.EXPECT().
		CreateDelivery(gomock.Any(), models.DeliveryRequest{ID: "del-1", Pickup: *pickup}).
		Return(false, nil)
	m.deliveries.EXPECT().LoadDelivery(gomock.Any(), "del-1").Return(unmatched, nil)

	result, err := uc.Dispatch(context.Background(), models.DispatchRequest{DeliveryID: "del-1", Pickup: pickup})

	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusUnmatched, result.Status)
}

func TestDispatch_InvalidPickup(t *testing.T) {
	uc, _ := newMockedUC(t)

	_, err := uc.Dispatch(context.Background(), models.DispatchRequest{
		DeliveryID: "del-1",
		Pickup:     &models.Location{Latitude: 0, Longitude: 181},
	})

	assert.ErrorIs(t, err, geo.ErrInvalidCoordinate)
}

func TestBroadcast_EmptyCandidatesCreatesExpiredAttempt(t *testing.T) {
	uc, m := newMockedUC(t)
	m.proximity.EXPECT().Nearby(gomock.Any(), pickupLat, pickupLon, 3.0).Return(nil, nil)
	m.coordinator.EXPECT().CreateAttempt(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *models.DispatchAttempt) error {
			assert.Equal(t, models.AttemptExpired, a.State)
			assert.Equal(t, fixedNow, a.ResolvedAt)
			assert.Empty(t, a.Candidates)
			return nil
		})

	attempt, err := uc.Broadcast(context.Background(), matchingDelivery("del-1"), 3, 0)

	require.NoError(t, err)
	assert.Equal(t, models.AttemptExpired, attempt.State)
}

func TestBroadcast_OffersEveryEligibleCandidate(t *testing.T) {
	// Arrange
	uc, m := newMockedUC(t)
	m.proximity.EXPECT().Nearby(gomock.Any(), pickupLat, pickupLon, 3.0).
		Return([]models.MatchCandidate{
			{DriverID: "drv-a", DistanceKm: 1.0},
			{DriverID: "drv-b", DistanceKm: 2.0},
			{DriverID: "drv-c", DistanceKm: 2.5},
		}, nil)
	m.coordinator.EXPECT().DriverHolds(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id string) (bool, error) { return id == "drv-c", nil }).
		Times(3)
	m.directory.EXPECT().IsEligible(gomock.Any(), gomock.Any()).Return(true, nil).Times(2)
	m.coordinator.EXPECT().CreateAttempt(gomock.Any(), gomock.Any()).Return(nil)
	m.coordinator.EXPECT().MarkOffered(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil).Times(2)

	offers := map[string]models.DeliveryOffer{}
	m.gw.EXPECT().SendDeliveryOffer(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o models.DeliveryOffer) error {
			offers[o.DriverID] = o
			return nil
		}).
		Times(2)

	// Act
	attempt, err := uc.Broadcast(context.Background(), matchingDelivery("del-1"), 3, 0)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.AttemptOpen, attempt.State)
	assert.Equal(t, []string{"drv-a", "drv-b"}, attempt.Candidates)
	assert.Equal(t, fixedNow.Add(30*time.Second), attempt.Deadline)
	assert.Equal(t, 2, offers["drv-a"].ETAMinutes)
	assert.Equal(t, 4, offers["drv-b"].ETAMinutes)
	assert.Equal(t, attempt.ID, offers["drv-a"].AttemptID)
	assert.Equal(t, attempt.Deadline, offers["drv-b"].ExpiresAt)
}

func TestBroadcast_SkipsRepeatedOffer(t *testing.T) {
	uc, m := newMockedUC(t)
	m.proximity.EXPECT().Nearby(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]models.MatchCandidate{{DriverID: "drv-a", DistanceKm: 1.0}}, nil)
	m.coordinator.EXPECT().DriverHolds(gomock.Any(), "drv-a").Return(false, nil)
	m.directory.EXPECT().IsEligible(gomock.Any(), "drv-a").Return(true, nil)
	m.coordinator.EXPECT().CreateAttempt(gomock.Any(), gomock.Any()).Return(nil)
	m.coordinator.EXPECT().MarkOffered(gomock.Any(), gomock.Any(), "drv-a").Return(false, nil)

	_, err := uc.Broadcast(context.Background(), matchingDelivery("del-1"), 3, 0)

	assert.NoError(t, err)
}

func TestBroadcastRadius(t *testing.T) {
	uc, _ := newMockedUC(t)

	assert.Equal(t, 3.0, uc.broadcastRadius(0))
	assert.Equal(t, 5.0, uc.broadcastRadius(2))
	assert.Equal(t, 10.0, uc.broadcastRadius(50))
}

func TestAcceptOffer_RejectedCommitChangesNothing(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "lost race", err: dispatch.ErrDriverUnavailable},
		{name: "late", err: dispatch.ErrAttemptExpired},
		{name: "never offered", err: dispatch.ErrNotCandidate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, m := newMockedUC(t)
			m.coordinator.EXPECT().GetAttempt(gomock.Any(), "att-1").
				Return(&models.DispatchAttempt{ID: "att-1", DeliveryID: "del-1", State: models.AttemptOpen}, nil)
			m.coordinator.EXPECT().CommitOffer(gomock.Any(), "att-1", "drv-1", fixedNow).Return(nil, tt.err)

			_, err := uc.AcceptOffer(context.Background(), "att-1", "drv-1")

			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestAcceptOffer_SaveFailureRevertsCommit(t *testing.T) {
	saveDown := errors.New("database is down")

	tests := []struct {
		name       string
		saveErr    error
		reopen     bool
		reverted   *models.DispatchAttempt
		setupMocks func(m mockSet)
	}{
		{
			name:     "transient failure reopens the attempt",
			saveErr:  saveDown,
			reopen:   true,
			reverted: &models.DispatchAttempt{ID: "att-1", DeliveryID: "del-1", State: models.AttemptOpen},
		},
		{
			name:     "delivery moved on elsewhere",
			saveErr:  dispatch.ErrInvalidTransition,
			reopen:   false,
			reverted: &models.DispatchAttempt{ID: "att-1", DeliveryID: "del-1", State: models.AttemptExpired},
		},
		{
			name:     "deadline passed while reverting continues matching",
			saveErr:  saveDown,
			reopen:   true,
			reverted: &models.DispatchAttempt{ID: "att-1", DeliveryID: "del-1", State: models.AttemptExpired, Retry: 2},
			setupMocks: func(m mockSet) {
				m.deliveries.EXPECT().LoadDelivery(gomock.Any(), "del-1").Return(matchingDelivery("del-1"), nil)
				m.deliveries.EXPECT().SaveDeliveryStatus(gomock.Any(), "del-1", models.DeliveryStatusUnmatched, "").Return(nil)
				m.gw.EXPECT().PublishStatusChanged(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, m := newMockedUC(t)
			committed := &models.DispatchAttempt{ID: "att-1", DeliveryID: "del-1", State: models.AttemptCommitted, WinnerID: "drv-1"}
			m.coordinator.EXPECT().GetAttempt(gomock.Any(), "att-1").Return(committed, nil)
			m.coordinator.EXPECT().CommitOffer(gomock.Any(), "att-1", "drv-1", fixedNow).Return(committed, nil)
			m.deliveries.EXPECT().SaveDeliveryStatus(gomock.Any(), "del-1", models.DeliveryStatusAssigned, "drv-1").
				Return(tt.saveErr)
			m.coordinator.EXPECT().RevertCommit(gomock.Any(), "att-1", "drv-1", tt.reopen, fixedNow).Return(tt.reverted, nil)
			if tt.setupMocks != nil {
				tt.setupMocks(m)
			}

			_, err := uc.AcceptOffer(context.Background(), "att-1", "drv-1")

			assert.ErrorIs(t, err, tt.saveErr)
		})
	}
}

func TestExpireAttempt_AlreadyResolvedIsNoop(t *testing.T) {
	uc, m := newMockedUC(t)
	committed := &models.DispatchAttempt{ID: "att-1", DeliveryID: "del-1", State: models.AttemptCommitted}
	m.coordinator.EXPECT().GetAttempt(gomock.Any(), "att-1").Return(committed, nil)
	m.coordinator.EXPECT().ExpireAttempt(gomock.Any(), "att-1", fixedNow).Return(committed, false, nil)

	attempt, err := uc.ExpireAttempt(context.Background(), "att-1")

	require.NoError(t, err)
	assert.Equal(t, models.AttemptCommitted, attempt.State)
}

func TestExpireAttempt_LastRetryMarksUnmatched(t *testing.T) {
	uc, m := newMockedUC(t)
	open := &models.DispatchAttempt{ID: "att-1", DeliveryID: "del-1", State: models.AttemptOpen, Retry: 2}
	expired := *open
	expired.State = models.AttemptExpired

	m.coordinator.EXPECT().GetAttempt(gomock.Any(), "att-1").Return(open, nil)
	m.coordinator.EXPECT().ExpireAttempt(gomock.Any(), "att-1", fixedNow).Return(&expired, true, nil)
	m.deliveries.EXPECT().LoadDelivery(gomock.Any(), "del-1").Return(matchingDelivery("del-1"), nil)
	m.deliveries.EXPECT().SaveDeliveryStatus(gomock.Any(), "del-1", models.DeliveryStatusUnmatched, "").Return(nil)
	m.gw.EXPECT().PublishStatusChanged(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e models.StatusChangedEvent) error {
			assert.Equal(t, models.DeliveryStatusUnmatched, e.Status)
			assert.Equal(t, "att-1", e.AttemptID)
			return nil
		})

	attempt, err := uc.ExpireAttempt(context.Background(), "att-1")

	require.NoError(t, err)
	assert.Equal(t, models.AttemptExpired, attempt.State)
}

func TestCancel_TerminalDeliveryIsNoop(t *testing.T) {
	uc, m := newMockedUC(t)
	unmatched := matchingDelivery("del-1")
	unmatched.Status = models.DeliveryStatusUnmatched
	m.deliveries.EXPECT().LoadDelivery(gomock.Any(), "del-1").Return(unmatched, nil)

	result, err := uc.Cancel(context.Background(), "del-1")

	require.NoError(t, err)
	assert.False(t, result.Cancelled)
	assert.Equal(t, models.DeliveryStatusUnmatched, result.Status)
}

func TestCancel_KeepsCommittedAssignment(t *testing.T) {
	uc, m := newMockedUC(t)
	open := &models.DispatchAttempt{ID: "att-1", DeliveryID: "del-1", State: models.AttemptOpen}
	committed := &models.DispatchAttempt{ID: "att-1", DeliveryID: "del-1", State: models.AttemptCommitted, WinnerID: "drv-1"}
	m.deliveries.EXPECT().LoadDelivery(gomock.Any(), "del-1").Return(matchingDelivery("del-1"), nil)
	m.coordinator.EXPECT().OpenAttemptFor(gomock.Any(), "del-1").Return(open, nil)
	m.coordinator.EXPECT().ExpireAttempt(gomock.Any(), "att-1", fixedNow).Return(committed, false, nil)

	result, err := uc.Cancel(context.Background(), "del-1")

	require.NoError(t, err)
	assert.False(t, result.Cancelled)
	assert.Equal(t, models.DeliveryStatusAssigned, result.Status)
}

func TestCancel_UnknownDelivery(t *testing.T) {
	uc, m := newMockedUC(t)
	m.deliveries.EXPECT().LoadDelivery(gomock.Any(), "ghost").Return(nil, dispatch.ErrDeliveryNotFound)

	_, err := uc.Cancel(context.Background(), "ghost")

	assert.ErrorIs(t, err, dispatch.ErrDeliveryNotFound)
}

func TestReleaseDriver(t *testing.T) {
	uc, m := newMockedUC(t)
	m.coordinator.EXPECT().ReleaseDriver(gomock.Any(), "drv-1", "del-1").Return(false, nil)

	assert.NoError(t, uc.ReleaseDriver(context.Background(), "drv-1", "del-1"))
}

func TestSweep_ExpiresDueAttempts(t *testing.T) {
	uc, m := newMockedUC(t)
	committed := &models.DispatchAttempt{ID: "att-1", DeliveryID: "del-1", State: models.AttemptCommitted}
	m.coordinator.EXPECT().ListDueAttempts(gomock.Any(), fixedNow).Return([]string{"att-1", "att-gone"}, nil)
	m.coordinator.EXPECT().GetAttempt(gomock.Any(), "att-1").Return(committed, nil)
	m.coordinator.EXPECT().ExpireAttempt(gomock.Any(), "att-1", fixedNow).Return(committed, false, nil)
	m.coordinator.EXPECT().GetAttempt(gomock.Any(), "att-gone").Return(nil, dispatch.ErrAttemptNotFound)

	assert.Equal(t, 1, uc.sweep(context.Background()))
}

func TestRunExpiryMonitor_StopsWithContext(t *testing.T) {
	uc, m := newMockedUC(t)
	m.coordinator.EXPECT().ListDueAttempts(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.NoError(t, uc.RunExpiryMonitor(ctx))
}
