package command

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qiro-dev/facility-maintenance/internal/conflict"
	"github.com/qiro-dev/facility-maintenance/internal/directory"
	"github.com/qiro-dev/facility-maintenance/internal/workorder/domain"
	"github.com/qiro-dev/facility-maintenance/pkg/clock"
	"github.com/qiro-dev/facility-maintenance/pkg/errs"
)

type fakeRepo struct {
	workOrders map[uint]*domain.WorkOrder
	// failGuardedOnce makes the next UpdateGuarded lose the version race.
	failGuardedOnce bool
	updateCalls     int
}

func newFakeRepo(workOrders ...*domain.WorkOrder) *fakeRepo {
	r := &fakeRepo{workOrders: make(map[uint]*domain.WorkOrder)}
	for _, wo := range workOrders {
		r.workOrders[wo.ID] = wo
	}
	return r
}

func (r *fakeRepo) Create(wo *domain.WorkOrder) error {
	wo.ID = uint(len(r.workOrders) + 1)
	r.workOrders[wo.ID] = wo
	return nil
}

func (r *fakeRepo) FindByID(companyID, id uint) (*domain.WorkOrder, error) {
	wo, ok := r.workOrders[id]
	if !ok || wo.CompanyID != companyID {
		return nil, fmt.Errorf("%w: work order %d", errs.ErrNotFound, id)
	}
	copied := *wo
	return &copied, nil
}

func (r *fakeRepo) Search(companyID uint, filter domain.SearchFilter) ([]domain.WorkOrder, error) {
	var out []domain.WorkOrder
	for _, wo := range r.workOrders {
		if wo.CompanyID == companyID {
			out = append(out, *wo)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateGuarded(wo *domain.WorkOrder, expectVersion uint) error {
	r.updateCalls++
	if r.failGuardedOnce {
		r.failGuardedOnce = false
		return errs.ErrConcurrentModification
	}
	stored, ok := r.workOrders[wo.ID]
	if !ok || stored.Version != expectVersion {
		return errs.ErrConcurrentModification
	}
	wo.Version = expectVersion + 1
	copied := *wo
	r.workOrders[wo.ID] = &copied
	return nil
}

func (r *fakeRepo) Statistics(companyID uint) (*domain.Statistics, error) {
	return &domain.Statistics{}, nil
}

type fakeAssets struct {
	assets map[uint]*directory.Asset
}

func (f *fakeAssets) Get(ctx context.Context, companyID, assetID uint) (*directory.Asset, error) {
	if asset, ok := f.assets[assetID]; ok {
		return asset, nil
	}
	return nil, fmt.Errorf("%w: asset %d", errs.ErrNotFound, assetID)
}

type fakeUsers struct{}

func (fakeUsers) Get(ctx context.Context, companyID, userID uint) (*directory.User, error) {
	return &directory.User{ID: userID, CompanyID: companyID, Name: "tech"}, nil
}

type staticBookings struct {
	bookings []conflict.Booking
}

func (s *staticBookings) ActiveBookings(ctx context.Context, companyID uint, window conflict.Window) ([]conflict.Booking, error) {
	return s.bookings, nil
}

type recordingNotifier struct {
	assigned  []uint
	completed []uint
}

func (n *recordingNotifier) WorkOrderAssigned(ctx context.Context, wo *domain.WorkOrder) {
	n.assigned = append(n.assigned, wo.ID)
}

func (n *recordingNotifier) WorkOrderCompleted(ctx context.Context, wo *domain.WorkOrder) {
	n.completed = append(n.completed, wo.ID)
}

var testTime = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func pendingWorkOrder(id uint) *domain.WorkOrder {
	return &domain.WorkOrder{
		ID:        id,
		CompanyID: 1,
		Number:    fmt.Sprintf("WO-%08d", id),
		Title:     "Replace filter",
		Status:    domain.StatusPending,
		Priority:  domain.PriorityMedium,
		Urgency:   domain.UrgencyNormal,
		Phase:     domain.PhasePlanning,
		AssetID:   5,
		Version:   1,
	}
}

func newAssignHandler(repo *fakeRepo, bookings *staticBookings, notifier *recordingNotifier) *AssignWorkerHandler {
	if bookings == nil {
		bookings = &staticBookings{}
	}
	if notifier == nil {
		notifier = &recordingNotifier{}
	}
	return NewAssignWorkerHandler(
		repo,
		fakeUsers{},
		&fakeAssets{assets: map[uint]*directory.Asset{5: {ID: 5, CompanyID: 1}}},
		conflict.NewDetector(bookings),
		notifier,
		clock.Fixed(testTime),
	)
}

func TestCreateWorkOrderDefaultsAndValidation(t *testing.T) {
	repo := newFakeRepo()
	handler := NewCreateWorkOrderHandler(repo, &fakeAssets{assets: map[uint]*directory.Asset{
		5: {ID: 5, CompanyID: 1, Location: "Boiler room"},
	}})

	wo, err := handler.Handle(context.Background(), CreateWorkOrderCommand{
		CompanyID:   1,
		Title:       "  Replace filter  ",
		AssetID:     5,
		RequestedBy: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "Replace filter", wo.Title)
	assert.Equal(t, domain.StatusPending, wo.Status)
	assert.Equal(t, domain.ApprovalPending, wo.ApprovalStatus)
	assert.Equal(t, domain.PriorityMedium, wo.Priority)
	assert.Equal(t, domain.CategoryCorrective, wo.Category)
	assert.Equal(t, "Boiler room", wo.Location)
	assert.Contains(t, wo.Number, "WO-")
	assert.Equal(t, uint(1), wo.Version)
}

func TestCreateWorkOrderRejectsMissingFields(t *testing.T) {
	handler := NewCreateWorkOrderHandler(newFakeRepo(), &fakeAssets{})

	_, err := handler.Handle(context.Background(), CreateWorkOrderCommand{CompanyID: 1, RequestedBy: 2, AssetID: 5})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = handler.Handle(context.Background(), CreateWorkOrderCommand{CompanyID: 1, Title: "x", RequestedBy: 2})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = handler.Handle(context.Background(), CreateWorkOrderCommand{
		CompanyID: 1, Title: "x", RequestedBy: 2, AssetID: 5, Priority: "SOMEDAY",
	})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestAssignWorkerHappyPath(t *testing.T) {
	wo := pendingWorkOrder(1)
	repo := newFakeRepo(wo)
	notifier := &recordingNotifier{}
	handler := newAssignHandler(repo, nil, notifier)

	result, err := handler.Handle(context.Background(), AssignWorkerCommand{
		CompanyID:   1,
		WorkOrderID: 1,
		WorkerID:    42,
		AssignerID:  7,
		Team:        "HVAC",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, result.WorkOrder.Status)
	require.NotNil(t, result.WorkOrder.AssignedTo)
	assert.Equal(t, uint(42), *result.WorkOrder.AssignedTo)
	assert.Equal(t, testTime, *result.WorkOrder.AssignedAt)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, []uint{1}, notifier.assigned)
	assert.Equal(t, uint(2), repo.workOrders[1].Version)
}

func TestAssignWorkerRejectsDoubleAssignment(t *testing.T) {
	wo := pendingWorkOrder(1)
	existing := uint(9)
	wo.AssignedTo = &existing
	wo.Status = domain.StatusAssigned
	handler := newAssignHandler(newFakeRepo(wo), nil, nil)

	_, err := handler.Handle(context.Background(), AssignWorkerCommand{
		CompanyID: 1, WorkOrderID: 1, WorkerID: 42,
	})
	assert.ErrorIs(t, err, errs.ErrAlreadyAssigned)
}

func TestAssignWorkerBlockedByCriticalConflict(t *testing.T) {
	wo := pendingWorkOrder(1)
	start := testTime
	end := testTime.Add(2 * time.Hour)
	wo.ScheduledStart = &start
	wo.ScheduledEnd = &end

	repo := newFakeRepo(wo)
	bookings := &staticBookings{bookings: []conflict.Booking{{
		RefID:        99,
		RefKind:      "maintenance_schedule",
		TechnicianID: 42,
		Priority:     domain.PriorityUrgent,
		Window:       conflict.Window{Start: start, End: end},
	}}}
	handler := newAssignHandler(repo, bookings, nil)

	_, err := handler.Handle(context.Background(), AssignWorkerCommand{
		CompanyID: 1, WorkOrderID: 1, WorkerID: 42,
	})
	assert.ErrorIs(t, err, errs.ErrSchedulingConflict)
	assert.Equal(t, domain.StatusPending, repo.workOrders[1].Status)
}

func TestAssignWorkerSurfacesNonCriticalConflictsAsWarnings(t *testing.T) {
	wo := pendingWorkOrder(1)
	start := testTime
	end := testTime.Add(2 * time.Hour)
	wo.ScheduledStart = &start
	wo.ScheduledEnd = &end

	bookings := &staticBookings{bookings: []conflict.Booking{{
		RefID:    99,
		RefKind:  "work_order",
		AssetID:  5,
		Priority: domain.PriorityHigh,
		Window:   conflict.Window{Start: start, End: end},
	}}}
	handler := newAssignHandler(newFakeRepo(wo), bookings, nil)

	result, err := handler.Handle(context.Background(), AssignWorkerCommand{
		CompanyID: 1, WorkOrderID: 1, WorkerID: 42,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, result.WorkOrder.Status)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, conflict.TypeAssetUnavailable, result.Warnings[0].Type)
}

func TestUpdateStatusRejectsIllegalEdge(t *testing.T) {
	wo := pendingWorkOrder(1)
	handler := NewUpdateStatusHandler(newFakeRepo(wo), clock.Fixed(testTime))

	_, err := handler.Handle(context.Background(), UpdateStatusCommand{
		CompanyID: 1, WorkOrderID: 1, NewStatus: domain.StatusCompleted,
	})
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)

	_, err = handler.Handle(context.Background(), UpdateStatusCommand{
		CompanyID: 1, WorkOrderID: 1, NewStatus: "SHIPPED",
	})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestUpdateStatusStampsActualStart(t *testing.T) {
	wo := pendingWorkOrder(1)
	wo.Status = domain.StatusAssigned
	repo := newFakeRepo(wo)
	handler := NewUpdateStatusHandler(repo, clock.Fixed(testTime))

	updated, err := handler.Handle(context.Background(), UpdateStatusCommand{
		CompanyID: 1, WorkOrderID: 1, NewStatus: domain.StatusInProgress,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ActualStart)
	assert.Equal(t, testTime, *updated.ActualStart)
	assert.Equal(t, domain.PhaseExecution, updated.Phase)
}

func TestUpdateStatusRetriesLostVersionRace(t *testing.T) {
	wo := pendingWorkOrder(1)
	repo := newFakeRepo(wo)
	repo.failGuardedOnce = true
	handler := NewUpdateStatusHandler(repo, clock.Fixed(testTime))

	updated, err := handler.Handle(context.Background(), UpdateStatusCommand{
		CompanyID: 1, WorkOrderID: 1, NewStatus: domain.StatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, updated.Status)
	assert.Equal(t, 2, repo.updateCalls)
}

func TestUpdateProgressMonotonic(t *testing.T) {
	wo := pendingWorkOrder(1)
	wo.Status = domain.StatusInProgress
	wo.ProgressPercentage = 40
	repo := newFakeRepo(wo)
	handler := NewUpdateProgressHandler(repo)

	updated, err := handler.Handle(context.Background(), UpdateProgressCommand{
		CompanyID: 1, WorkOrderID: 1, Percentage: 60,
		HoursWorked: decimal.NewFromFloat(1.5),
	})
	require.NoError(t, err)
	assert.Equal(t, 60, updated.ProgressPercentage)
	assert.Equal(t, domain.PhaseExecution, updated.Phase)
	assert.True(t, updated.ActualDurationHours.Equal(decimal.NewFromFloat(1.5)))

	_, err = handler.Handle(context.Background(), UpdateProgressCommand{
		CompanyID: 1, WorkOrderID: 1, Percentage: 30,
	})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestUpdateProgressRequiresInProgress(t *testing.T) {
	wo := pendingWorkOrder(1)
	handler := NewUpdateProgressHandler(newFakeRepo(wo))

	_, err := handler.Handle(context.Background(), UpdateProgressCommand{
		CompanyID: 1, WorkOrderID: 1, Percentage: 10,
	})
	assert.ErrorIs(t, err, errs.ErrInvalidState)
}

func TestCompleteWorkOrderComputesDuration(t *testing.T) {
	wo := pendingWorkOrder(1)
	wo.Status = domain.StatusInProgress
	started := testTime.Add(-90 * time.Minute)
	wo.ActualStart = &started

	notifier := &recordingNotifier{}
	handler := NewCompleteWorkOrderHandler(newFakeRepo(wo), notifier, clock.Fixed(testTime))

	rating := 4
	cost := decimal.NewFromInt(250)
	completed, err := handler.Handle(context.Background(), CompleteWorkOrderCommand{
		CompanyID:       1,
		WorkOrderID:     1,
		CompletionNotes: "done",
		QualityRating:   &rating,
		ActualCost:      &cost,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, completed.Status)
	assert.Equal(t, 100, completed.ProgressPercentage)
	assert.Equal(t, domain.PhaseClosure, completed.Phase)
	assert.True(t, completed.ActualDurationHours.Equal(decimal.NewFromFloat(1.5)))
	assert.Equal(t, []uint{1}, notifier.completed)
}

func TestCompleteWorkOrderRequiresInProgress(t *testing.T) {
	wo := pendingWorkOrder(1)
	wo.Status = domain.StatusAssigned
	handler := NewCompleteWorkOrderHandler(newFakeRepo(wo), &recordingNotifier{}, clock.Fixed(testTime))

	_, err := handler.Handle(context.Background(), CompleteWorkOrderCommand{CompanyID: 1, WorkOrderID: 1})
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestResumeRequiresPaused(t *testing.T) {
	wo := pendingWorkOrder(1)
	wo.Status = domain.StatusAssigned
	repo := newFakeRepo(wo)
	handler := NewResumeWorkOrderHandler(repo, clock.Fixed(testTime))

	_, err := handler.Handle(context.Background(), 1, 1, 7)
	assert.ErrorIs(t, err, errs.ErrInvalidState)

	repo.workOrders[1].Status = domain.StatusPaused
	resumed, err := handler.Handle(context.Background(), 1, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, resumed.Status)
}

func TestCancelRequiresReasonAndCancellableState(t *testing.T) {
	wo := pendingWorkOrder(1)
	repo := newFakeRepo(wo)
	handler := NewCancelWorkOrderHandler(repo)

	_, err := handler.Handle(context.Background(), CancelWorkOrderCommand{
		CompanyID: 1, WorkOrderID: 1,
	})
	assert.ErrorIs(t, err, errs.ErrValidation)

	cancelled, err := handler.Handle(context.Background(), CancelWorkOrderCommand{
		CompanyID: 1, WorkOrderID: 1, Reason: "duplicate request",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)

	_, err = handler.Handle(context.Background(), CancelWorkOrderCommand{
		CompanyID: 1, WorkOrderID: 1, Reason: "again",
	})
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestApproveIsSingleUse(t *testing.T) {
	wo := pendingWorkOrder(1)
	wo.EstimatedCost = decimal.NewFromInt(500)
	repo := newFakeRepo(wo)
	handler := NewApproveWorkOrderHandler(repo)

	approved, err := handler.Handle(context.Background(), ApproveWorkOrderCommand{
		CompanyID: 1, WorkOrderID: 1, ApproverID: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalApproved, approved.ApprovalStatus)
	assert.True(t, approved.ApprovedCost.Equal(decimal.NewFromInt(500)))
	// Status stays PENDING until assignment.
	assert.Equal(t, domain.StatusPending, approved.Status)

	_, err = handler.Handle(context.Background(), ApproveWorkOrderCommand{
		CompanyID: 1, WorkOrderID: 1, ApproverID: 4,
	})
	assert.ErrorIs(t, err, errs.ErrAlreadyProcessed)
}

func TestBatchUpdateStatusPartialFailure(t *testing.T) {
	ready := pendingWorkOrder(1)
	terminal := pendingWorkOrder(2)
	terminal.Status = domain.StatusCancelled
	repo := newFakeRepo(ready, terminal)

	handler := NewBatchUpdateStatusHandler(NewUpdateStatusHandler(repo, clock.Fixed(testTime)))
	result := handler.Handle(context.Background(), BatchUpdateStatusCommand{
		CompanyID:    1,
		WorkOrderIDs: []uint{1, 2, 3},
		NewStatus:    domain.StatusApproved,
	})

	assert.Equal(t, 1, result.SuccessCount)
	require.Len(t, result.Failures, 2)
	assert.Equal(t, uint(2), result.Failures[0].ID)
	assert.Equal(t, uint(3), result.Failures[1].ID)
	assert.Equal(t, domain.StatusApproved, repo.workOrders[1].Status)
}

func TestBatchAssignPartialFailure(t *testing.T) {
	first := pendingWorkOrder(1)
	second := pendingWorkOrder(2)
	taken := uint(9)
	second.AssignedTo = &taken
	second.Status = domain.StatusAssigned
	repo := newFakeRepo(first, second)

	handler := NewBatchAssignHandler(newAssignHandler(repo, nil, nil))
	result := handler.Handle(context.Background(), BatchAssignCommand{
		CompanyID:    1,
		WorkOrderIDs: []uint{1, 2},
		WorkerID:     42,
	})

	assert.Equal(t, 1, result.SuccessCount)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, uint(2), result.Failures[0].ID)
}
