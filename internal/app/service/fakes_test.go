package service

import (
	"context"
	"errors"
	"sort"

	"tripmatch/internal/core/domain"
	"tripmatch/internal/core/ports"
)

var errStorageDown = errors.New("storage down")

// memState holds every table the workflow touches. It is cloned at
// transaction start so a failing transaction observably rolls back.
type memState struct {
	nextID          uint64
	tasks           map[uint64]domain.Task
	history         []domain.StageHistoryEntry
	progress        map[uint64]map[domain.TaskStage]domain.StageProgress
	activities      []domain.TaskActivity
	audits          []domain.AuditEntry
	applications    map[uint64]domain.TaskApplication
	assets          map[uint64]domain.WorkAsset
	ratings         []domain.Rating
	userRatings     map[uint64]float64
	completedCounts map[uint64]int
}

func newMemState() *memState {
	return &memState{
		nextID:          0,
		tasks:           map[uint64]domain.Task{},
		progress:        map[uint64]map[domain.TaskStage]domain.StageProgress{},
		applications:    map[uint64]domain.TaskApplication{},
		assets:          map[uint64]domain.WorkAsset{},
		userRatings:     map[uint64]float64{},
		completedCounts: map[uint64]int{},
	}
}

func (s *memState) clone() *memState {
	cloned := &memState{
		nextID:          s.nextID,
		tasks:           make(map[uint64]domain.Task, len(s.tasks)),
		history:         append([]domain.StageHistoryEntry(nil), s.history...),
		progress:        make(map[uint64]map[domain.TaskStage]domain.StageProgress, len(s.progress)),
		activities:      append([]domain.TaskActivity(nil), s.activities...),
		audits:          append([]domain.AuditEntry(nil), s.audits...),
		applications:    make(map[uint64]domain.TaskApplication, len(s.applications)),
		assets:          make(map[uint64]domain.WorkAsset, len(s.assets)),
		ratings:         append([]domain.Rating(nil), s.ratings...),
		userRatings:     make(map[uint64]float64, len(s.userRatings)),
		completedCounts: make(map[uint64]int, len(s.completedCounts)),
	}
	for id, task := range s.tasks {
		cloned.tasks[id] = task
	}
	for taskID, rows := range s.progress {
		copied := make(map[domain.TaskStage]domain.StageProgress, len(rows))
		for stage, row := range rows {
			copied[stage] = row
		}
		cloned.progress[taskID] = copied
	}
	for id, app := range s.applications {
		cloned.applications[id] = app
	}
	for id, asset := range s.assets {
		cloned.assets[id] = asset
	}
	for id, rating := range s.userRatings {
		cloned.userRatings[id] = rating
	}
	for id, count := range s.completedCounts {
		cloned.completedCounts[id] = count
	}
	return cloned
}

func (s *memState) allocID() uint64 {
	s.nextID++
	return s.nextID
}

// memStore is an in-memory ports.WorkflowStore. Setting failOn to a tx
// method name makes that call fail, simulating a mid-transaction storage
// error.
type memStore struct {
	state  *memState
	failOn string
}

var _ ports.WorkflowStore = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{state: newMemState()}
}

// seedTask inserts a task directly, bypassing the transactional surface.
func (s *memStore) seedTask(task domain.Task) domain.Task {
	if task.ID == 0 {
		task.ID = s.state.allocID()
	}
	s.state.tasks[task.ID] = task
	return task
}

func (s *memStore) seedApplication(app domain.TaskApplication) domain.TaskApplication {
	if app.ID == 0 {
		app.ID = s.state.allocID()
	}
	s.state.applications[app.ID] = app
	return app
}

func (s *memStore) seedAsset(asset domain.WorkAsset) domain.WorkAsset {
	if asset.ID == 0 {
		asset.ID = s.state.allocID()
	}
	s.state.assets[asset.ID] = asset
	return asset
}

func (s *memStore) InTx(_ context.Context, fn func(tx ports.WorkflowTx) error) error {
	snapshot := s.state.clone()
	if err := fn(&memTx{store: s}); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

func (s *memStore) GetTask(_ context.Context, taskID uint64) (domain.Task, error) {
	task, ok := s.state.tasks[taskID]
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return task, nil
}

func (s *memStore) ListStageHistory(_ context.Context, taskID uint64) ([]domain.StageHistoryEntry, error) {
	var entries []domain.StageHistoryEntry
	for _, entry := range s.state.history {
		if entry.TaskID == taskID {
			entries = append(entries, entry)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

func (s *memStore) DashboardCounts(_ context.Context, userID uint64, role domain.Role) (domain.DashboardCounts, error) {
	var counts domain.DashboardCounts
	for _, task := range s.state.tasks {
		if !taskBelongsTo(task, userID, role) {
			continue
		}
		counts.TotalTasks++
		switch task.Status {
		case domain.StageCompleted:
			counts.CompletedTasks++
		case domain.StageCancelled, domain.StageDraft:
		default:
			counts.ActiveTasks++
		}
		if isPendingActionFor(task.Status, role) {
			counts.PendingActions++
		}
	}
	return counts, nil
}

func taskBelongsTo(task domain.Task, userID uint64, role domain.Role) bool {
	switch role {
	case domain.RoleCreator:
		return task.AssignedCreator != nil && *task.AssignedCreator == userID
	case domain.RoleMedia:
		return task.Status == domain.StagePublishing
	default:
		return task.SupplierID == userID
	}
}

func isPendingActionFor(stage domain.TaskStage, role domain.Role) bool {
	switch role {
	case domain.RoleCreator:
		return stage == domain.StageInProgress || stage == domain.StageRevisionRequired
	case domain.RoleMedia:
		return stage == domain.StagePublishing
	default:
		return stage == domain.StageEvaluating || stage == domain.StageReviewing
	}
}

func (s *memStore) StageBreakdown(_ context.Context, userID uint64, role domain.Role) (map[domain.TaskStage]int, error) {
	breakdown := map[domain.TaskStage]int{}
	for _, task := range s.state.tasks {
		if taskBelongsTo(task, userID, role) {
			breakdown[task.Status]++
		}
	}
	return breakdown, nil
}

func (s *memStore) RecentActivities(_ context.Context, userID uint64, limit int) ([]domain.TaskActivity, error) {
	var matched []domain.TaskActivity
	for _, activity := range s.state.activities {
		task, ok := s.state.tasks[activity.TaskID]
		involved := activity.ActorID == userID ||
			(ok && task.SupplierID == userID) ||
			(ok && task.AssignedCreator != nil && *task.AssignedCreator == userID)
		if involved {
			matched = append(matched, activity)
		}
	}
	// Newest first, capped.
	for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
		matched[i], matched[j] = matched[j], matched[i]
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

type memTx struct {
	store *memStore
}

var _ ports.WorkflowTx = (*memTx)(nil)

func (t *memTx) fail(method string) error {
	if t.store.failOn == method {
		return errStorageDown
	}
	return nil
}

func (t *memTx) GetTaskForUpdate(_ context.Context, taskID uint64) (domain.Task, error) {
	if err := t.fail("GetTaskForUpdate"); err != nil {
		return domain.Task{}, err
	}
	task, ok := t.store.state.tasks[taskID]
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return task, nil
}

func (t *memTx) UpdateTaskStatus(_ context.Context, taskID uint64, from, to domain.TaskStage) error {
	if err := t.fail("UpdateTaskStatus"); err != nil {
		return err
	}
	task, ok := t.store.state.tasks[taskID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	if task.Status != from {
		return domain.ErrConcurrentModification
	}
	task.Status = to
	t.store.state.tasks[taskID] = task
	return nil
}

func (t *memTx) SetAssignedCreator(_ context.Context, taskID uint64, creatorID *uint64) error {
	if err := t.fail("SetAssignedCreator"); err != nil {
		return err
	}
	task, ok := t.store.state.tasks[taskID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	task.AssignedCreator = creatorID
	t.store.state.tasks[taskID] = task
	return nil
}

func (t *memTx) InsertTask(_ context.Context, task domain.Task) (uint64, error) {
	if err := t.fail("InsertTask"); err != nil {
		return 0, err
	}
	task.ID = t.store.state.allocID()
	t.store.state.tasks[task.ID] = task
	return task.ID, nil
}

func (t *memTx) InsertStageHistory(_ context.Context, entry domain.StageHistoryEntry) error {
	if err := t.fail("InsertStageHistory"); err != nil {
		return err
	}
	entry.ID = t.store.state.allocID()
	t.store.state.history = append(t.store.state.history, entry)
	return nil
}

func (t *memTx) UpsertStageProgress(_ context.Context, taskID uint64, stage domain.TaskStage, percent float64) error {
	if err := t.fail("UpsertStageProgress"); err != nil {
		return err
	}
	rows, ok := t.store.state.progress[taskID]
	if !ok {
		rows = map[domain.TaskStage]domain.StageProgress{}
		t.store.state.progress[taskID] = rows
	}
	row := rows[stage]
	row.TaskID = taskID
	row.Stage = stage
	if percent > row.ProgressPercent {
		row.ProgressPercent = percent
	}
	rows[stage] = row
	return nil
}

func (t *memTx) SeedStageProgress(_ context.Context, taskID uint64, seeded []domain.StageProgress) error {
	if err := t.fail("SeedStageProgress"); err != nil {
		return err
	}
	rows := map[domain.TaskStage]domain.StageProgress{}
	for _, row := range seeded {
		rows[row.Stage] = row
	}
	t.store.state.progress[taskID] = rows
	return nil
}

func (t *memTx) InsertActivity(_ context.Context, activity domain.TaskActivity) error {
	if err := t.fail("InsertActivity"); err != nil {
		return err
	}
	activity.ID = t.store.state.allocID()
	t.store.state.activities = append(t.store.state.activities, activity)
	return nil
}

func (t *memTx) AppendAudit(_ context.Context, entry domain.AuditEntry) error {
	if err := t.fail("AppendAudit"); err != nil {
		return err
	}
	entry.ID = t.store.state.allocID()
	t.store.state.audits = append(t.store.state.audits, entry)
	return nil
}

func (t *memTx) InsertApplication(_ context.Context, app domain.TaskApplication) (uint64, error) {
	if err := t.fail("InsertApplication"); err != nil {
		return 0, err
	}
	for _, existing := range t.store.state.applications {
		if existing.TaskID == app.TaskID && existing.CreatorID == app.CreatorID {
			return 0, domain.ErrDuplicateApplication
		}
	}
	app.ID = t.store.state.allocID()
	t.store.state.applications[app.ID] = app
	return app.ID, nil
}

func (t *memTx) GetApplicationForUpdate(_ context.Context, applicationID uint64) (domain.TaskApplication, error) {
	if err := t.fail("GetApplicationForUpdate"); err != nil {
		return domain.TaskApplication{}, err
	}
	app, ok := t.store.state.applications[applicationID]
	if !ok {
		return domain.TaskApplication{}, domain.ErrApplicationNotFound
	}
	return app, nil
}

func (t *memTx) HasApplication(_ context.Context, taskID, creatorID uint64) (bool, error) {
	if err := t.fail("HasApplication"); err != nil {
		return false, err
	}
	for _, app := range t.store.state.applications {
		if app.TaskID == taskID && app.CreatorID == creatorID {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) UpdateApplicationStatus(_ context.Context, applicationID uint64, status domain.ApplicationStatus, notes *string) error {
	if err := t.fail("UpdateApplicationStatus"); err != nil {
		return err
	}
	app, ok := t.store.state.applications[applicationID]
	if !ok {
		return domain.ErrApplicationNotFound
	}
	app.Status = status
	if notes != nil {
		app.SupplierNotes = notes
	}
	t.store.state.applications[applicationID] = app
	return nil
}

func (t *memTx) RejectPendingApplications(_ context.Context, taskID, exceptID uint64, note string) ([]domain.TaskApplication, error) {
	if err := t.fail("RejectPendingApplications"); err != nil {
		return nil, err
	}
	var rejected []domain.TaskApplication
	for id, app := range t.store.state.applications {
		if app.TaskID != taskID || id == exceptID || app.Status != domain.ApplicationPending {
			continue
		}
		rejected = append(rejected, app)
		app.Status = domain.ApplicationRejected
		noteCopy := note
		app.SupplierNotes = &noteCopy
		t.store.state.applications[id] = app
	}
	return rejected, nil
}

func (t *memTx) IncrementApplicationCount(_ context.Context, taskID uint64) error {
	if err := t.fail("IncrementApplicationCount"); err != nil {
		return err
	}
	task, ok := t.store.state.tasks[taskID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	task.ApplicationCount++
	t.store.state.tasks[taskID] = task
	return nil
}

func (t *memTx) InsertAsset(_ context.Context, asset domain.WorkAsset) (uint64, error) {
	if err := t.fail("InsertAsset"); err != nil {
		return 0, err
	}
	asset.ID = t.store.state.allocID()
	t.store.state.assets[asset.ID] = asset
	return asset.ID, nil
}

func (t *memTx) GetAssetForUpdate(_ context.Context, assetID uint64) (domain.WorkAsset, error) {
	if err := t.fail("GetAssetForUpdate"); err != nil {
		return domain.WorkAsset{}, err
	}
	asset, ok := t.store.state.assets[assetID]
	if !ok {
		return domain.WorkAsset{}, domain.ErrAssetNotFound
	}
	return asset, nil
}

func (t *memTx) UpdateAssetStatus(_ context.Context, assetID uint64, status domain.AssetStatus, feedback *string) error {
	if err := t.fail("UpdateAssetStatus"); err != nil {
		return err
	}
	asset, ok := t.store.state.assets[assetID]
	if !ok {
		return domain.ErrAssetNotFound
	}
	asset.Status = status
	if feedback != nil {
		asset.Feedback = feedback
	}
	t.store.state.assets[assetID] = asset
	return nil
}

func (t *memTx) InsertRating(_ context.Context, rating domain.Rating) (uint64, error) {
	if err := t.fail("InsertRating"); err != nil {
		return 0, err
	}
	for _, existing := range t.store.state.ratings {
		if existing.TaskID == rating.TaskID &&
			existing.FromUserID == rating.FromUserID &&
			existing.ToUserID == rating.ToUserID &&
			existing.Type == rating.Type {
			return 0, domain.ErrDuplicateRating
		}
	}
	rating.ID = t.store.state.allocID()
	t.store.state.ratings = append(t.store.state.ratings, rating)
	return rating.ID, nil
}

func (t *memTx) HasRating(_ context.Context, taskID, fromUserID, toUserID uint64, ratingType domain.RatingType) (bool, error) {
	if err := t.fail("HasRating"); err != nil {
		return false, err
	}
	for _, rating := range t.store.state.ratings {
		if rating.TaskID == taskID && rating.FromUserID == fromUserID &&
			rating.ToUserID == toUserID && rating.Type == ratingType {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) AverageRating(_ context.Context, userID uint64) (float64, int, error) {
	if err := t.fail("AverageRating"); err != nil {
		return 0, 0, err
	}
	var sum float64
	var count int
	for _, rating := range t.store.state.ratings {
		if rating.ToUserID == userID {
			sum += float64(rating.Score)
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return sum / float64(count), count, nil
}

func (t *memTx) UpdateUserRating(_ context.Context, userID uint64, average float64, _ int) error {
	if err := t.fail("UpdateUserRating"); err != nil {
		return err
	}
	t.store.state.userRatings[userID] = average
	return nil
}

func (t *memTx) IncrementCompletedCount(_ context.Context, userID uint64) error {
	if err := t.fail("IncrementCompletedCount"); err != nil {
		return err
	}
	t.store.state.completedCounts[userID]++
	return nil
}

type sentNotification struct {
	UserID  uint64
	Type    domain.NotificationType
	Title   string
	Message string
	Data    map[string]any
}

// recordingDispatcher captures notifications; flip failing to simulate an
// unreachable dispatcher.
type recordingDispatcher struct {
	failing bool
	sent    []sentNotification
}

var _ ports.NotificationDispatcher = (*recordingDispatcher)(nil)

func (d *recordingDispatcher) Notify(
	_ context.Context,
	userID uint64,
	notificationType domain.NotificationType,
	title, message string,
	data map[string]any,
) error {
	if d.failing {
		return errors.New("dispatcher unreachable")
	}
	d.sent = append(d.sent, sentNotification{
		UserID:  userID,
		Type:    notificationType,
		Title:   title,
		Message: message,
		Data:    data,
	})
	return nil
}

func (d *recordingDispatcher) sentTo(userID uint64) []sentNotification {
	var matched []sentNotification
	for _, notification := range d.sent {
		if notification.UserID == userID {
			matched = append(matched, notification)
		}
	}
	return matched
}

// staticDirectory serves fixed audience lists.
type staticDirectory struct {
	creators []uint64
	media    []uint64
	err      error
}

var _ ports.UserDirectory = (*staticDirectory)(nil)

func (d *staticDirectory) ActiveCreatorIDs(context.Context, domain.Task) ([]uint64, error) {
	return d.creators, d.err
}

func (d *staticDirectory) ActiveMediaIDs(context.Context) ([]uint64, error) {
	return d.media, d.err
}
