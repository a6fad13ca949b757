package services

import (
	"testing"
	"time"

	"github.com/Rachit99/TaskHive/models"
	"github.com/agiledragon/gomonkey/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// Test for SweepReminders: a due, unsent reminder yields one notification,
// the reminder is claimed, and an already-swept store yields nothing.
func TestSweepReminders(t *testing.T) {
	patches := gomonkey.ApplyFunc(time.Now, func() time.Time {
		return FixedTime
	})
	defer patches.Reset()

	now := FixedTime
	dueDate := FixedTime.Add(48 * time.Hour)

	t.Run("Due reminder notified and retired", func(t *testing.T) {
		mockDB := new(MockDB)
		mockDB.On("Where", "sent = ? AND remind_at <= ?", []interface{}{false, now}).
			Return(mockDB)
		mockDB.On("Find", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				due := args.Get(0).(*[]models.Reminder)
				*due = []models.Reminder{
					{ID: "r1", TaskID: "task1", UserID: "u1", RemindAt: now.Add(-time.Minute)},
				}
			}).
			Return(mockDB)
		mockDB.On("Model", mock.Anything).Return(mockDB)
		mockDB.On("Where", "id = ? AND sent = ?", []interface{}{"r1", false}).
			Return(mockDB)
		mockDB.On("Update", "sent", true).Return(mockDB)
		mockDB.On("RowsAffected").Return(int64(1))
		mockDB.On("First", mock.AnythingOfType("*models.Task"), mock.Anything).
			Run(func(args mock.Arguments) {
				task := args.Get(0).(*models.Task)
				*task = models.Task{ID: "task1", WorkspaceID: "ws1", Title: "Ship release", DueDate: &dueDate}
			}).
			Return(mockDB)

		var created models.Notification
		mockDB.On("Create", mock.AnythingOfType("*models.Notification")).
			Run(func(args mock.Arguments) {
				created = *args.Get(0).(*models.Notification)
			}).
			Return(mockDB)
		mockDB.On("Error").Return(nil)

		service := &TestAutomationService{db: mockDB}
		sent, err := service.SweepReminders(now)

		assert.NoError(t, err)
		assert.Equal(t, 1, sent)
		mockDB.AssertNumberOfCalls(t, "Create", 1)
		assert.Equal(t, "u1", created.UserID)
		assert.Equal(t, "reminder", created.Type)
		assert.Equal(t, "Reminder: Ship release", created.Title)
		assert.Contains(t, created.Message, "due August 17, 2026")
		assert.Equal(t, "task", created.EntityType)
		assert.Equal(t, "task1", created.EntityID)
	})

	t.Run("Second sweep finds nothing", func(t *testing.T) {
		mockDB := new(MockDB)
		mockDB.On("Where", "sent = ? AND remind_at <= ?", []interface{}{false, now}).
			Return(mockDB)
		mockDB.On("Find", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				due := args.Get(0).(*[]models.Reminder)
				*due = []models.Reminder{}
			}).
			Return(mockDB)
		mockDB.On("Error").Return(nil)

		service := &TestAutomationService{db: mockDB}
		sent, err := service.SweepReminders(now)

		assert.NoError(t, err)
		assert.Equal(t, 0, sent)
		mockDB.AssertNotCalled(t, "Create")
	})
}

// Test that a reminder claimed by a concurrent sweep is skipped without a
// second notification.
func TestSweepRemindersConcurrentClaim(t *testing.T) {
	now := FixedTime

	mockDB := new(MockDB)
	mockDB.On("Where", "sent = ? AND remind_at <= ?", []interface{}{false, now}).
		Return(mockDB)
	mockDB.On("Find", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			due := args.Get(0).(*[]models.Reminder)
			*due = []models.Reminder{
				{ID: "r1", TaskID: "task1", UserID: "u1", RemindAt: now.Add(-time.Minute)},
			}
		}).
		Return(mockDB)
	mockDB.On("Model", mock.Anything).Return(mockDB)
	mockDB.On("Where", "id = ? AND sent = ?", []interface{}{"r1", false}).
		Return(mockDB)
	mockDB.On("Update", "sent", true).Return(mockDB)
	// Another sweep already flipped the flag.
	mockDB.On("RowsAffected").Return(int64(0))
	mockDB.On("Error").Return(nil)

	service := &TestAutomationService{db: mockDB}
	sent, err := service.SweepReminders(now)

	assert.NoError(t, err)
	assert.Equal(t, 0, sent)
	mockDB.AssertNotCalled(t, "First")
	mockDB.AssertNotCalled(t, "Create")
}

// Test that a reminder whose task is gone is still retired, so the sweep
// never retries an unrecoverable reminder.
func TestSweepRemindersMissingTaskRetired(t *testing.T) {
	now := FixedTime

	mockDB := new(MockDB)
	mockDB.On("Where", "sent = ? AND remind_at <= ?", []interface{}{false, now}).
		Return(mockDB)
	mockDB.On("Find", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			due := args.Get(0).(*[]models.Reminder)
			*due = []models.Reminder{
				{ID: "r1", TaskID: "ghost", UserID: "u1", RemindAt: now.Add(-time.Hour)},
			}
		}).
		Return(mockDB)
	mockDB.On("Model", mock.Anything).Return(mockDB)
	mockDB.On("Where", "id = ? AND sent = ?", []interface{}{"r1", false}).
		Return(mockDB)
	mockDB.On("Update", "sent", true).Return(mockDB)
	mockDB.On("RowsAffected").Return(int64(1))
	mockDB.On("First", mock.AnythingOfType("*models.Task"), mock.Anything).
		Return(mockDB)

	// Find and claim succeed, the task lookup does not.
	mockDB.On("Error").Return(nil).Twice()
	mockDB.On("Error").Return(gorm.ErrRecordNotFound).Once()

	service := &TestAutomationService{db: mockDB}
	sent, err := service.SweepReminders(now)

	assert.NoError(t, err)
	assert.Equal(t, 0, sent)
	// The claim still happened; the reminder will not come back.
	mockDB.AssertNumberOfCalls(t, "Update", 1)
	mockDB.AssertNotCalled(t, "Create")
}

// Test for ScanDueDates: a task entering its approach window is handled once,
// dispatching due_date_approaching and deriving reminders for assignees that
// lack one.
func TestScanDueDates(t *testing.T) {
	patches := gomonkey.ApplyFunc(time.Now, func() time.Time {
		return FixedTime
	})
	defer patches.Reset()

	now := FixedTime
	dueDate := now.Add(12 * time.Hour)

	t.Run("Window entered", func(t *testing.T) {
		mockDB := new(MockDB)
		mockDB.On("Where", "due_soon_notified = ? AND due_date IS NOT NULL AND due_date > ? AND due_date <= ?",
			[]interface{}{false, now, now.Add(dueSoonWindow)}).
			Return(mockDB)
		mockDB.On("Find", mock.AnythingOfType("*[]models.Task"), mock.Anything).
			Run(func(args mock.Arguments) {
				tasks := args.Get(0).(*[]models.Task)
				*tasks = []models.Task{
					{ID: "task1", WorkspaceID: "ws1", Title: "Prepare demo", DueDate: &dueDate},
				}
			}).
			Return(mockDB)
		mockDB.On("Model", mock.Anything).Return(mockDB)
		mockDB.On("Where", "id = ? AND due_soon_notified = ?", []interface{}{"task1", false}).
			Return(mockDB)
		mockDB.On("Update", "due_soon_notified", true).Return(mockDB)
		mockDB.On("RowsAffected").Return(int64(1))

		// No rules listen for due_date_approaching in this workspace.
		mockDB.On("Where", "workspace_id = ? AND trigger_type = ? AND enabled = ?",
			[]interface{}{"ws1", TriggerDueDateApproaching, true}).
			Return(mockDB)
		mockDB.On("Find", mock.AnythingOfType("*[]models.Automation"), mock.Anything).
			Return(mockDB)

		mockDB.On("Where", "task_id = ?", []interface{}{"task1"}).
			Return(mockDB)
		mockDB.On("Find", mock.AnythingOfType("*[]models.TaskAssignee"), mock.Anything).
			Run(func(args mock.Arguments) {
				assignees := args.Get(0).(*[]models.TaskAssignee)
				*assignees = []models.TaskAssignee{{TaskID: "task1", UserID: "u1"}}
			}).
			Return(mockDB)
		mockDB.On("Where", "task_id = ? AND user_id = ?", []interface{}{"task1", "u1"}).
			Return(mockDB)
		mockDB.On("Count", mock.Anything).
			Run(func(args mock.Arguments) {
				count := args.Get(0).(*int64)
				*count = 0
			}).
			Return(mockDB)

		var created models.Reminder
		mockDB.On("Create", mock.AnythingOfType("*models.Reminder")).
			Run(func(args mock.Arguments) {
				created = *args.Get(0).(*models.Reminder)
			}).
			Return(mockDB)
		mockDB.On("Error").Return(nil)

		service := &TestAutomationService{db: mockDB}
		handled, err := service.ScanDueDates(now)

		assert.NoError(t, err)
		assert.Equal(t, 1, handled)
		mockDB.AssertNumberOfCalls(t, "Create", 1)
		assert.Equal(t, "task1", created.TaskID)
		assert.Equal(t, "u1", created.UserID)
		assert.Equal(t, dueDate.Add(-dueSoonWindow), created.RemindAt)
		assert.NotEmpty(t, created.ID)
	})

	t.Run("Window already handled by a concurrent scan", func(t *testing.T) {
		mockDB := new(MockDB)
		mockDB.On("Where", mock.Anything, mock.Anything).Return(mockDB)
		mockDB.On("Find", mock.AnythingOfType("*[]models.Task"), mock.Anything).
			Run(func(args mock.Arguments) {
				tasks := args.Get(0).(*[]models.Task)
				*tasks = []models.Task{
					{ID: "task1", WorkspaceID: "ws1", DueDate: &dueDate},
				}
			}).
			Return(mockDB)
		mockDB.On("Model", mock.Anything).Return(mockDB)
		mockDB.On("Update", "due_soon_notified", true).Return(mockDB)
		mockDB.On("RowsAffected").Return(int64(0))
		mockDB.On("Error").Return(nil)

		service := &TestAutomationService{db: mockDB}
		handled, err := service.ScanDueDates(now)

		assert.NoError(t, err)
		assert.Equal(t, 0, handled)
		mockDB.AssertNotCalled(t, "Create")
	})
}
