package repositories

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"task-manager/tasks-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const testNS = "tasks_db.tasks"

func taskDoc(id, title string, status models.TaskStatus, createdAt time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id + "-oid"},
		{Key: "id", Value: id},
		{Key: "title", Value: title},
		{Key: "description", Value: ""},
		{Key: "due_date", Value: nil},
		{Key: "priority", Value: "Medium"},
		{Key: "category", Value: ""},
		{Key: "status", Value: string(status)},
		{Key: "subtasks", Value: bson.A{
			bson.D{{Key: "id", Value: "s1"}, {Key: "text", Value: "a"}, {Key: "completed", Value: false}},
		}},
		{Key: "created_at", Value: createdAt},
		{Key: "updated_at", Value: createdAt},
	}
}

func startedCommand(mt *mtest.T) bson.Raw {
	mt.Helper()
	evt := mt.GetStartedEvent()
	require.NotNil(mt, evt)
	return evt.Command
}

func sortedKeys(mt *mtest.T, doc bson.Raw) []string {
	mt.Helper()
	elems, err := doc.Elements()
	require.NoError(mt, err)
	keys := make([]string, 0, len(elems))
	for _, e := range elems {
		keys = append(keys, e.Key())
	}
	sort.Strings(keys)
	return keys
}

func TestTaskRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	created := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	mt.Run("insert acknowledged", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := NewTaskRepo(mt.Coll).Insert(ctx, &models.Task{ID: "t1", Title: "Write report"})
		require.NoError(mt, err)
	})

	mt.Run("insert write error is a persistence failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := NewTaskRepo(mt.Coll).Insert(ctx, &models.Task{ID: "t1", Title: "Write report"})
		require.Error(mt, err)
		assert.True(mt, errors.Is(err, models.ErrPersistence))
		assert.True(mt, mongo.IsDuplicateKeyError(err))
	})

	mt.Run("find by id decodes the document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch, taskDoc("t1", "Write report", models.StatusToDo, created)))

		task, err := NewTaskRepo(mt.Coll).FindByID(ctx, "t1")
		require.NoError(mt, err)
		assert.Equal(mt, "t1", task.ID)
		assert.Equal(mt, "Write report", task.Title)
		assert.Equal(mt, models.StatusToDo, task.Status)
		assert.Equal(mt, models.PriorityMedium, task.Priority)
		assert.Nil(mt, task.DueDate)
		assert.Equal(mt, []models.Subtask{{ID: "s1", Text: "a"}}, task.Subtasks)
		assert.True(mt, created.Equal(task.CreatedAt))
	})

	mt.Run("find by id miss", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch))

		_, err := NewTaskRepo(mt.Coll).FindByID(ctx, "nope")
		assert.ErrorIs(mt, err, models.ErrTaskNotFound)
	})

	mt.Run("find returns documents in cursor order", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch,
			taskDoc("t2", "Newer", models.StatusDone, created.Add(time.Hour)),
			taskDoc("t1", "Older", models.StatusDone, created),
		))

		tasks, err := NewTaskRepo(mt.Coll).Find(ctx, models.TaskFilter{Status: models.StatusDone}, 1000)
		require.NoError(mt, err)
		require.Len(mt, tasks, 2)
		assert.Equal(mt, "t2", tasks[0].ID)
		assert.Equal(mt, "t1", tasks[1].ID)
	})

	mt.Run("find with no match is empty, not nil", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch))

		tasks, err := NewTaskRepo(mt.Coll).Find(ctx, models.TaskFilter{Category: "none"}, 1000)
		require.NoError(mt, err)
		assert.NotNil(mt, tasks)
		assert.Empty(mt, tasks)
	})

	mt.Run("update fields reports matched count", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
		))

		matched, err := NewTaskRepo(mt.Coll).UpdateFields(ctx, &models.Task{ID: "t1", Title: "Same"}, []string{models.FieldTitle, models.FieldUpdatedAt})
		require.NoError(mt, err)
		assert.EqualValues(mt, 1, matched)
	})

	mt.Run("update fields sets only the named fields", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		task := &models.Task{ID: "t1", Title: "untouched", UpdatedAt: created}
		_, err := NewTaskRepo(mt.Coll).UpdateFields(ctx, task, []string{models.FieldDueDate, models.FieldUpdatedAt})
		require.NoError(mt, err)

		cmd := startedCommand(mt)
		assert.Equal(mt, "t1", cmd.Lookup("updates", "0", "q", "id").StringValue())

		set := cmd.Lookup("updates", "0", "u", "$set").Document()
		assert.Equal(mt, []string{models.FieldDueDate, models.FieldUpdatedAt}, sortedKeys(mt, set))
		assert.Equal(mt, bson.TypeNull, set.Lookup(models.FieldDueDate).Type)
		assert.True(mt, created.Equal(set.Lookup(models.FieldUpdatedAt).Time()))
	})

	mt.Run("subtask update targets the embedded element", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		_, err := NewTaskRepo(mt.Coll).SetSubtaskCompleted(ctx, "t1", "s1", true, created)
		require.NoError(mt, err)

		cmd := startedCommand(mt)
		query := cmd.Lookup("updates", "0", "q").Document()
		assert.Equal(mt, []string{"id", "subtasks.id"}, sortedKeys(mt, query))
		assert.Equal(mt, "t1", query.Lookup("id").StringValue())
		assert.Equal(mt, "s1", query.Lookup("subtasks.id").StringValue())

		set := cmd.Lookup("updates", "0", "u", "$set").Document()
		assert.Equal(mt, []string{"subtasks.$.completed", "updated_at"}, sortedKeys(mt, set))
		assert.True(mt, set.Lookup("subtasks.$.completed").Boolean())
	})

	mt.Run("subtask update with no match", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		matched, err := NewTaskRepo(mt.Coll).SetSubtaskCompleted(ctx, "t1", "missing", true, created)
		require.NoError(mt, err)
		assert.EqualValues(mt, 0, matched)
	})

	mt.Run("delete reports deleted count", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		deleted, err := NewTaskRepo(mt.Coll).Delete(ctx, "t1")
		require.NoError(mt, err)
		assert.EqualValues(mt, 1, deleted)
	})

	mt.Run("count", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: 1}, {Key: "n", Value: int32(4)}},
		))

		now := created
		n, err := NewTaskRepo(mt.Coll).Count(ctx, models.TaskFilter{DueBefore: &now, StatusNot: models.StatusDone})
		require.NoError(mt, err)
		assert.EqualValues(mt, 4, n)

		match := startedCommand(mt).Lookup("pipeline", "0", "$match").Document()
		assert.Equal(mt, string(models.StatusDone), match.Lookup("status", "$ne").StringValue())
		assert.True(mt, now.Equal(match.Lookup("due_date", "$lt").Time()))
	})
}

func TestTaskQuery(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, bson.M{}, taskQuery(models.TaskFilter{}))
	assert.Equal(t, bson.M{
		"status":   models.StatusDone,
		"priority": models.PriorityHigh,
		"category": "work",
	}, taskQuery(models.TaskFilter{Status: models.StatusDone, Priority: models.PriorityHigh, Category: "work"}))
	assert.Equal(t, bson.M{
		"status":   bson.M{"$ne": models.StatusDone},
		"due_date": bson.M{"$lt": now},
	}, taskQuery(models.TaskFilter{StatusNot: models.StatusDone, DueBefore: &now}))
}

func TestStatusRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("insert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := NewStatusRepo(mt.Coll).Insert(ctx, &models.StatusCheck{ID: "c1", ClientName: "uptime-monitor", Timestamp: time.Now().UTC()})
		require.NoError(mt, err)
	})

	mt.Run("list", func(mt *mtest.T) {
		ts := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "tasks_db.status_checks", mtest.FirstBatch,
			bson.D{{Key: "id", Value: "c1"}, {Key: "client_name", Value: "uptime-monitor"}, {Key: "timestamp", Value: ts}},
			bson.D{{Key: "id", Value: "c2"}, {Key: "client_name", Value: "uptime"}, {Key: "timestamp", Value: ts}},
		))

		checks, err := NewStatusRepo(mt.Coll).List(ctx, 1000)
		require.NoError(mt, err)
		require.Len(mt, checks, 2)
		assert.Equal(mt, "uptime-monitor", checks[0].ClientName)
		assert.Equal(mt, "c2", checks[1].ID)
	})

	mt.Run("list empty", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "tasks_db.status_checks", mtest.FirstBatch))

		checks, err := NewStatusRepo(mt.Coll).List(ctx, 1000)
		require.NoError(mt, err)
		assert.NotNil(mt, checks)
		assert.Empty(mt, checks)
	})
}
